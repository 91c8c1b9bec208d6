package daemon

import (
	"context"

	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/content"
	seeder "github.com/folio-cms/folio/internal/seed"
)

// seed creates the initial admin when the users table is empty.
func seed(cfg *config.Config, authService *auth.Service) error {
	_, err := authService.Local().EnsureAdmin(cfg.Admin)
	return err
}

// SeedFile loads the content fixtures in path into the configured database.
func SeedFile(ctx context.Context, cfg *config.Config, path string) (*seeder.Result, error) {
	gdb, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	// fixtures reference images by url, nothing is uploaded or removed
	return seeder.File(ctx, gdb, content.New(gdb, nil), path)
}

// AddUser creates a local user in the configured database. The otpauth url is returned
// when a second factor was enrolled.
func AddUser(cfg *config.Config, in auth.NewUser) (string, error) {
	gdb, err := OpenDB(cfg)
	if err != nil {
		return "", err
	}

	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	_, otpURL, err := auth.NewLocalProvider(gdb, cfg.Auth.LocalDB.Issuer).CreateUser(in)

	return otpURL, err
}
