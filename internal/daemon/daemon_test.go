package daemon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/db/models"
	"github.com/folio-cms/folio/internal/web/session"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()

	return &config.Config{
		Title: "Test",
		DB:    config.DB{Engine: config.EngineSQLite, Path: filepath.Join(dir, "data", "folio.db")},
		Webserver: config.Webserver{
			Port:          8080,
			URL:           "http://localhost:8080",
			CheckAliveURI: "/checkalive",
		},
		Auth:   config.Auth{LocalDB: config.LocalDBAuth{Enabled: true}},
		Admin:  config.Admin{InitialUsername: "admin", InitialPassword: "changeme"},
		Images: config.Images{Root: filepath.Join(dir, "uploads"), BaseURL: "/uploads"},
	}
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)

	d, err := New(t.Context(), cfg)
	require.NoError(t, err)

	t.Cleanup(d.close)

	var admin models.User
	require.NoError(t, d.db.Where("username = ?", "admin").First(&admin).Error)
	assert.True(t, admin.Active)

	_, isGorm := d.sessions.(*session.GormStorage)
	assert.True(t, isGorm, "sqlite keeps sessions in the main database")

	_, err = os.Stat(cfg.Images.Root)
	require.NoError(t, err, "image root created")
}

func TestNewNilConfig(t *testing.T) {
	_, err := New(t.Context(), nil)
	require.Error(t, err)
}

func TestSeedFileAndAddUser(t *testing.T) {
	cfg := testConfig(t)

	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte("services:\n  - title: Weddings\n    description: All day\n"), 0o600))

	res, err := SeedFile(t.Context(), cfg, path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Items["services"])

	otpURL, err := AddUser(cfg, auth.NewUser{Username: "editor", Password: "pw", TOTP: true})
	require.NoError(t, err)
	assert.Contains(t, otpURL, "otpauth://totp/")

	_, err = AddUser(cfg, auth.NewUser{Username: "editor", Password: "pw"})
	require.ErrorIs(t, err, auth.ErrUserNameExists)
}
