// Package db opens the configured database and migrates the schema.
package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/db/dsn"
	"github.com/folio-cms/folio/internal/db/models"
	"github.com/folio-cms/folio/internal/logger/adapter/stdlogger"
)

const slowQuery = 500 * time.Millisecond

// Dialector returns the gorm dialector of the configured engine.
func Dialector(cfg *config.DB) (gorm.Dialector, error) {
	switch cfg.Engine {
	case config.EngineMySQL:
		return gormmysql.Open(dsn.MySQL(cfg)), nil
	case config.EnginePostgres:
		return postgres.Open(dsn.Postgres(cfg)), nil
	case config.EngineSQLite, "":
		path := cfg.Path
		if path == "" {
			path = "folio.db"
		}

		if path != ":memory:" && !strings.HasPrefix(path, "file:") {
			if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil { //nolint:mnd
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}

		if !strings.Contains(path, "?") {
			path += "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
		}

		return sqlite.Open(path), nil
	default:
		return nil, config.ErrUnknownDBEngine
	}
}

// Open connects to the configured database.
// logSQL routes every statement to the debug log, otherwise only slow queries and errors are logged.
func Open(cfg *config.DB, logSQL bool) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	printLevel := zerolog.WarnLevel

	if logSQL {
		level = gormlogger.Info
		printLevel = zerolog.DebugLevel
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(stdlogger.NewWithLevel("gorm", printLevel), gormlogger.Config{
			SlowThreshold:             slowQuery,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Engine, err)
	}

	if cfg.Engine == config.EngineSQLite || cfg.Engine == "" {
		// sqlite allows a single writer
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite pool: %w", err)
		}

		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	return nil
}
