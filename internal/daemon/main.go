// Package daemon wires storage, authentication, maintenance jobs and the web service.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/content"
	"github.com/folio-cms/folio/internal/db"
	"github.com/folio-cms/folio/internal/db/dsn"
	"github.com/folio-cms/folio/internal/imagehost"
	"github.com/folio-cms/folio/internal/jobs"
	"github.com/folio-cms/folio/internal/web"
	"github.com/folio-cms/folio/internal/web/handler"
	"github.com/folio-cms/folio/internal/web/session"
)

// SessionTable is the table the mysql and postgres session storages keep their rows in.
const SessionTable = "sessions"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	webService *web.Service
	jobs       *jobs.Scheduler
	sessions   session.Storage
}

// OpenDB connects to the configured database and migrates the schema.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	gdb, err := db.Open(&cfg.DB, cfg.Log.LogSQL)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(gdb); err != nil {
		return nil, err
	}

	return gdb, nil
}

// NewSessionStorage picks the session backend of the configured engine.
// The gorm storage is returned as well when sessions live in the main sqlite database, it needs
// the scheduled gc the other backends run on their own.
func NewSessionStorage(cfg *config.Config, gdb *gorm.DB) (session.Storage, *session.GormStorage) {
	switch cfg.DB.Engine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(&cfg.DB),
			Table:         SessionTable,
		}), nil
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Postgres(&cfg.DB),
			Table:         SessionTable,
		}), nil
	default:
		s := session.NewGormStorage(gdb)
		return s, s
	}
}

// New creates a new Daemon instance with the provided configuration.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	gdb, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	authService, err := auth.NewService(ctx, cfg, gdb)
	if err != nil {
		return nil, err
	}

	if err = seed(cfg, authService); err != nil {
		return nil, err
	}

	images, err := imagehost.NewDiskHost(cfg.Images)
	if err != nil {
		return nil, err
	}

	registry := content.New(gdb, imagehost.Remover{Host: images})
	storage, gcStorage := NewSessionStorage(cfg, gdb)

	deps := &handler.Deps{
		Cfg:      cfg,
		DB:       gdb,
		Sessions: session.New(storage, cfg.Webserver.Session, strings.HasPrefix(cfg.Webserver.URL, "https://")),
		Auth:     authService,
		Images:   images,
		Content:  registry,
	}

	webService, err := web.New(deps)
	if err != nil {
		return nil, fmt.Errorf("init web service: %w", err)
	}

	return &Daemon{
		cfg:        cfg,
		db:         gdb,
		webService: webService,
		sessions:   storage,
		jobs: jobs.New(cfg.Jobs, jobs.Deps{
			DB:        gdb,
			Content:   registry,
			Images:    images,
			Sessions:  gcStorage,
			Protector: authService.Protector(),
		}),
	}, nil
}

// Start starts the jobs and the web service and blocks until a shutdown signal stopped them.
func (d *Daemon) Start() error {
	if err := d.jobs.Start(); err != nil {
		return err
	}

	go d.webService.WaitShutdown()

	err := d.webService.Start(":" + strconv.Itoa(d.cfg.Webserver.Port))

	d.jobs.Stop()
	d.close()

	return err
}

func (d *Daemon) close() {
	if c, ok := d.sessions.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close session storage")
		}
	}

	if sqlDB, err := d.db.DB(); err == nil {
		if err = sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
}
