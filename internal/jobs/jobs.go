// Package jobs runs the scheduled maintenance of the content store.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/content"
	"github.com/folio-cms/folio/internal/db/controller/setting"
	"github.com/folio-cms/folio/internal/imagehost"
	"github.com/folio-cms/folio/internal/web/session"
)

const (
	// DefaultOrphanGrace protects fresh uploads the admin ui has not saved to a row yet.
	DefaultOrphanGrace = 24 * time.Hour

	pruneSpec  = "@every 10m"
	jobTimeout = 10 * time.Minute
)

// ErrNoImageStore is returned by the sweep when no listable image host is configured.
var ErrNoImageStore = errors.New("image host can not list its images")

// ImageStore is an image host that can enumerate what it stores.
type ImageStore interface {
	imagehost.Host
	List(ctx context.Context) ([]imagehost.Stored, error)
}

// Deps are the collaborators of the jobs. Nil members disable the jobs using them.
type Deps struct {
	DB        *gorm.DB
	Content   *content.Registry
	Images    ImageStore
	Sessions  *session.GormStorage
	Protector *auth.Protector
}

// Scheduler runs the maintenance jobs on cron schedules.
type Scheduler struct {
	cron *cron.Cron
	cfg  config.Jobs
	deps Deps
	now  func() time.Time
}

// New creates the scheduler. Jobs are added by Start.
func New(cfg config.Jobs, deps Deps) *Scheduler {
	if cfg.OrphanGrace <= 0 {
		cfg.OrphanGrace = DefaultOrphanGrace
	}

	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		cfg:  cfg,
		deps: deps,
		now:  time.Now,
	}
}

// Start registers the configured jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	if s.cfg.OrphanSweep != "" && s.deps.Images != nil && s.deps.Content != nil {
		if err := s.add("orphan sweep", s.cfg.OrphanSweep, func(ctx context.Context) error {
			n, err := s.SweepOrphans(ctx)
			if n > 0 {
				log.Info().Int("deleted", n).Msg("orphaned images removed")
			}

			return err
		}); err != nil {
			return err
		}
	}

	if s.cfg.SessionGC != "" && s.deps.Sessions != nil {
		if err := s.add("session gc", s.cfg.SessionGC, func(ctx context.Context) error {
			n, err := s.deps.Sessions.GC(ctx)
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("expired sessions removed")
			}

			return err
		}); err != nil {
			return err
		}
	}

	if s.deps.Protector != nil {
		if err := s.add("login protection prune", pruneSpec, func(context.Context) error {
			s.deps.Protector.Prune()
			return nil
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")

	return nil
}

// Stop stops the runner and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) add(name, spec string, run func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()

		if err := run(ctx); err != nil {
			log.Error().Err(err).Str("job", name).Msg("scheduled job failed")
			return
		}

		log.Debug().Str("job", name).Dur("took", time.Since(start)).Msg("scheduled job done")
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}

	return nil
}

// SweepOrphans deletes stored images older than the grace period no row or setting refers to.
// A failed delete is logged and the sweep goes on.
func (s *Scheduler) SweepOrphans(ctx context.Context) (int, error) {
	if s.deps.Images == nil || s.deps.Content == nil {
		return 0, ErrNoImageStore
	}

	used, err := s.referenced(ctx)
	if err != nil {
		return 0, err
	}

	stored, err := s.deps.Images.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-s.cfg.OrphanGrace)
	deleted := 0

	for _, img := range stored {
		if used[img.PublicID] || img.ModTime.After(cutoff) {
			continue
		}

		if err = s.deps.Images.Delete(ctx, img.PublicID); err != nil {
			log.Error().Err(err).Str("public_id", img.PublicID).Msg("failed to delete orphaned image")
			continue
		}

		deleted++
	}

	return deleted, nil
}

// referenced collects the public ids of every image a content row or setting points to.
func (s *Scheduler) referenced(ctx context.Context) (map[string]bool, error) {
	var refs []string

	for _, res := range s.deps.Content.All() {
		r, err := res.ImageRefs(ctx)
		if err != nil {
			return nil, err
		}

		refs = append(refs, r...)
	}

	if s.deps.DB != nil {
		values, err := setting.Map(s.deps.DB.WithContext(ctx))
		if err != nil {
			return nil, err
		}

		for _, v := range values {
			refs = append(refs, v)
		}
	}

	used := make(map[string]bool, len(refs))

	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}

		if id, ok := s.deps.Images.PublicIDFromURL(ref); ok {
			used[id] = true
			continue
		}

		used[ref] = true
	}

	return used, nil
}
