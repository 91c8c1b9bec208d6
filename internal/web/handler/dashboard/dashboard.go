// Package dashboard provides the counters shown on the admin start page.
package dashboard

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/content"
	"github.com/folio-cms/folio/internal/db/controller/message"
	"github.com/folio-cms/folio/internal/web/handler"
)

// Path is the path of the stats endpoint.
const Path = handler.RootPath + "stats"

// Stats holds the row count of every content type and the message counters.
type Stats struct {
	Collections    map[string]int64 `json:"collections"`
	Messages       int64            `json:"messages"`
	UnreadMessages int64            `json:"unreadMessages"`
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	db      *gorm.DB
	content *content.Registry
}

// Init initializes the dashboard handler.
func (s *Service) Init(routes *handler.Routes, deps *handler.Deps) error {
	if routes == nil || deps == nil || deps.DB == nil || deps.Content == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.db = deps.DB
	s.content = deps.Content

	routes.Admin.Get(Path, s.Get)

	return nil
}

// Get returns the counters.
func (s *Service) Get(c fiber.Ctx) error {
	ctx := c.Context()

	stats := Stats{Collections: make(map[string]int64, len(s.content.All()))}

	for _, res := range s.content.All() {
		n, err := res.Count(ctx)
		if err != nil {
			return err
		}

		stats.Collections[res.Spec().Name] = n
	}

	var err error

	if stats.Messages, err = message.Count(ctx, s.db); err != nil {
		return err
	}

	if stats.UnreadMessages, err = message.CountUnread(ctx, s.db); err != nil {
		return err
	}

	log.Debug().
		Int("collections", len(stats.Collections)).
		Int64("messages", stats.Messages).
		Int64("unread_messages", stats.UnreadMessages).
		Msg("dashboard stats retrieved")

	return c.JSON(stats)
}
