// Package content serves the ordered content collections: public lists and admin CRUD.
package content

import (
	"errors"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/content"
	"github.com/folio-cms/folio/internal/db/controller/blog"
	"github.com/folio-cms/folio/internal/db/controller/collection"
	"github.com/folio-cms/folio/internal/web/handler"
	"github.com/folio-cms/folio/internal/web/middleware/auth"
)

// BlogSlugPath is the public path of a single published post.
const BlogSlugPath = handler.RootPath + content.Blog + "/:slug"

// Service is the content handler service.
type Service struct {
	handler.Service
	registry *content.Registry
	db       *gorm.DB
}

// Init registers public and admin routes for every resource of the registry.
func (s *Service) Init(routes *handler.Routes, deps *handler.Deps) error {
	if routes == nil || deps == nil || deps.Content == nil || deps.DB == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.registry = deps.Content
	s.db = deps.DB

	routes.API.Get(BlogSlugPath, s.GetPost)

	for _, res := range s.registry.All() {
		path := handler.RootPath + res.Spec().Name

		routes.API.Get(path, s.list(res, true))
		routes.Admin.Get(path, s.list(res, false))
		routes.Admin.Post(path, s.create(res))
		routes.Admin.Put(path, s.update(res))
		routes.Admin.Delete(path, s.delete(res))
	}

	return nil
}

func (s *Service) list(res collection.Resource, public bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		items, err := res.List(c.Context(), public)
		if err != nil {
			return err
		}

		return c.JSON(items)
	}
}

func (s *Service) create(res collection.Resource) fiber.Handler {
	return func(c fiber.Ctx) error {
		item, err := res.Create(c.Context(), c.Body())
		if err != nil {
			return err
		}

		log.Info().Str("resource", res.Spec().Name).Str("user", username(c)).Msg("item created")

		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

func (s *Service) update(res collection.Resource) fiber.Handler {
	return func(c fiber.Ctx) error {
		var ref struct {
			ID string `json:"id"`
		}

		if err := json.Unmarshal(c.Body(), &ref); err != nil {
			return collection.ErrInvalidBody
		}

		if ref.ID == "" {
			return handler.ErrMissingID
		}

		item, err := res.Update(c.Context(), ref.ID, c.Body())
		if err != nil {
			return err
		}

		log.Info().Str("resource", res.Spec().Name).Str("id", ref.ID).Str("user", username(c)).Msg("item updated")

		return c.JSON(item)
	}
}

func (s *Service) delete(res collection.Resource) fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Query("id")
		if id == "" {
			return handler.ErrMissingID
		}

		if err := res.Delete(c.Context(), id); err != nil {
			return err
		}

		log.Info().Str("resource", res.Spec().Name).Str("id", id).Str("user", username(c)).Msg("item deleted")

		return handler.OK(c)
	}
}

// GetPost returns a published post by slug with its rendered content.
func (s *Service) GetPost(c fiber.Ctx) error {
	post, err := blog.GetPublishedBySlug(c.Context(), s.db, c.Params("slug"))
	if err != nil {
		return err
	}

	return c.JSON(post)
}

func username(c fiber.Ctx) string {
	if data := auth.Session(c); data != nil {
		return data.User.Username
	}

	return ""
}
