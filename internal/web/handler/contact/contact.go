// Package contact accepts the public contact form and lets admins work through the messages.
package contact

import (
	"errors"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/db/controller/collection"
	"github.com/folio-cms/folio/internal/db/controller/message"
	"github.com/folio-cms/folio/internal/web/handler"
)

const (
	// Path is the public contact form endpoint.
	Path = handler.RootPath + "contact"

	// MessagesPath is the admin inbox.
	MessagesPath = handler.RootPath + "messages"
)

// Service is the contact handler service.
type Service struct {
	handler.Service
	db *gorm.DB
}

// flagsRequest is the body of a flag update.
type flagsRequest struct {
	ID string `json:"id"`
	message.Flags
}

// Init registers the contact routes.
func (s *Service) Init(routes *handler.Routes, deps *handler.Deps) error {
	if routes == nil || deps == nil || deps.DB == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.db = deps.DB

	routes.API.Post(Path, s.Post)

	routes.Admin.Get(MessagesPath, s.List)
	routes.Admin.Put(MessagesPath, s.Put)
	routes.Admin.Delete(MessagesPath, s.Delete)

	return nil
}

// Post stores a contact form submission.
func (s *Service) Post(c fiber.Ctx) error {
	var in message.Input
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return collection.ErrInvalidBody
	}

	msg, err := message.Create(c.Context(), s.db, in)
	if err != nil {
		return err
	}

	log.Info().Str("id", msg.ID).Str("ip", c.IP()).Msg("contact message received")

	return c.Status(fiber.StatusCreated).JSON(msg)
}

// List returns all messages newest first.
func (s *Service) List(c fiber.Ctx) error {
	msgs, err := message.List(c.Context(), s.db)
	if err != nil {
		return err
	}

	return c.JSON(msgs)
}

// Put changes the read and replied flags.
func (s *Service) Put(c fiber.Ctx) error {
	var req flagsRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return collection.ErrInvalidBody
	}

	if req.ID == "" {
		return handler.ErrMissingID
	}

	msg, err := message.SetFlags(c.Context(), s.db, req.ID, req.Flags)
	if err != nil {
		return err
	}

	return c.JSON(msg)
}

// Delete removes a message.
func (s *Service) Delete(c fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return handler.ErrMissingID
	}

	if err := message.Delete(c.Context(), s.db, id); err != nil {
		return err
	}

	return handler.OK(c)
}
