package handler

import (
	"github.com/gofiber/fiber/v3"
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/content"
	"github.com/folio-cms/folio/internal/imagehost"
	"github.com/folio-cms/folio/internal/web/session"
)

// Routes are the routers handlers register on.
type Routes struct {
	// API is public, mounted at APIPath.
	API fiber.Router
	// Admin requires a session, mounted at AdminPath.
	Admin fiber.Router
}

// Deps are the collaborators shared by the handlers.
type Deps struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Sessions *session.Store
	Auth     *auth.Service
	Images   imagehost.Host
	Content  *content.Registry
}

// Service is the interface for a web handler service.
type Service interface {
	Init(routes *Routes, deps *Deps) error
}
