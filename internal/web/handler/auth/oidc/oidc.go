package oidc

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/web/handler"
	"github.com/folio-cms/folio/internal/web/session"
)

const (
	// LoginPath is the path to initiate OIDC login.
	LoginPath = handler.RootPath + "auth/oidc/login"

	// CallbackPath is the path for OIDC callback.
	CallbackPath = handler.RootPath + "auth/oidc/callback"
)

// Service is the OIDC handler service.
type Service struct {
	handler.Service
	auth     *auth.Service
	sessions *session.Store
	adminURL string
}

// Init initializes the OIDC handler.
func (s *Service) Init(routes *handler.Routes, deps *handler.Deps) error {
	if routes == nil || deps == nil || deps.Auth == nil || deps.Sessions == nil || deps.Cfg == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.auth = deps.Auth
	s.sessions = deps.Sessions

	s.adminURL = deps.Cfg.Webserver.AdminURL
	if s.adminURL == "" {
		s.adminURL = handler.RootPath
	}

	routes.API.Get(LoginPath, s.Login)
	routes.API.Get(CallbackPath, s.Callback)

	return nil
}

// Login initiates the OIDC login flow.
func (s *Service) Login(c fiber.Ctx) error {
	provider := s.auth.OIDC()
	if provider == nil {
		return handler.Fail(c, fiber.StatusNotFound, "OIDC login is not enabled")
	}

	state, err := auth.GenerateStateToken()
	if err != nil {
		return err //nolint:wrapcheck
	}

	if err = s.sessions.PutState(state); err != nil {
		return err //nolint:wrapcheck
	}

	return c.Redirect().To(provider.GetAuthURL(state))
}

// Callback handles the OIDC callback.
func (s *Service) Callback(c fiber.Ctx) error {
	provider := s.auth.OIDC()
	if provider == nil {
		return handler.Fail(c, fiber.StatusNotFound, "OIDC login is not enabled")
	}

	if e := c.Query("error"); e != "" {
		log.Warn().Str("error", e).Str("description", c.Query("error_description")).Msg("oidc issuer refused login")

		return handler.Fail(c, fiber.StatusUnauthorized, "Authentication failed")
	}

	code := c.Query("code")
	if code == "" {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid callback parameters")
	}

	if err := s.sessions.TakeState(c.Query("state")); err != nil {
		if errors.Is(err, session.ErrUnknownState) {
			return handler.Fail(c, fiber.StatusBadRequest, "Invalid or expired state")
		}

		return err //nolint:wrapcheck
	}

	user, idToken, err := provider.HandleCallback(c.Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("OIDC authentication failed")

		return handler.Fail(c, fiber.StatusUnauthorized, "Authentication failed")
	}

	if err = s.sessions.Start(c, &session.Data{User: *user, IDToken: idToken}); err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Str("username", user.Username).Msg("user logged in via OIDC")

	return c.Redirect().To(s.adminURL)
}
