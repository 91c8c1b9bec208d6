// Package logout ends admin sessions.
package logout

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/web/handler"
	"github.com/folio-cms/folio/internal/web/session"
)

// Path is the path of the logout.
const Path = handler.RootPath + "auth/logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	auth     *auth.Service
	sessions *session.Store
	adminURL string
}

// Result is the body of a logout. LogoutURL is set for oidc sessions
// when the issuer supports rp initiated logout.
type Result struct {
	Success   bool   `json:"success"`
	LogoutURL string `json:"logoutUrl,omitempty"`
}

// Init initializes the logout handler.
func (s *Service) Init(routes *handler.Routes, deps *handler.Deps) error {
	if routes == nil || deps == nil || deps.Auth == nil || deps.Sessions == nil || deps.Cfg == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.auth = deps.Auth
	s.sessions = deps.Sessions

	s.adminURL = deps.Cfg.Webserver.AdminURL
	if s.adminURL == "" {
		s.adminURL = deps.Cfg.Webserver.URL
	}

	routes.API.Post(Path, s.Post)

	return nil
}

// Post destroys the session. Logging out without a session succeeds.
func (s *Service) Post(c fiber.Ctx) error {
	out := Result{Success: true}

	data, err := s.sessions.FromRequest(c)
	if err == nil {
		if p := s.auth.OIDC(); p != nil && data.IDToken != "" {
			out.LogoutURL = p.GetLogoutURL(data.IDToken, s.adminURL)
		}

		log.Info().Str("username", data.User.Username).Msg("user logged out")
	}

	if err = s.sessions.Destroy(c); err != nil {
		return err
	}

	return c.JSON(out)
}
