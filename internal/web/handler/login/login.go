package login

import (
	"errors"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/db/controller/collection"
	"github.com/folio-cms/folio/internal/db/models"
	"github.com/folio-cms/folio/internal/web/handler"
	"github.com/folio-cms/folio/internal/web/session"
)

const (
	// Path is the path of the password login.
	Path = handler.RootPath + "auth/login"

	// SessionPath reports the user of the current session.
	SessionPath = handler.RootPath + "auth/session"

	// ProvidersPath lists the enabled login options.
	ProvidersPath = handler.RootPath + "auth/providers"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	auth     *auth.Service
	sessions *session.Store
}

// Result is the body of a successful login.
type Result struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user,omitempty"`
}

type failure struct {
	handler.Response
	TOTPRequired bool `json:"totpRequired,omitempty"`
}

// Init initializes the login handler.
func (s *Service) Init(routes *handler.Routes, deps *handler.Deps) error {
	if routes == nil || deps == nil || deps.Auth == nil || deps.Sessions == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.auth = deps.Auth
	s.sessions = deps.Sessions

	routes.API.Post(Path, s.Post)
	routes.API.Get(SessionPath, s.GetSession)
	routes.API.Get(ProvidersPath, s.GetProviders)

	return nil
}

// Post checks the credentials and starts a session.
func (s *Service) Post(c fiber.Ctx) error {
	var cred auth.Credentials
	if err := json.Unmarshal(c.Body(), &cred); err != nil {
		return collection.ErrInvalidBody
	}

	user, err := s.auth.Login(c.IP(), cred)
	if err != nil {
		return s.fail(c, cred.Username, err)
	}

	if err = s.sessions.Start(c, &session.Data{User: *user}); err != nil {
		return err
	}

	log.Info().Str("username", user.Username).Str("source", string(user.AuthSource)).Msg("user logged in")

	return c.JSON(Result{Success: true, User: user})
}

func (s *Service) fail(c fiber.Ctx, username string, err error) error {
	status, out := fiber.StatusUnauthorized, failure{}

	switch {
	case errors.Is(err, auth.ErrTooManyRequests):
		status, out.Message = fiber.StatusTooManyRequests, msgTooManyRequests
	case errors.Is(err, auth.ErrLockedOut):
		status, out.Message = fiber.StatusTooManyRequests, msgLockedOut
	case errors.Is(err, auth.ErrTOTPRequired):
		out.Message, out.TOTPRequired = msgTOTPRequired, true
	case auth.IsInvalidCredentials(err), errors.Is(err, auth.ErrNoProvider):
		out.Message = msgInvalidCredentials
	default:
		return err
	}

	log.Warn().Err(err).Str("username", username).Str("ip", c.IP()).Msg("login failed")

	return c.Status(status).JSON(out)
}

// GetSession returns the user of the current session.
func (s *Service) GetSession(c fiber.Ctx) error {
	data, err := s.sessions.FromRequest(c)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) && !errors.Is(err, session.ErrInvalidSession) {
			log.Error().Err(err).Msg("failed to read session")
		}

		return handler.Fail(c, fiber.StatusUnauthorized, msgUnauthorized)
	}

	return c.JSON(fiber.Map{"user": data.User})
}

// GetProviders lists the enabled login options.
func (s *Service) GetProviders(c fiber.Ctx) error {
	return c.JSON(s.auth.Providers())
}
