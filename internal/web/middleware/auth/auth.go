package auth

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/web/handler"
	"github.com/folio-cms/folio/internal/web/session"
)

// RequireSession answers 401 unless the request carries a valid session.
// The user of the session is put into the fiber locals for the next handlers.
func RequireSession(store *session.Store) fiber.Handler {
	if store == nil {
		panic("session store is nil")
	}

	return func(c fiber.Ctx) error {
		data, err := store.FromRequest(c)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) && !errors.Is(err, session.ErrInvalidSession) {
				log.Error().Err(err).Msg("failed to read session")
			}

			return handler.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		c.Locals(handler.LocalUser, data.User)
		c.Locals(handler.LocalUsername, data.User.Username)
		c.Locals(handler.LocalSession, data)

		return c.Next()
	}
}

// Session returns the session data RequireSession stored, nil outside protected routes.
func Session(c fiber.Ctx) *session.Data {
	data, _ := c.Locals(handler.LocalSession).(*session.Data)

	return data
}
