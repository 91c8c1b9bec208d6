package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/db/controller/blog"
	"github.com/folio-cms/folio/internal/db/controller/collection"
	"github.com/folio-cms/folio/internal/db/controller/message"
	"github.com/folio-cms/folio/internal/imagehost"
	"github.com/folio-cms/folio/internal/validation"
)

var (
	// ErrMissingID is returned when a request names no row.
	ErrMissingID = errors.New("id is required")

	// ErrImageHost wraps failures of the image host itself.
	ErrImageHost = errors.New("image host failed")
)

// Response is the envelope of acknowledgements and failures.
type Response struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message,omitempty"`
	Errors  []validation.ErrorResponse `json:"errors,omitempty"`
}

// OK answers {"success":true}.
func OK(c fiber.Ctx) error {
	return c.JSON(Response{Success: true})
}

// Fail answers status with a message.
func Fail(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Success: false, Message: message})
}

// ErrorHandler maps errors returned by handlers to status codes.
// Anything unknown is logged and answered with a generic 500.
func ErrorHandler(c fiber.Ctx, err error) error {
	if fields, ok := validation.Fields(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(Response{
			Message: "Validation failed",
			Errors:  fields,
		})
	}

	var fe *fiber.Error

	switch {
	case errors.As(err, &fe):
		return Fail(c, fe.Code, fe.Message)
	case errors.Is(err, collection.ErrInvalidBody):
		return Fail(c, fiber.StatusBadRequest, "Invalid request body")
	case errors.Is(err, ErrMissingID):
		return Fail(c, fiber.StatusBadRequest, "ID is required")
	case errors.Is(err, imagehost.ErrUnsupportedType),
		errors.Is(err, imagehost.ErrTooLarge),
		errors.Is(err, imagehost.ErrEmpty),
		errors.Is(err, imagehost.ErrInvalidPublicID):
		return Fail(c, fiber.StatusBadRequest, rootMessage(err))
	case errors.Is(err, collection.ErrNotFound),
		errors.Is(err, message.ErrNotFound),
		errors.Is(err, blog.ErrNotFound):
		return Fail(c, fiber.StatusNotFound, "Not found")
	case errors.Is(err, collection.ErrImageCleanup):
		log.Error().Err(err).Str("path", c.Path()).Msg("image cleanup failed, row kept")

		return Fail(c, fiber.StatusBadGateway, "Failed to delete image")
	case errors.Is(err, ErrImageHost):
		log.Error().Err(err).Str("path", c.Path()).Msg("image host request failed")

		return Fail(c, fiber.StatusBadGateway, "Image host request failed")
	}

	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")

	return Fail(c, fiber.StatusInternalServerError, "Internal server error")
}

// rootMessage returns the message of the innermost wrapped error.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}

		err = next
	}
}
