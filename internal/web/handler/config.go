package handler

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"

	"github.com/folio-cms/folio/internal/imagehost"
)

// bodyLimit leaves room for the multipart envelope around the largest upload.
const bodyLimit = imagehost.MaxUploadSize + 2<<20

// AppConfig is the fiber configuration every app serving the handlers runs with.
// Immutable makes values read from the context safe to keep after the handler returned.
func AppConfig(appName string) fiber.Config {
	return fiber.Config{
		AppName:       appName,
		CaseSensitive: true,
		Immutable:     true,
		BodyLimit:     bodyLimit,
		ErrorHandler:  ErrorHandler,
		JSONEncoder:   json.Marshal,
		JSONDecoder:   json.Unmarshal,
	}
}
