package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfigKeepsContextValues(t *testing.T) {
	cfg := AppConfig("test")
	assert.True(t, cfg.Immutable)
	assert.Greater(t, cfg.BodyLimit, 10<<20)

	app := fiber.New(cfg)

	var kept []string

	app.Get("/", func(c fiber.Ctx) error {
		kept = append(kept, c.Query("id"))
		return c.SendStatus(fiber.StatusNoContent)
	})

	for _, id := range []string{"portfolio/a.png", "other/zzzzzzzzz.png"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/?id="+id, nil), fiber.TestConfig{Timeout: 5 * time.Second})
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	assert.Equal(t, []string{"portfolio/a.png", "other/zzzzzzzzz.png"}, kept)
}

func TestAppConfigErrorHandler(t *testing.T) {
	app := fiber.New(AppConfig("test"))
	app.Get("/", func(fiber.Ctx) error {
		return ErrMissingID
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), fiber.TestConfig{Timeout: 5 * time.Second})
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
