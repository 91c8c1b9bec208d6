package login

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/web/handler/handlertest"
)

func newEnv(t *testing.T) *handlertest.Env {
	t.Helper()

	env := handlertest.New(t)
	env.Init(t, &Service{})

	_, _, err := env.Deps.Auth.Local().CreateUser(auth.NewUser{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	return env
}

func TestLogin(t *testing.T) {
	env := newEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := env.App.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "session cookie set")

	status, body := env.Do(t, http.MethodGet, "/api/auth/session", nil, cookie)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"username":"alice"`)
	assert.NotContains(t, string(body), "password")

	status, body = env.Do(t, http.MethodGet, "/api/auth/session", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"success":false,"message":"Unauthorized"}`, string(body))
}

func TestLoginFailures(t *testing.T) {
	env := newEnv(t)

	status, body := env.Do(t, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"success":false,"message":"Invalid username or password"}`, string(body))

	status, _ = env.Do(t, http.MethodPost, "/api/auth/login", `{"username":"bob","password":"x"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.Do(t, http.MethodPost, "/api/auth/login", `{}`, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.Do(t, http.MethodPost, "/api/auth/login", `garbage`, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLoginTOTP(t *testing.T) {
	env := newEnv(t)

	_, _, err := env.Deps.Auth.Local().CreateUser(auth.NewUser{Username: "carol", Password: "pw", TOTP: true})
	require.NoError(t, err)

	status, body := env.Do(t, http.MethodPost, "/api/auth/login", `{"username":"carol","password":"pw"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"success":false,"message":"TOTP code required","totpRequired":true}`, string(body))
}

func TestLoginLockout(t *testing.T) {
	env := handlertest.New(t)
	env.Deps.Cfg.Protection.MaxFailedAttempts = 2

	authService, err := auth.NewService(t.Context(), env.Deps.Cfg, env.Deps.DB)
	require.NoError(t, err)

	env.Deps.Auth = authService
	env.Init(t, &Service{})

	for range 2 {
		status, _ := env.Do(t, http.MethodPost, "/api/auth/login", `{"username":"dave","password":"x"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	}

	status, body := env.Do(t, http.MethodPost, "/api/auth/login", `{"username":"dave","password":"x"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Contains(t, string(body), "locked")
}

func TestProviders(t *testing.T) {
	env := newEnv(t)

	status, body := env.Do(t, http.MethodGet, "/api/auth/providers", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"local":true,"ldap":false,"oidc":false}`, string(body))
}
