// Package handlertest wires a fiber app with in-memory collaborators for handler tests.
package handlertest

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"

	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/content"
	"github.com/folio-cms/folio/internal/db/models"
	"github.com/folio-cms/folio/internal/imagehost"
	"github.com/folio-cms/folio/internal/testutil"
	"github.com/folio-cms/folio/internal/web/handler"
	authmw "github.com/folio-cms/folio/internal/web/middleware/auth"
	"github.com/folio-cms/folio/internal/web/session"
)

// Host is an image host keeping uploads in memory.
type Host struct {
	mu       sync.Mutex
	Uploaded []imagehost.Upload
	Deleted  []string
	// DeleteErr and UploadErr are returned by the respective calls when set.
	DeleteErr error
	UploadErr error
}

// Upload implements imagehost.Host.
func (h *Host) Upload(_ context.Context, u imagehost.Upload) (*imagehost.Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.UploadErr != nil {
		return nil, h.UploadErr
	}

	h.Uploaded = append(h.Uploaded, u)
	id := u.Folder + "/" + u.Filename

	return &imagehost.Result{URL: "/uploads/" + id, PublicID: id}, nil
}

// Delete implements imagehost.Host.
func (h *Host) Delete(_ context.Context, publicID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.Deleted = append(h.Deleted, publicID)

	return h.DeleteErr
}

// PublicIDFromURL implements imagehost.Host.
func (h *Host) PublicIDFromURL(rawURL string) (string, bool) {
	return strings.CutPrefix(rawURL, "/uploads/")
}

// Env is a wired app.
type Env struct {
	App    *fiber.App
	Deps   *handler.Deps
	Routes *handler.Routes
	Host   *Host
}

// Config returns the config the env runs with.
func Config() *config.Config {
	return &config.Config{
		Title: "Test",
		Webserver: config.Webserver{
			Port:     8080,
			URL:      "http://localhost:8080",
			AdminURL: "http://localhost:3000/admin",
			Session:  config.Session{ExpiryTime: time.Hour, CookieName: "session"},
		},
		Auth:   config.Auth{LocalDB: config.LocalDBAuth{Enabled: true}},
		Images: config.Images{DefaultFolder: "portfolio"},
	}
}

// New returns an env on a fresh in-memory database.
func New(t *testing.T) *Env {
	t.Helper()

	cfg := Config()
	db := testutil.NewDB(t)
	host := &Host{}

	authService, err := auth.NewService(t.Context(), cfg, db)
	require.NoError(t, err)

	app := fiber.New(handler.AppConfig(cfg.Title))

	deps := &handler.Deps{
		Cfg:      cfg,
		DB:       db,
		Sessions: session.New(session.NewGormStorage(db), cfg.Webserver.Session, false),
		Auth:     authService,
		Images:   host,
		Content:  content.New(db, imagehost.Remover{Host: host}),
	}

	return &Env{
		App:  app,
		Deps: deps,
		Host: host,
		Routes: &handler.Routes{
			API:   app.Group(handler.APIPath),
			Admin: app.Group(handler.AdminPath, authmw.RequireSession(deps.Sessions)),
		},
	}
}

// Init registers s on the env.
func (e *Env) Init(t *testing.T, s handler.Service) {
	t.Helper()
	require.NoError(t, s.Init(e.Routes, e.Deps))
}

// Login creates a user with a stored session and returns its cookie.
func (e *Env) Login(t *testing.T) *http.Cookie {
	t.Helper()

	user := models.User{Active: true, Username: "admin", AuthSource: models.AuthSourceLocal}
	require.NoError(t, e.Deps.DB.Create(&user).Error)

	id, err := session.GenerateSessionID()
	require.NoError(t, err)
	require.NoError(t, e.Deps.Sessions.Write(id, &session.Data{User: user}))

	return &http.Cookie{Name: "session", Value: id}
}

// Do sends a request. body is sent as is when it is a []byte or string, otherwise json encoded.
func (e *Env) Do(t *testing.T, method, path string, body any, cookie *http.Cookie) (int, []byte) {
	t.Helper()

	var reader io.Reader

	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	if cookie != nil {
		req.AddCookie(cookie)
	}

	return e.Send(t, req)
}

// Send sends req and returns status and body.
func (e *Env) Send(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()

	resp, err := e.App.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(t, err)

	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, out
}
