// Package web assembles the http server of the admin api and the public site api.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	accesslog "github.com/folio-cms/folio/internal/logger/adapter/fiber"
	"github.com/folio-cms/folio/internal/web/handler"
	oidchandler "github.com/folio-cms/folio/internal/web/handler/auth/oidc"
	"github.com/folio-cms/folio/internal/web/handler/contact"
	contenthandler "github.com/folio-cms/folio/internal/web/handler/content"
	"github.com/folio-cms/folio/internal/web/handler/dashboard"
	"github.com/folio-cms/folio/internal/web/handler/login"
	"github.com/folio-cms/folio/internal/web/handler/logout"
	"github.com/folio-cms/folio/internal/web/handler/settings"
	"github.com/folio-cms/folio/internal/web/handler/upload"
	authmw "github.com/folio-cms/folio/internal/web/middleware/auth"
)

// MetricsPath serves the prometheus metrics.
const MetricsPath = "/metrics"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	deps         *handler.Deps
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address and blocks until it stops.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		err := s.App.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	log.Info().Str("addr", addr).Msg("http server started")

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown blocks until SIGINT or SIGTERM and stops the server gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown lets checkalive fail for the configured time so load balancers drain, then stops the server.
func (s *Service) Shutdown() {
	s.alive.Store(false)

	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.deps.Cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(s.deps.Cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether checkalive answers 200.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// New creates the web service and registers every handler.
func New(deps *handler.Deps) (*Service, error) {
	if deps == nil || deps.Cfg == nil || deps.DB == nil || deps.Sessions == nil {
		return nil, errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	cfg := deps.Cfg

	app := fiber.New(handler.AppConfig(cfg.Title))

	service := &Service{
		App:          app,
		deps:         deps,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recoverer.New(recoverer.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: cfg.Webserver.CheckAliveURI,
	}))

	if cfg.Webserver.CheckAliveURI != "" {
		app.Get(cfg.Webserver.CheckAliveURI, service.checkAlive)
	}

	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// uploads are served locally unless the base url points to another host
	if strings.HasPrefix(cfg.Images.BaseURL, "/") && cfg.Images.Root != "" {
		app.Use(cfg.Images.BaseURL, uploadHeaders)
		app.Use(cfg.Images.BaseURL, static.New(cfg.Images.Root, static.Config{Browse: false}))
	}

	routes := &handler.Routes{
		API:   app.Group(handler.APIPath),
		Admin: app.Group(handler.AdminPath, authmw.RequireSession(deps.Sessions)),
	}

	services := []handler.Service{
		&login.Service{},
		&logout.Service{},
		&oidchandler.Service{},
		&contenthandler.Service{},
		&settings.Service{},
		&contact.Service{},
		&upload.Service{},
		&dashboard.Service{},
	}

	for _, h := range services {
		if err := h.Init(routes, deps); err != nil {
			return nil, err
		}
	}

	return service, nil
}

// uploadCSP keeps uploaded svg files from running scripts on the site origin.
const uploadCSP = "default-src 'none'; img-src 'self' data:; style-src 'unsafe-inline'; sandbox"

// uploadHeaders runs around the static handler of the upload directory.
func uploadHeaders(c fiber.Ctx) error {
	err := c.Next()

	c.Set(fiber.HeaderContentSecurityPolicy, uploadCSP)
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")

	return err
}

func (s *Service) checkAlive(c fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}
