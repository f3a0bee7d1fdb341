// Package app bootstraps the HTTP API.
//
//	a := app.New(app.ConfigFromEnv(), app.WithLogger(log))
//	a.Register(routes.NewUsersRoutes(users))
//	err := a.ListenAndServe(ctx)
//
// Build assembles the router in a fixed order: JSON body parsing, CORS,
// request logging, every registered route module, error logging and finally
// the GET / health check.
package app

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/config"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/middleware"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/router"
)

// RouteModule attaches a group of routes to the router. Name identifies the
// module in startup logs and route listings.
type RouteModule interface {
	Name() string
	AttachTo(r *router.Router)
}

// Config holds the settings Build and ListenAndServe need.
type Config struct {
	Port               string
	MaxBodyBytes       int64
	CORS               middleware.CORSOptions
	MetricsEnabled     bool
	RateLimitPerMinute int
	ShutdownTimeout    time.Duration
}

// ConfigFromEnv reads Config from the loaded configuration.
func ConfigFromEnv() Config {
	cors := middleware.DefaultCORSOptions()
	cors.AllowedOrigins = config.CORSAllowedOrigins()

	return Config{
		Port:               config.AppPort(),
		MaxBodyBytes:       config.MaxBodyBytes(),
		CORS:               cors,
		MetricsEnabled:     config.MetricsEnabled(),
		RateLimitPerMinute: config.RateLimitPerMinute(),
		ShutdownTimeout:    config.ShutdownTimeout(),
	}
}

// Option customises an Application.
type Option func(*Application)

// WithLogger sets the logger used for request, error and startup logs.
func WithLogger(log *slog.Logger) Option {
	return func(a *Application) { a.log = log }
}

// Application is the bootstrap: it owns the router, the ordered route
// module registry and the listener lifecycle.
type Application struct {
	cfg     Config
	log     *slog.Logger
	router  *router.Router
	pending []RouteModule
	modules []RouteModule

	buildOnce sync.Once
	handler   http.Handler
}

func New(cfg Config, opts ...Option) *Application {
	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 100 << 10
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	a := &Application{cfg: cfg, log: slog.Default(), router: router.New()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register queues route modules. They are attached in call order when the
// handler is built; registering after Build has no effect.
func (a *Application) Register(modules ...RouteModule) *Application {
	a.pending = append(a.pending, modules...)
	return a
}

// Modules returns the attached route modules in registration order. It is
// empty until Build runs.
func (a *Application) Modules() []RouteModule {
	return append([]RouteModule(nil), a.modules...)
}

// Router exposes the underlying router, e.g. for route listings.
func (a *Application) Router() *router.Router { return a.router }

func (a *Application) Config() Config { return a.cfg }
