package app

import (
	"io"
	"net/http"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/metrics"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/middleware"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/reqid"
)

// HealthMessage is the body of GET /.
const HealthMessage = "Server up and running!"

// Build wires the router and returns its handler. It runs once; later calls
// return the same handler.
func (a *Application) Build() http.Handler {
	a.buildOnce.Do(func() {
		a.handler = a.buildHandler()
	})
	return a.handler
}

func (a *Application) buildHandler() http.Handler {
	r := a.router

	// Outer instrumentation only observes; it never changes what
	// the stack below sees.
	if a.cfg.MetricsEnabled {
		r.Use(metrics.Middleware())
	}
	r.Use(middleware.Recovery(a.log))
	r.Use(reqid.Middleware())

	r.Use(middleware.BodyParser(a.cfg.MaxBodyBytes))
	r.Use(middleware.CORS(a.cfg.CORS))
	r.Use(middleware.RequestLogger(a.log))

	// Guards answer inside CORS and the request log.
	if a.cfg.RateLimitPerMinute > 0 {
		r.Use(middleware.RateLimit(a.cfg.RateLimitPerMinute))
	}
	r.Use(middleware.RejectBadBody())

	for _, m := range a.pending {
		m.AttachTo(r)
		a.modules = append(a.modules, m)
	}
	a.pending = nil

	r.UseError(middleware.ErrorLogger(a.log))

	r.Get("/", "health", func(w http.ResponseWriter, _ *http.Request) error {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, err := io.WriteString(w, HealthMessage)
		return err
	})

	if a.cfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", "metrics", metrics.Handler())
	}

	return r.Handler()
}
