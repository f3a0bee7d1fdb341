package app

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/internal/server"
)

// ListenAndServe binds :<port> and serves until ctx is cancelled. A bind
// failure is returned immediately; there is no retry.
func (a *Application) ListenAndServe(ctx context.Context) error {
	ln, err := server.Listen(":" + a.cfg.Port)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	return a.Serve(ctx, ln)
}

// Serve builds the handler if needed, reports the listening address and the
// attached route modules, then serves on ln until ctx is cancelled.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	handler := a.Build()

	a.log.Info(fmt.Sprintf("Server running at http://localhost:%s", listenPort(ln, a.cfg.Port)))
	for _, m := range a.modules {
		a.log.Info(fmt.Sprintf("Routes configured for %s", m.Name()))
	}

	return server.New(handler, a.cfg.ShutdownTimeout, a.log).Serve(ctx, ln)
}

func listenPort(ln net.Listener, fallback string) string {
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		return strconv.Itoa(addr.Port)
	}
	return fallback
}
