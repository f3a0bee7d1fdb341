// Package logger provides the structured, levelled logger used across the
// server. It is a thin layer over log/slog: JSON lines on stdout by default,
// optionally fanned out to MongoDB.
//
// Request-scoped loggers carry the request_id and travel in the context:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("user created", "user_id", id)
//	// → {"time":...,"level":"INFO","msg":"user created","request_id":"a1b2...","user_id":"..."}
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/config"
)

// L is the process-wide base logger. Setup replaces it.
var L = New(os.Stdout, Options{})

// Options selects the output encoding and minimum level.
type Options struct {
	Level  slog.Level
	Format string // "json" (default) or "text"
}

// New builds a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	return slog.New(newHandler(w, opts))
}

func newHandler(w io.Writer, opts Options) slog.Handler {
	hopts := &slog.HandlerOptions{Level: opts.Level}
	if opts.Format == "text" {
		return slog.NewTextHandler(w, hopts)
	}
	return slog.NewJSONHandler(w, hopts)
}

// ParseLevel maps debug|info|warn|error to a slog.Level; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup configures L from config (LOG_LEVEL, LOG_FORMAT, LOG_MONGO_*), makes
// it the slog default and returns a function that flushes any remote sink.
func Setup(ctx context.Context) (func(), error) {
	opts := Options{Level: ParseLevel(config.LogLevel()), Format: config.LogFormat()}
	handler := newHandler(os.Stdout, opts)
	closer := func() {}

	if uri := config.LogMongoURI(); uri != "" {
		mh, err := NewMongoHandler(ctx, MongoOptions{
			URI:        uri,
			Database:   config.LogMongoDB(),
			Collection: config.LogMongoCollection(),
			Level:      opts.Level,
		})
		if err != nil {
			return closer, fmt.Errorf("logger: %w", err)
		}
		handler = NewMultiHandler(handler, mh)
		closer = mh.Close
	}

	L = slog.New(handler)
	slog.SetDefault(L)
	return closer, nil
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx. Called by the request logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
