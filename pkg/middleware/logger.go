package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/logger"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/reqid"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/response"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/router"
)

// responseWriter wraps http.ResponseWriter to capture status and size.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	size        int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func (rw *responseWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

// RequestLogger writes one line per request/response cycle with method,
// path, status, duration, size, client IP and request_id. Handlers mounted
// after it can log through logger.WithCtx(r.Context()) and inherit the
// request_id.
//
// Wire reqid.Middleware() before it so the ID exists.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			base := log
			if base == nil {
				base = logger.L
			}

			start := time.Now()
			reqLog := base.With("request_id", reqid.FromCtx(r.Context()))
			r = r.WithContext(logger.InjectLogger(r.Context(), reqLog))

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			reqLog.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"duration", time.Since(start).String(),
				"bytes", rw.size,
				"ip", clientIP(r),
				"user_agent", r.UserAgent(),
			)
		})
	}
}

// ErrorLogger logs every error that escapes a route handler, then hands the
// error on unchanged. It never writes a response itself. Client errors
// (status below 500) are logged at Warn.
func ErrorLogger(log *slog.Logger) router.ErrorMiddleware {
	return func(next router.ErrorHandler) router.ErrorHandler {
		return func(w http.ResponseWriter, r *http.Request, err error) {
			reqLog := logger.WithCtx(r.Context())
			if log != nil {
				reqLog = log.With("request_id", reqid.FromCtx(r.Context()))
			}

			status := response.StatusOf(err)
			if written, ok := router.WrittenStatus(w); ok {
				status = written
			}

			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"error", err.Error(),
			}
			var pe *router.PanicError
			if errors.As(err, &pe) {
				args = append(args, "stack", string(pe.Stack))
			}
			level := slog.LevelError
			if status < http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			reqLog.Log(r.Context(), level, "request error", args...)

			next(w, r, err)
		}
	}
}
