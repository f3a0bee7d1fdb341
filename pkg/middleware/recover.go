package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/logger"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/response"
)

// Recovery catches panics raised by middleware outside any route handler
// (route handler panics are already turned into errors by the router), logs
// the stack and answers 500 if nothing was written yet.
func Recovery(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				l := log
				if l == nil {
					l = logger.L
				}
				l.Error("panic recovered",
					"error", fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				if !rw.wroteHeader {
					response.Error(rw, http.StatusInternalServerError, "Internal Server Error")
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}
