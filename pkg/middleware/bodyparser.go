package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/logger"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/response"
)

type bodyKey struct{}

// JSONBody returns the raw JSON body accepted by BodyParser, or nil when the
// request carried no JSON.
func JSONBody(r *http.Request) json.RawMessage {
	body, _ := r.Context().Value(bodyKey{}).(json.RawMessage)
	return body
}

// BodyError is a request body BodyParser refused.
type BodyError struct {
	Status  int
	Message string
	Err     error
}

func (e *BodyError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *BodyError) Unwrap() error { return e.Err }

type bodyErrKey struct{}

// BodyErrorOf returns the failure BodyParser recorded for r, or nil.
func BodyErrorOf(r *http.Request) *BodyError {
	be, _ := r.Context().Value(bodyErrKey{}).(*BodyError)
	return be
}

// BodyParser reads JSON request bodies up front. Bodies that are not a JSON
// object or array, or that exceed limit, are recorded as a BodyError and the
// request continues with an empty body; RejectBadBody answers them further
// in. Accepted bodies are replayed on r.Body and exposed through JSONBody.
//
// Requests without a JSON content type pass through untouched.
func BodyParser(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody || !isJSON(r.Header.Get("Content-Type")) {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
			if err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					next.ServeHTTP(w, withBodyError(r, http.StatusRequestEntityTooLarge, "Request body too large", err))
					return
				}
				next.ServeHTTP(w, withBodyError(r, http.StatusBadRequest, "Could not read request body", err))
				return
			}

			trimmed := bytes.TrimSpace(body)
			if len(trimmed) > 0 {
				// Strict mode: only objects and arrays.
				if (trimmed[0] != '{' && trimmed[0] != '[') || !json.Valid(trimmed) {
					next.ServeHTTP(w, withBodyError(r, http.StatusBadRequest, "Malformed JSON body", nil))
					return
				}
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			r.ContentLength = int64(len(body))
			if len(trimmed) > 0 {
				r = r.WithContext(context.WithValue(r.Context(), bodyKey{}, json.RawMessage(trimmed)))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RejectBadBody answers requests carrying a BodyError so they never reach a
// route handler. Mount it after CORS and RequestLogger so the rejection gets
// CORS headers and is logged with the request.
func RejectBadBody() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			be := BodyErrorOf(r)
			if be == nil {
				next.ServeHTTP(w, r)
				return
			}

			args := []any{
				"status", be.Status,
				"method", r.Method,
				"path", r.URL.Path,
			}
			if be.Err != nil {
				args = append(args, "error", be.Err.Error())
			}
			logger.WithCtx(r.Context()).Warn("request body rejected", args...)
			response.Error(w, be.Status, be.Message)
		})
	}
}

func withBodyError(r *http.Request, status int, msg string, err error) *http.Request {
	r = r.WithContext(context.WithValue(r.Context(), bodyErrKey{}, &BodyError{Status: status, Message: msg, Err: err}))
	r.Body = http.NoBody
	r.ContentLength = 0
	return r
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
