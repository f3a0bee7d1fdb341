package response

import (
	"encoding/json"
	"errors"
	"net/http"
)

type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// JSON writes v as the raw response body with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	write(w, status, v)
}

// Created sends a 201 with v as the body.
func Created(w http.ResponseWriter, v interface{}) {
	write(w, http.StatusCreated, v)
}

// NoContent sends a 204 with no body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error sends a JSON error envelope.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Status: status, Message: message})
}

// ValidationError sends a 400 with a field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusBadRequest, envelope{
		Status:  http.StatusBadRequest,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}

// MethodNotAllowed sends a 405.
func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// ─── Errors carrying an HTTP status ─────────────────────────────────────────

// HTTPError is an error a handler returns to choose the response status.
type HTTPError struct {
	Status  int
	Message string
	Fields  map[string]string
	Err     error
}

// NewError builds an HTTPError with a client-facing message.
func NewError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

// Wrap builds an HTTPError around err, keeping err for errors.Is/As and logs.
func Wrap(status int, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Message: message, Err: err}
}

// Invalid builds a 400 carrying per-field validation messages.
func Invalid(fields map[string]string) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Message: "Validation failed", Fields: fields}
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error { return e.Err }

// StatusOf reports the HTTP status an error should produce: the status of
// the first *HTTPError in the chain, otherwise 500.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) && he.Status >= 400 {
		return he.Status
	}
	return http.StatusInternalServerError
}

// WriteError renders err. 5xx responses never expose the error text.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusOf(err)

	var he *HTTPError
	if status >= 500 || !errors.As(err, &he) {
		Error(w, status, http.StatusText(status))
		return
	}

	body := envelope{Status: status, Message: he.Message}
	if len(he.Fields) > 0 {
		body.Errors = he.Fields
	}
	write(w, status, body)
}
