// Package middleware provides the HTTP middleware the server composes:
// JSON body parsing and rejection, CORS, request and error logging, panic
// recovery and per-client rate limiting.
package middleware
