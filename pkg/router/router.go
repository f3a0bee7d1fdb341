// Package router is the application handle every middleware and route module
// attaches to. It wraps chi and keeps registration order meaningful:
//
//   - Use before the first route installs global middleware, which also wraps
//     404 and 405 responses. Use after routes only wraps routes mounted later.
//   - UseError installs an error middleware that sees errors from the routes
//     mounted before it, never from routes mounted after it.
//
// Route handlers return an error instead of writing a failure response. A
// returned error, or a panic, is passed through the applicable error
// middlewares and finally to DefaultErrorHandler.
package router

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/response"
)

type Middleware func(http.Handler) http.Handler

// HandlerFunc is a route handler that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ErrorHandler receives an error that escaped a route handler.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// ErrorMiddleware wraps an ErrorHandler. Implementations that only observe
// must call next with the same error.
type ErrorMiddleware func(next ErrorHandler) ErrorHandler

// RouteInfo describes one mounted route.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// PanicError is the error a recovered handler panic is converted into.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

type errorLayer struct {
	after int // number of routes mounted when the layer was added
	mw    ErrorMiddleware
}

type Router struct {
	mux chi.Router

	mu        sync.RWMutex
	late      []Middleware
	errLayers []errorLayer
	routes    []RouteInfo
	names     map[string]string
}

type Group struct {
	router      *Router
	prefix      string
	middlewares []Middleware
}

// New returns an empty Router with no middleware attached.
func New() *Router {
	return &Router{
		mux:   chi.NewRouter(),
		names: make(map[string]string),
	}
}

// Handler returns the composed http.Handler.
func (r *Router) Handler() http.Handler {
	r.mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w)
	})
	r.mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w)
	})
	return r.mux
}

// Use appends middleware in processing order.
func (r *Router) Use(middlewares ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.routes) > 0 {
		r.late = append(r.late, middlewares...)
		return
	}
	for _, mw := range middlewares {
		r.mux.Use(mw)
	}
}

// UseError appends error middleware. It observes errors from every route
// mounted so far.
func (r *Router) UseError(middlewares ...ErrorMiddleware) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mw := range middlewares {
		r.errLayers = append(r.errLayers, errorLayer{after: len(r.routes), mw: mw})
	}
}

func (r *Router) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      r,
		prefix:      normalizePath(prefix),
		middlewares: append([]Middleware(nil), middlewares...),
	}
}

func (r *Router) Get(path, name string, handler HandlerFunc, middlewares ...Middleware) {
	r.mountFunc(http.MethodGet, path, name, handler, middlewares)
}

func (r *Router) Post(path, name string, handler HandlerFunc, middlewares ...Middleware) {
	r.mountFunc(http.MethodPost, path, name, handler, middlewares)
}

func (r *Router) Put(path, name string, handler HandlerFunc, middlewares ...Middleware) {
	r.mountFunc(http.MethodPut, path, name, handler, middlewares)
}

func (r *Router) Patch(path, name string, handler HandlerFunc, middlewares ...Middleware) {
	r.mountFunc(http.MethodPatch, path, name, handler, middlewares)
}

func (r *Router) Delete(path, name string, handler HandlerFunc, middlewares ...Middleware) {
	r.mountFunc(http.MethodDelete, path, name, handler, middlewares)
}

// Method mounts a plain http.Handler. Such routes have no error path.
func (r *Router) Method(method, path, name string, handler http.Handler, middlewares ...Middleware) {
	r.mount(method, normalizePath(path), name, func(int) http.Handler { return handler }, middlewares)
}

// Routes returns every mounted route in registration order.
func (r *Router) Routes() []RouteInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]RouteInfo(nil), r.routes...)
}

func (r *Router) Path(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path, ok := r.names[name]
	return path, ok
}

func (r *Router) URL(name string, params map[string]string) (string, error) {
	path, ok := r.Path(name)
	if !ok {
		return "", fmt.Errorf("route %q not found", name)
	}

	for key, value := range params {
		path = strings.ReplaceAll(path, "{"+key+"}", value)
	}

	if strings.Contains(path, "{") {
		return "", fmt.Errorf("missing parameters for route %q", name)
	}

	return path, nil
}

func (r *Router) mountFunc(method, path, name string, handler HandlerFunc, middlewares []Middleware) {
	r.mount(method, normalizePath(path), name, func(idx int) http.Handler {
		return r.adapt(idx, handler)
	}, middlewares)
}

func (r *Router) mount(method, fullPath, name string, build func(idx int) http.Handler, middlewares []Middleware) {
	r.mu.Lock()
	idx := len(r.routes)
	combined := append(append([]Middleware(nil), r.late...), middlewares...)
	r.routes = append(r.routes, RouteInfo{Method: method, Path: fullPath, Name: name})
	if name != "" {
		r.names[name] = fullPath
	}
	r.mu.Unlock()

	r.mux.Method(method, fullPath, chain(build(idx), combined...))
}

// adapt turns a HandlerFunc into an http.Handler whose errors and panics are
// routed through the error layers registered after route idx.
func (r *Router) adapt(idx int, h HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tw := &trackingWriter{ResponseWriter: w}
		if err := invoke(h, tw, req); err != nil {
			r.errorChain(idx)(tw, req, err)
		}
	})
}

func invoke(h HandlerFunc, w http.ResponseWriter, req *http.Request) (err error) {
	defer func() {
		if v := recover(); v != nil {
			if v == http.ErrAbortHandler {
				panic(v)
			}
			err = &PanicError{Value: v, Stack: debug.Stack()}
		}
	}()
	return h(w, req)
}

func (r *Router) errorChain(idx int) ErrorHandler {
	r.mu.RLock()
	var layers []ErrorMiddleware
	for _, l := range r.errLayers {
		if l.after > idx {
			layers = append(layers, l.mw)
		}
	}
	r.mu.RUnlock()

	h := ErrorHandler(DefaultErrorHandler)
	for i := len(layers) - 1; i >= 0; i-- {
		h = layers[i](h)
	}
	return h
}

// DefaultErrorHandler writes the error response unless the handler already
// started one.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	if _, written := WrittenStatus(w); written {
		return
	}
	response.WriteError(w, err)
}

func (g *Group) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      g.router,
		prefix:      joinPath(g.prefix, prefix),
		middlewares: append(append([]Middleware(nil), g.middlewares...), middlewares...),
	}
}

func (g *Group) Get(path, name string, handler HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodGet, path, name, handler, middlewares)
}

func (g *Group) Post(path, name string, handler HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodPost, path, name, handler, middlewares)
}

func (g *Group) Put(path, name string, handler HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodPut, path, name, handler, middlewares)
}

func (g *Group) Patch(path, name string, handler HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodPatch, path, name, handler, middlewares)
}

func (g *Group) Delete(path, name string, handler HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodDelete, path, name, handler, middlewares)
}

func (g *Group) mount(method, path, name string, handler HandlerFunc, middlewares []Middleware) {
	combined := append(append([]Middleware(nil), g.middlewares...), middlewares...)
	g.router.mountFunc(method, joinPath(g.prefix, path), name, handler, combined)
}

func chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	wrapped := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

func joinPath(parts ...string) string {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.Trim(part, "/"); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}

	if len(segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(segments, "/")
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	return joinPath(path)
}
