package server

import (
	"net/http"
	"slices"
	"strings"
)

// BasicRouter dispatches on "METHOD /path" patterns registered with an [http.ServeMux].
//
// A request whose path matches a registered pattern but whose method does not is answered
// with 405 and an Allow header listing the registered methods. Path segments written as
// "{name}" match one segment and are read back with [http.Request.PathValue]; a trailing
// "{name...}" matches the rest of the path.
type BasicRouter struct {
	mux   *http.ServeMux
	chain []Middleware
}

// NewBasicRouter returns a router with no routes and no middleware.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Pattern joins method and path into a [http.ServeMux] pattern. An empty method matches any method.
func Pattern(method, path string) string {
	if method == "" {
		return path
	}
	return strings.ToUpper(method) + " " + path
}

// Use appends middleware. Earlier middleware runs first on each request.
// Only routes registered after Use are wrapped.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.chain = append(r.chain, middleware...)
}

// Handle serves handler for requests with the given method whose path matches path.
// Registering the same method and path twice panics, as with [http.ServeMux].
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Handle(Pattern(method, path), r.Apply(handler))
}

// Handler mounts handler under each pattern it reports from [Handler.Routes].
// Those patterns carry their own method prefix, if any.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)
	for _, pattern := range handler.Routes() {
		r.mux.Handle(pattern, wrapped)
	}
}

func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps handler in the current middleware chain.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	for _, mw := range slices.Backward(r.chain) {
		handler = mw(handler)
	}
	return handler
}
