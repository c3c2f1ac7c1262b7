package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/km-arc/go-registry/framework/container"
)

// RequestIDTag is the tag under which request-scoped registries hold the
// request ID string.
const RequestIDTag = "request-id"

// Request wraps *http.Request with query and registry helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// ── Input helpers ────────────────────────────────────────────────────────────

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// QueryInt returns a query-string value parsed as an int, or fallback when
// the value is missing or malformed.
func (req *Request) QueryInt(key string, fallback int) int {
	v := req.raw.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// RouteParam returns a URL route parameter (chi).
func (req *Request) RouteParam(key string) string {
	return chi.URLParam(req.raw, key)
}

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}

// IsJSON returns true when the request expects a JSON response.
func (req *Request) IsJSON() bool {
	return strings.Contains(req.raw.Header.Get("Accept"), "application/json") ||
		strings.Contains(req.raw.Header.Get("Content-Type"), "application/json")
}

// ── Registry ─────────────────────────────────────────────────────────────────

// Registry returns the request-scoped registry installed by the router's
// Scoped middleware.
func (req *Request) Registry() (*container.Registry, bool) {
	return container.FromContext(req.raw.Context())
}

// RequestID returns the ID registered in the request scope, or "" outside one.
func (req *Request) RequestID() string {
	r, ok := req.Registry()
	if !ok {
		return ""
	}
	id, err := container.Resolve[string](r, container.WithTag(RequestIDTag))
	if err != nil {
		return ""
	}
	return id
}
