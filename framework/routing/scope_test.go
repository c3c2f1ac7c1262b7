package routing_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-registry/framework/container"
	"github.com/km-arc/go-registry/framework/ctxlog"
	gohttp "github.com/km-arc/go-registry/framework/http"
	"github.com/km-arc/go-registry/framework/routing"
)

type shared struct{ n int }

type perRequest struct{ path string }

// scopedRouter mounts Scoped(root, setup...) and a handler that records the
// scope it saw.
func scopedRouter(t *testing.T, root *container.Registry, seen *[]*container.Registry, setup ...routing.ScopeSetup) *routing.Router {
	t.Helper()
	r := routing.New()
	r.Middleware(routing.Scoped(root, setup...))
	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		scope, ok := container.FromContext(req.Context())
		require.True(t, ok, "handler must see a request scope")
		*seen = append(*seen, scope)
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestScoped_ChildPerRequest(t *testing.T) {
	root := container.New(nil)
	var seen []*container.Registry
	r := scopedRouter(t, root, &seen)

	rr1 := do(t, r, http.MethodGet, "/a")
	rr2 := do(t, r, http.MethodGet, "/b")
	require.Len(t, seen, 2)

	assert.NotSame(t, seen[0], seen[1])
	for _, scope := range seen {
		assert.Same(t, root, scope.Parent())
		assert.Equal(t, 1, scope.Depth())
	}
	assert.Empty(t, root.Keys(), "request registrations must not leak into the root")

	id1 := rr1.Header().Get(routing.RequestIDHeader)
	id2 := rr2.Header().Get(routing.RequestIDHeader)
	assert.NotEqual(t, id1, id2)
	_, err := uuid.Parse(id1)
	assert.NoError(t, err)
}

func TestScoped_RegistersRequestAndID(t *testing.T) {
	root := container.New(nil)
	var seen []*container.Registry
	r := scopedRouter(t, root, &seen)

	rr := do(t, r, http.MethodGet, "/widgets")
	require.Len(t, seen, 1)

	req, err := container.Resolve[*http.Request](seen[0])
	require.NoError(t, err)
	assert.Equal(t, "/widgets", req.URL.Path)

	id, err := container.Resolve[string](seen[0], container.WithTag(gohttp.RequestIDTag))
	require.NoError(t, err)
	assert.Equal(t, rr.Header().Get(routing.RequestIDHeader), id)
}

func TestScoped_SharesRootSingletons(t *testing.T) {
	root := container.New(nil)
	calls := 0
	require.NoError(t, container.RegisterSingleton(root, func(*container.Registry) (*shared, error) {
		calls++
		return &shared{n: calls}, nil
	}))

	var seen []*container.Registry
	r := scopedRouter(t, root, &seen, func(scope *container.Registry, req *http.Request) error {
		return container.RegisterSingleton(scope, func(*container.Registry) (*perRequest, error) {
			return &perRequest{path: req.URL.Path}, nil
		})
	})

	do(t, r, http.MethodGet, "/one")
	do(t, r, http.MethodGet, "/two")
	require.Len(t, seen, 2)

	s1 := container.MustResolve[*shared](seen[0])
	s2 := container.MustResolve[*shared](seen[1])
	assert.Same(t, s1, s2)
	assert.Equal(t, 1, calls)

	assert.Equal(t, "/one", container.MustResolve[*perRequest](seen[0]).path)
	assert.Equal(t, "/two", container.MustResolve[*perRequest](seen[1]).path)
	assert.False(t, root.Bound(container.KeyOf[*perRequest]("")))
}

func TestScoped_SetupFailure(t *testing.T) {
	root := container.New(nil)
	var seen []*container.Registry
	r := scopedRouter(t, root, &seen,
		func(scope *container.Registry, _ *http.Request) error {
			// the request is already registered by the middleware
			return container.RegisterInstance(scope, &http.Request{})
		},
	)

	rr := do(t, r, http.MethodGet, "/x")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, seen, "handler must not run when setup fails")
	assert.Empty(t, rr.Header().Get(routing.RequestIDHeader))

	var body map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, container.ErrDuplicateRegistration.Error(), body["kind"])
	assert.Equal(t, "*http.Request", body["key"])
}

func TestScoped_PlainSetupError(t *testing.T) {
	root := container.New(nil)
	var seen []*container.Registry
	r := scopedRouter(t, root, &seen, func(*container.Registry, *http.Request) error {
		return errors.New("no session")
	})

	rr := do(t, r, http.MethodGet, "/x")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "no session")
}

func TestScoped_RequestLogger(t *testing.T) {
	var buf bytes.Buffer
	root := container.New(nil)
	require.NoError(t, container.RegisterInstance(root, slog.New(slog.NewTextHandler(&buf, nil))))

	r := routing.New()
	r.Middleware(routing.Scoped(root))
	r.Get("/log", func(w http.ResponseWriter, req *http.Request) {
		ctxlog.FromContext(req.Context()).Info("handled")
		w.WriteHeader(http.StatusNoContent)
	})

	rr := do(t, r, http.MethodGet, "/log")
	id := rr.Header().Get(routing.RequestIDHeader)
	require.NotEmpty(t, id)
	assert.Contains(t, buf.String(), "msg=handled")
	assert.Contains(t, buf.String(), "request_id="+id)
}
