package providers_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-registry/framework/config"
	"github.com/km-arc/go-registry/framework/container"
	"github.com/km-arc/go-registry/framework/providers"
	"github.com/km-arc/go-registry/framework/routing"
)

func boot(t *testing.T, ps ...container.ServiceProvider) *container.Registry {
	t.Helper()
	r := container.New(nil)
	reg := container.NewProviderRegistry(r)
	for _, p := range ps {
		require.NoError(t, reg.Register(p))
	}
	require.NoError(t, reg.Boot())
	return r
}

func TestConfigServiceProvider(t *testing.T) {
	t.Setenv("APP_NAME", "providers-test")
	r := boot(t, &providers.ConfigServiceProvider{EnvFiles: []string{"testdata/none.env"}})

	cfg, err := container.Resolve[*config.Config](r)
	require.NoError(t, err)
	assert.Equal(t, "providers-test", cfg.App.Name)

	again := container.MustResolve[*config.Config](r)
	assert.Same(t, cfg, again, "config must be a singleton")
}

func TestLogServiceProvider(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	var buf bytes.Buffer
	r := boot(t,
		&providers.ConfigServiceProvider{EnvFiles: []string{"testdata/none.env"}},
		&providers.LogServiceProvider{Writer: &buf},
	)

	logger, err := container.Resolve[*slog.Logger](r)
	require.NoError(t, err)
	logger.Debug("from app")
	assert.Contains(t, buf.String(), "msg=\"from app\"")

	// Boot redirected the registry's own debug output.
	buf.Reset()
	require.NoError(t, container.RegisterInstance(r, 42))
	assert.Contains(t, buf.String(), "container: registered")
	assert.Contains(t, buf.String(), "key=int")
}

func TestLogServiceProvider_MissingConfig(t *testing.T) {
	r := container.New(nil)
	reg := container.NewProviderRegistry(r)
	require.NoError(t, reg.Register(&providers.LogServiceProvider{}))

	err := reg.Boot()
	require.Error(t, err)
	assert.ErrorIs(t, err, container.ErrNotFound)
}

func TestRoutingServiceProvider(t *testing.T) {
	r := boot(t, &providers.RoutingServiceProvider{})

	router, err := container.Resolve[*routing.Router](r)
	require.NoError(t, err)

	var scope *container.Registry
	router.Get("/scope", func(w http.ResponseWriter, req *http.Request) {
		scope, _ = container.FromContext(req.Context())
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/scope", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, scope)
	assert.Same(t, r, scope.Parent())
	assert.NotEmpty(t, rr.Header().Get(routing.RequestIDHeader))
}

func TestRoutingServiceProvider_ResolvedFromChildStillScopesToOwner(t *testing.T) {
	r := boot(t, &providers.RoutingServiceProvider{})
	child := r.Child()

	router := container.MustResolve[*routing.Router](child)

	var scope *container.Registry
	router.Get("/scope", func(w http.ResponseWriter, req *http.Request) {
		scope, _ = container.FromContext(req.Context())
	})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/scope", nil))

	require.NotNil(t, scope)
	assert.Same(t, r, scope.Parent())
}
