package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/km-arc/go-registry/framework/config"
	"github.com/km-arc/go-registry/framework/container"
	"github.com/km-arc/go-registry/framework/providers"
	"github.com/km-arc/go-registry/framework/routing"
)

// Application is the root registry plus its service providers. User code can
// call app.Singleton(), app.Bind() and app.Register() directly.
type Application struct {
	*container.Registry
	Providers *container.ProviderRegistry
}

// Option configures New.
type Option func(*options)

type options struct {
	envFiles []string
	logs     *providers.LogServiceProvider
}

// WithEnvFiles sets the .env files loaded by the config provider.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.envFiles = append(o.envFiles, files...) }
}

// WithLogProvider replaces the default log provider, e.g. to redirect output.
func WithLogProvider(p *providers.LogServiceProvider) Option {
	return func(o *options) { o.logs = p }
}

// New creates the application and registers the framework providers
// (config, logging, routing). Providers are booted by Boot or Run.
func New(opts ...Option) (*Application, error) {
	o := options{logs: &providers.LogServiceProvider{}}
	for _, opt := range opts {
		opt(&o)
	}

	r := container.New(nil)
	app := &Application{
		Registry:  r,
		Providers: container.NewProviderRegistry(r),
	}

	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{EnvFiles: o.envFiles},
		o.logs,
		&providers.RoutingServiceProvider{},
	} {
		if err := app.Providers.Register(p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves *config.Config from the registry.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Registry)
}

// Logger resolves the application *slog.Logger.
func (a *Application) Logger() *slog.Logger {
	return container.MustResolve[*slog.Logger](a.Registry)
}

// Router resolves *routing.Router from the registry.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Registry)
}

// Run boots the application (if needed) and serves HTTP on HTTP_PORT until
// ctx is cancelled, then shuts down within HTTP_SHUTDOWN_TIMEOUT.
func (a *Application) Run(ctx context.Context) error {
	cfg, ln, err := a.listen()
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln, cfg.HTTP.ShutdownTimeout)
}

func (a *Application) listen() (*config.Config, net.Listener, error) {
	if err := a.Boot(); err != nil {
		return nil, nil, err
	}
	cfg := a.Config()
	ln, err := net.Listen("tcp", ":"+cfg.HTTP.Port)
	if err != nil {
		return nil, nil, fmt.Errorf("listening on :%s: %w", cfg.HTTP.Port, err)
	}
	return cfg, ln, nil
}

// Serve boots the application (if needed) and serves on ln until ctx is
// cancelled. It closes ln.
func (a *Application) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	if err := a.Boot(); err != nil {
		_ = ln.Close()
		return err
	}
	cfg := a.Config()
	logger := a.Logger()

	srv := &http.Server{
		Handler:  a.Router(),
		ErrorLog: slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started",
			"app", cfg.App.Name,
			"env", cfg.App.Env,
			"addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", shutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
