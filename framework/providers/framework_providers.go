package providers

import (
	"io"
	"log/slog"

	"github.com/km-arc/go-registry/framework/config"
	"github.com/km-arc/go-registry/framework/container"
	"github.com/km-arc/go-registry/framework/ctxlog"
	"github.com/km-arc/go-registry/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env files
// and the environment.
//
// Registers:
//   - *config.Config (singleton)
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Registry) error {
	envFiles := p.EnvFiles
	return container.RegisterSingleton(app, func(*container.Registry) (*config.Config, error) {
		return config.Load(envFiles...), nil
	})
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider builds the application logger from config.
//
// Registers:
//   - *slog.Logger (singleton), writing to Writer (stderr when nil)
//
// Boot points the registry's own debug output at the same logger.
type LogServiceProvider struct {
	Writer io.Writer
}

func (p *LogServiceProvider) Register(app *container.Registry) error {
	w := p.Writer
	return container.RegisterSingleton(app, func(r *container.Registry) (*slog.Logger, error) {
		cfg, err := container.Resolve[*config.Config](r)
		if err != nil {
			return nil, err
		}
		return ctxlog.New(cfg.Log, w), nil
	})
}

func (p *LogServiceProvider) Boot(app *container.Registry) error {
	logger, err := container.Resolve[*slog.Logger](app)
	if err != nil {
		return err
	}
	app.SetLogger(logger)
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router. Every request handled by
// it runs in a child of the registry the provider was registered into.
//
// Registers:
//   - *routing.Router (singleton)
type RoutingServiceProvider struct {
	container.BaseProvider
	Setup []routing.ScopeSetup
}

func (p *RoutingServiceProvider) Register(app *container.Registry) error {
	setup := p.Setup
	return container.RegisterSingleton(app, func(*container.Registry) (*routing.Router, error) {
		router := routing.New()
		router.Middleware(routing.Scoped(app, setup...))
		return router, nil
	})
}
