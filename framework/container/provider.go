package container

import (
	"errors"
	"fmt"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations.
//
// Register is called once, when the provider is added to a ProviderRegistry.
// Boot is called after every provider has been registered, so it may resolve
// anything the other providers contributed.
//
//	type CacheProvider struct{ container.BaseProvider }
//
//	func (p *CacheProvider) Register(r *container.Registry) error {
//	    return container.RegisterSingleton(r, func(r *container.Registry) (*Cache, error) {
//	        return NewCache(), nil
//	    })
//	}
type ServiceProvider interface {
	// Register adds registrations to r. Do not resolve here; other
	// providers may not have registered yet.
	Register(r *Registry) error

	// Boot runs after all providers are registered.
	Boot(r *Registry) error
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable no-op Boot implementation.
type BaseProvider struct{}

// Boot does nothing.
func (p *BaseProvider) Boot(_ *Registry) error { return nil }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders against one registry.
type ProviderRegistry struct {
	app        *Registry
	providers  []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a provider registry bound to app.
func NewProviderRegistry(app *Registry) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register calls provider.Register. Registering the same provider value
// twice is a no-op. Providers added after Boot are booted immediately.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if provider == nil {
		return errors.New("container: provider cannot be nil")
	}
	if r.registered[provider] {
		return nil
	}

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("registering %T: %w", provider, err)
	}
	r.registered[provider] = true
	r.providers = append(r.providers, provider)

	if r.booted {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("booting %T: %w", provider, err)
		}
	}
	return nil
}

// Boot calls Boot on every provider in registration order. It runs once;
// later calls return nil. All boot failures are reported together.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true

	var errs []error
	for _, provider := range r.providers {
		if err := provider.Boot(r.app); err != nil {
			errs = append(errs, fmt.Errorf("booting %T: %w", provider, err))
		}
	}
	return errors.Join(errs...)
}

// Booted reports whether Boot has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the registered providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.providers }
