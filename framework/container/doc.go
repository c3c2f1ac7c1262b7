// Package container provides a hierarchical dependency registry.
//
// # Overview
//
// A Registry maps a Key, a Go type plus an optional tag, to a registration.
// Registrations are either factories or pre-built values, with one of two
// lifetimes:
//
//   - Singleton: the factory runs at most once, on first resolution, and the
//     result is shared.
//   - Transient: the factory runs on every resolution.
//
// Registries form a tree. A child looks in its own table first and falls back
// to its parent, so a child can shadow any registration of an ancestor
// without touching it.
//
// # Registering
//
//	project := container.New(nil)
//
//	// Singleton, built lazily
//	container.RegisterSingleton(project, func(r *container.Registry) (*Config, error) {
//	    return LoadConfig()
//	})
//
//	// Several values of one type, told apart by tag
//	container.RegisterInstance(project, "primary", container.WithTag("db"))
//	container.RegisterInstance(project, "replica", container.WithTag("db-ro"))
//
//	// Transient, new value on every Resolve
//	container.RegisterTransient(project, func(r *container.Registry) (*Request, error) {
//	    return &Request{}, nil
//	})
//
// Registering a key that already exists in the same registry fails with
// ErrDuplicateRegistration.
//
// # Resolving
//
//	scene := project.Child()
//	cfg, err := container.Resolve[*Config](scene) // found in project
//
// Transient factories receive the registry the resolution was requested on.
// A transient registered on project but triggered through scene resolves its
// own dependencies through scene, picking up scene's overrides. Singleton
// factories always run against the registry that owns them, so a project
// singleton never captures one scene's overrides.
//
// A chain that asks for a key still being resolved fails with
// ErrCircularDependency, and a key found nowhere fails with ErrNotFound. Both
// are *Error values carrying the key:
//
//	var rerr *container.Error
//	if errors.As(err, &rerr) {
//	    fmt.Println(rerr.Key.Tag, rerr.Key.Type)
//	}
//
// # Service Providers
//
//	type AppProvider struct{ container.BaseProvider }
//
//	func (p *AppProvider) Register(r *container.Registry) error {
//	    return container.RegisterSingleton(r, NewMailer)
//	}
//
//	providers := container.NewProviderRegistry(project)
//	providers.Register(&AppProvider{})
//	providers.Boot()
//
// # Concurrency
//
// Registration and resolution may be called from several goroutines; each
// singleton's factory still runs at most once. Cycles are reported on the
// goroutine that closes them, also when a factory resolves through a captured
// registry instead of its argument. A cyclic graph resolved from two
// goroutines at once may block rather than fail.
package container
