package container

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
)

// ── Keys ──────────────────────────────────────────────────────────────────────

// Key identifies a registration: a Go type plus an optional tag.
//
// Two keys are equal iff both Tag and Type match. The empty tag is the
// untagged key and is distinct from every non-empty tag.
type Key struct {
	Tag  string
	Type reflect.Type
}

// KeyOf returns the key for type T under tag ("" for untagged).
//
//	container.KeyOf[*Database]("")         // *app.Database
//	container.KeyOf[*Database]("replica")  // *app.Database#replica
func KeyOf[T any](tag string) Key {
	return Key{Tag: tag, Type: reflect.TypeFor[T]()}
}

// String renders the key as type[#tag].
func (k Key) String() string {
	name := "<nil>"
	if k.Type != nil {
		name = k.Type.String()
	}
	if k.Tag == "" {
		return name
	}
	return name + "#" + k.Tag
}

// ── Lifetimes ─────────────────────────────────────────────────────────────────

// Lifetime controls how many values a registration produces.
type Lifetime int

const (
	// Singleton registrations produce one value, built lazily on first
	// resolution and shared afterwards.
	Singleton Lifetime = iota

	// Transient registrations call their factory on every resolution.
	Transient
)

// String returns the human-readable name of the lifetime.
func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

// ── Bindings ──────────────────────────────────────────────────────────────────

// Factory builds a value.
//
// Transient factories receive the registry the resolution was requested on,
// which may be a child of the registry that owns the binding, so they pick up
// the child's overrides. Singleton factories receive the owning registry: a
// cached value never depends on which child asked first.
type Factory func(r *Registry) (any, error)

// cell is a write-once slot for a singleton value.
type cell struct {
	value  any
	filled bool
}

func (c *cell) get() (any, bool) { return c.value, c.filled }

// fill stores v if the cell is empty and returns whatever the cell holds.
func (c *cell) fill(v any) any {
	if !c.filled {
		c.value, c.filled = v, true
	}
	return c.value
}

// binding is a single registration. Instance bindings have no factory and a
// pre-filled cell.
type binding struct {
	lifetime Lifetime
	factory  Factory

	mu   sync.Mutex // guards cell for singletons
	slot cell

	runMu   sync.Mutex
	running map[int64]struct{} // goroutines inside factory
}

// build produces a value for r according to the binding's lifetime. It
// returns errReentered when the goroutine asking is already running this
// binding's factory.
func (b *binding) build(r *Registry, ch *chain) (any, error) {
	if b.lifetime == Transient {
		gid := ch.goroutine()
		if !b.enter(gid) {
			return nil, errReentered
		}
		defer b.leave(gid)
		return b.factory(r)
	}

	if !b.mu.TryLock() {
		// Held by this goroutine means a cycle; waiting would never end.
		if b.isRunning(ch.goroutine()) {
			return nil, errReentered
		}
		b.mu.Lock()
	}
	defer b.mu.Unlock()

	if v, ok := b.slot.get(); ok {
		return v, nil
	}

	gid := ch.goroutine()
	b.enter(gid)
	defer b.leave(gid)

	v, err := b.factory(r)
	if err != nil {
		return nil, err
	}
	return b.slot.fill(v), nil
}

// enter marks gid as running the factory. It reports false if gid already is.
func (b *binding) enter(gid int64) bool {
	b.runMu.Lock()
	defer b.runMu.Unlock()
	if _, ok := b.running[gid]; ok {
		return false
	}
	if b.running == nil {
		b.running = make(map[int64]struct{})
	}
	b.running[gid] = struct{}{}
	return true
}

func (b *binding) leave(gid int64) {
	b.runMu.Lock()
	defer b.runMu.Unlock()
	delete(b.running, gid)
}

func (b *binding) isRunning(gid int64) bool {
	b.runMu.Lock()
	defer b.runMu.Unlock()
	_, ok := b.running[gid]
	return ok
}

// ── Registry ──────────────────────────────────────────────────────────────────

// table is the state shared by a Registry and every resolution view of it.
type table struct {
	mu sync.RWMutex

	parent   *Registry
	bindings map[Key]*binding
	order    []Key

	logger         *slog.Logger
	afterResolving []func(Key, any)
}

// Registry is a hierarchical dependency registry.
//
// Values are registered under a Key and resolved later, either from this
// registry's own table or, failing that, from its ancestors. A child may
// shadow any registration of its parent; the parent is never modified.
//
// The *Registry handed to a Factory is a view that also carries the in-flight
// set of the current resolution chain: the requesting registry for transients,
// the owning registry for singletons. It can be used exactly like the
// registry itself, but only until the factory returns and only on the
// factory's goroutine.
type Registry struct {
	t     *table
	chain *chain // nil outside a resolution
}

// New creates an empty registry. parent may be nil for a root registry.
//
//	project := container.New(nil)
//	scene := container.New(project)
func New(parent *Registry) *Registry {
	logger := slog.Default()
	if parent != nil {
		parent = parent.root()
		logger = parent.logger()
	}
	return &Registry{t: &table{
		parent:   parent,
		bindings: make(map[Key]*binding),
		logger:   logger,
	}}
}

// Child creates a registry whose parent is r.
func (r *Registry) Child() *Registry {
	return New(r)
}

// Parent returns the parent registry, or nil for a root.
func (r *Registry) Parent() *Registry {
	return r.t.parent
}

// Depth returns the number of ancestors of r.
func (r *Registry) Depth() int {
	n := 0
	for p := r.t.parent; p != nil; p = p.t.parent {
		n++
	}
	return n
}

// SetLogger replaces the logger used for debug output. Children created
// afterwards inherit it.
func (r *Registry) SetLogger(l *slog.Logger) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	r.t.logger = l
}

func (r *Registry) logger() *slog.Logger {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return r.t.logger
}

// root strips any resolution view, returning the plain registry handle.
func (r *Registry) root() *Registry {
	if r.chain == nil {
		return r
	}
	return &Registry{t: r.t}
}

// ── Registration ──────────────────────────────────────────────────────────────

// Singleton registers a factory whose result is cached after the first
// successful resolution.
func (r *Registry) Singleton(key Key, f Factory) error {
	if f == nil {
		return &Error{Kind: ErrInvalidRegistration, Key: key}
	}
	return r.register(key, &binding{lifetime: Singleton, factory: f})
}

// Bind registers a transient factory, called anew on every resolution.
func (r *Registry) Bind(key Key, f Factory) error {
	if f == nil {
		return &Error{Kind: ErrInvalidRegistration, Key: key}
	}
	return r.register(key, &binding{lifetime: Transient, factory: f})
}

// Instance registers a pre-built value as a singleton.
func (r *Registry) Instance(key Key, v any) error {
	b := &binding{lifetime: Singleton}
	b.slot.fill(v)
	return r.register(key, b)
}

func (r *Registry) register(key Key, b *binding) error {
	r.t.mu.Lock()
	if _, exists := r.t.bindings[key]; exists {
		r.t.mu.Unlock()
		return &Error{Kind: ErrDuplicateRegistration, Key: key}
	}
	r.t.bindings[key] = b
	r.t.order = append(r.t.order, key)
	logger := r.t.logger
	r.t.mu.Unlock()

	logger.Debug("container: registered",
		"key", key.String(),
		"lifetime", b.lifetime.String(),
		"instance", b.factory == nil,
		"depth", r.Depth())
	return nil
}

// ── Introspection ─────────────────────────────────────────────────────────────

// Has reports whether key is registered in r's own table.
func (r *Registry) Has(key Key) bool {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	_, ok := r.t.bindings[key]
	return ok
}

// Bound reports whether key is registered in r or any of its ancestors.
func (r *Registry) Bound(key Key) bool {
	_, _, _, ok := r.lookup(key)
	return ok
}

// Keys returns r's own keys in registration order.
func (r *Registry) Keys() []Key {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	out := make([]Key, len(r.t.order))
	copy(out, r.t.order)
	return out
}

// lookup finds the binding for key, walking up the parent chain. It also
// returns the owning registry and how many levels above r it sits.
func (r *Registry) lookup(key Key) (*binding, *Registry, int, bool) {
	level := 0
	for cur := r; cur != nil; cur = cur.t.parent {
		cur.t.mu.RLock()
		b, ok := cur.t.bindings[key]
		cur.t.mu.RUnlock()
		if ok {
			return b, cur, level, true
		}
		level++
	}
	return nil, nil, 0, false
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired after every successful resolution
// requested on r (not on its children). Dependencies resolved inside a
// singleton factory count as requested on the singleton's owner.
func (r *Registry) AfterResolving(cb func(key Key, instance any)) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	r.t.afterResolving = append(r.t.afterResolving, cb)
}

func (r *Registry) fireAfterResolving(key Key, instance any) {
	r.t.mu.RLock()
	cbs := r.t.afterResolving
	r.t.mu.RUnlock()
	for _, cb := range cbs {
		cb(key, instance)
	}
}

// ── Debug ─────────────────────────────────────────────────────────────────────

// String describes the registry for logs, e.g. "registry(depth=1, keys=3)".
func (r *Registry) String() string {
	r.t.mu.RLock()
	n := len(r.t.order)
	r.t.mu.RUnlock()
	return fmt.Sprintf("registry(depth=%d, keys=%d)", r.Depth(), n)
}
