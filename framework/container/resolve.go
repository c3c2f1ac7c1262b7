package container

import (
	"errors"
	"fmt"
)

// ── In-flight tracking ────────────────────────────────────────────────────────

// errReentered is returned by binding.build when a goroutine re-enters a
// factory it is already running through a registry handle that does not
// carry the current chain (one captured by the factory, say).
var errReentered = errors.New("factory re-entered")

// chain is the set of keys being resolved by one top-level Make call and its
// recursive factory calls. Each top-level call gets its own chain.
type chain struct {
	inFlight map[Key]struct{}
	stack    []Key

	// Set once the chain runs a factory; see goroutine.
	gid   int64
	outer *chain
}

func newChain() *chain {
	return &chain{inFlight: make(map[Key]struct{})}
}

func (c *chain) has(key Key) bool {
	_, ok := c.inFlight[key]
	return ok
}

func (c *chain) push(key Key) {
	c.inFlight[key] = struct{}{}
	c.stack = append(c.stack, key)
}

func (c *chain) pop(key Key) {
	delete(c.inFlight, key)
	c.stack = c.stack[:len(c.stack)-1]
}

// path returns the current stack followed by key, e.g. A -> B -> A.
func (c *chain) path(key Key) []Key {
	out := make([]Key, 0, len(c.stack)+1)
	out = append(out, c.stack...)
	return append(out, key)
}

// trail returns the stacks of every chain open on this goroutine, outermost
// first. The current stack already ends with the key being resolved.
func (c *chain) trail() []Key {
	var chains []*chain
	for cur := c; cur != nil; cur = cur.outer {
		chains = append(chains, cur)
	}
	var out []Key
	for i := len(chains) - 1; i >= 0; i-- {
		out = append(out, chains[i].stack...)
	}
	return out
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves key from r, falling back to r's ancestors.
//
// The owning registration decides the lifetime. A transient factory receives
// r (with the current chain attached), so a transient registered on a parent
// sees the child's overrides when resolving its own dependencies. A singleton
// factory receives the owning registry, so the cached value is the same
// whichever child resolves it first.
func (r *Registry) Make(key Key) (any, error) {
	ch := r.chain
	if ch == nil {
		ch = newChain()
		defer ch.release()
	}

	if ch.has(key) {
		return nil, &Error{Kind: ErrCircularDependency, Key: key, Path: ch.path(key)}
	}
	ch.push(key)
	defer ch.pop(key)

	b, owner, level, ok := r.lookup(key)
	if !ok {
		return nil, &Error{Kind: ErrNotFound, Key: key}
	}

	builder := r.t
	if b.lifetime == Singleton {
		builder = owner.t
	}
	view := &Registry{t: builder, chain: ch}
	instance, err := b.build(view, ch)
	if errors.Is(err, errReentered) {
		return nil, &Error{Kind: ErrCircularDependency, Key: key, Path: ch.trail()}
	}
	if err != nil {
		var rerr *Error
		if errors.As(err, &rerr) {
			return nil, err
		}
		return nil, &Error{Kind: ErrFactory, Key: key, Err: err}
	}

	r.logger().Debug("container: resolved",
		"key", key.String(),
		"lifetime", b.lifetime.String(),
		"owner_level", level,
		"chain_len", len(ch.stack))

	r.fireAfterResolving(key, instance)
	return instance, nil
}

// ── Generic helpers ───────────────────────────────────────────────────────────

// RegisterSingleton registers a lazily-built, shared T.
//
//	container.RegisterSingleton(r, func(r *container.Registry) (*Cache, error) {
//	    cfg, err := container.Resolve[*Config](r)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewCache(cfg), nil
//	})
func RegisterSingleton[T any](r *Registry, factory func(r *Registry) (T, error), opts ...Option) error {
	key := KeyOf[T](apply(opts).tag)
	if factory == nil {
		return &Error{Kind: ErrInvalidRegistration, Key: key}
	}
	return r.Singleton(key, erase(factory))
}

// RegisterTransient registers a T built anew on every resolution.
func RegisterTransient[T any](r *Registry, factory func(r *Registry) (T, error), opts ...Option) error {
	key := KeyOf[T](apply(opts).tag)
	if factory == nil {
		return &Error{Kind: ErrInvalidRegistration, Key: key}
	}
	return r.Bind(key, erase(factory))
}

// RegisterInstance registers v itself as the singleton T.
//
//	container.RegisterInstance(r, cfg)
//	container.RegisterInstance(r, "eu-west-1", container.WithTag("region"))
func RegisterInstance[T any](r *Registry, v T, opts ...Option) error {
	return r.Instance(KeyOf[T](apply(opts).tag), v)
}

// Resolve resolves a T from r.
//
//	db, err := container.Resolve[*Database](r)
//	replica, err := container.Resolve[*Database](r, container.WithTag("replica"))
func Resolve[T any](r *Registry, opts ...Option) (T, error) {
	var zero T
	key := KeyOf[T](apply(opts).tag)

	instance, err := r.Make(key)
	if err != nil {
		return zero, err
	}
	if instance == nil {
		return zero, nil
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &Error{
			Kind: ErrTypeMismatch,
			Key:  key,
			Err:  fmt.Errorf("got %T", instance),
		}
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error. Intended for bootstrap
// code where a missing registration is a programming error.
func MustResolve[T any](r *Registry, opts ...Option) T {
	v, err := Resolve[T](r, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// erase adapts a typed factory to Factory.
func erase[T any](f func(r *Registry) (T, error)) Factory {
	return func(r *Registry) (any, error) {
		v, err := f(r)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}
