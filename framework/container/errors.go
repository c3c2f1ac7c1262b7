package container

import (
	"errors"
	"strings"
)

var (
	// ErrDuplicateRegistration is returned when a key is registered twice in
	// the same registry. Registering a key that exists only in an ancestor is
	// allowed and shadows the ancestor's registration.
	ErrDuplicateRegistration = errors.New("duplicate registration")

	// ErrCircularDependency is returned when a resolution chain asks for a key
	// that is still being resolved. The error carries the full chain.
	ErrCircularDependency = errors.New("circular dependency detected")

	// ErrNotFound is returned when neither the registry nor any ancestor holds
	// a registration for the key.
	ErrNotFound = errors.New("registration not found")

	// ErrInvalidRegistration is returned for registrations without a factory.
	ErrInvalidRegistration = errors.New("invalid registration")

	// ErrFactory wraps an error returned by a factory.
	ErrFactory = errors.New("factory failed")

	// ErrTypeMismatch is returned by Resolve when the registered value is not
	// a T. Only untyped registrations (Bind, Singleton, Instance) can cause it.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Error describes a registry failure for a specific key. Kind is one of the
// Err* sentinels, so both of these work:
//
//	errors.Is(err, container.ErrNotFound)
//
//	var rerr *container.Error
//	if errors.As(err, &rerr) { log.Println(rerr.Key.Tag, rerr.Key.Type) }
type Error struct {
	Kind error
	Key  Key

	// Path is the resolution chain for ErrCircularDependency, ending with the
	// key that closed the cycle.
	Path []Key

	// Err is the underlying cause for ErrFactory and ErrTypeMismatch.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("container: ")
	b.WriteString(e.Kind.Error())

	if len(e.Path) > 0 {
		b.WriteString(": ")
		for i, k := range e.Path {
			if i > 0 {
				b.WriteString(" -> ")
			}
			b.WriteString(k.String())
		}
	} else {
		b.WriteString(" for ")
		b.WriteString(describe(e.Key))
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes Kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func describe(k Key) string {
	tag := "<none>"
	if k.Tag != "" {
		tag = `"` + k.Tag + `"`
	}
	typ := "<nil>"
	if k.Type != nil {
		typ = k.Type.String()
	}
	return "tag " + tag + " and type " + typ
}
