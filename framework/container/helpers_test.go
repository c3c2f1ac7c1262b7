package container

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Shared test types used across test files.

type testLogger struct{ Prefix string }
type testConfig struct{ DSN string }

type testDatabase struct {
	Config *testConfig
	Logger *testLogger
}

type testCircA struct{ B *testCircB }
type testCircB struct{ A *testCircA }

type testWidget struct{ ID int }

type testCounter struct{ next int }

func (c *testCounter) Next() int {
	n := c.next
	c.next++
	return n
}

func newTestLogger(*Registry) (*testLogger, error) { return &testLogger{Prefix: "app"}, nil }
func newTestConfig(*Registry) (*testConfig, error) { return &testConfig{DSN: "postgres://localhost"}, nil }

func newTestDatabase(r *Registry) (*testDatabase, error) {
	cfg, err := Resolve[*testConfig](r)
	if err != nil {
		return nil, err
	}
	log, err := Resolve[*testLogger](r)
	if err != nil {
		return nil, err
	}
	return &testDatabase{Config: cfg, Logger: log}, nil
}

// counting wraps a factory and counts its invocations.
func counting[T any](calls *int, f func(*Registry) (T, error)) func(*Registry) (T, error) {
	return func(r *Registry) (T, error) {
		*calls++
		return f(r)
	}
}

func mustSingleton[T any](t *testing.T, r *Registry, f func(*Registry) (T, error), opts ...Option) {
	t.Helper()
	require.NoError(t, RegisterSingleton(r, f, opts...))
}

func mustTransient[T any](t *testing.T, r *Registry, f func(*Registry) (T, error), opts ...Option) {
	t.Helper()
	require.NoError(t, RegisterTransient(r, f, opts...))
}

func mustInstance[T any](t *testing.T, r *Registry, v T, opts ...Option) {
	t.Helper()
	require.NoError(t, RegisterInstance(r, v, opts...))
}
