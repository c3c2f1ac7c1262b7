package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_RoundTrip(t *testing.T) {
	r := New(nil)
	ctx := WithRegistry(context.Background(), r)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, r, got)
}

func TestContext_Missing(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
}

func TestContext_StoresPlainRegistryFromFactoryView(t *testing.T) {
	r := New(nil)
	var stored *Registry
	require.NoError(t, RegisterTransient(r, func(view *Registry) (int, error) {
		ctx := WithRegistry(context.Background(), view)
		stored, _ = FromContext(ctx)
		return 1, nil
	}))

	_, err := Resolve[int](r)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Nil(t, stored.chain)

	// The stored handle starts fresh chains, so it can resolve the same key.
	_, err = Resolve[int](stored)
	assert.NoError(t, err)
}
