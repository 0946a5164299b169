package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Am0lShah/Display-Output/internal/piboardd/errors"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "absent")
	require.Error(t, err)
	assert.True(t, errors.IsDataAbsent(err))

	require.NoError(t, s.Set(ctx, "key", "value"))
	got, err := s.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	require.NoError(t, s.Set(ctx, "key", "replaced"))
	got, err = s.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "replaced", got)

	require.NoError(t, s.Remove(ctx, "key"))
	_, err = s.Get(ctx, "key")
	assert.True(t, errors.IsDataAbsent(err))

	// Removing a missing key is not an error.
	require.NoError(t, s.Remove(ctx, "never-there"))
	require.NoError(t, s.Close())
}
