package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Am0lShah/Display-Output/internal/piboardd/errors"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "piboard.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(ctx, "absent")
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
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "piboard.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "piboard.device_id", "dev-1"))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "piboard.device_id")
	require.NoError(t, err)
	assert.Equal(t, "dev-1", got)
}
