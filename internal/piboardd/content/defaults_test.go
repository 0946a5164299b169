package content

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Am0lShah/Display-Output/api/types/v1alpha1"
)

func TestDefaultPlaylist(t *testing.T) {
	items := DefaultPlaylist()
	require.Len(t, items, 3)

	assert.Equal(t, "Welcome to PiBoard", items[0].Text)
	assert.Equal(t, 12, items[0].DurationSeconds)
	assert.Equal(t, 10, items[1].DurationSeconds)
	assert.Equal(t, 15, items[2].DurationSeconds)

	for _, it := range items {
		assert.Equal(t, v1alpha1.ContentTypeText, it.Type)
		assert.True(t, it.Active)
		assert.NotEmpty(t, it.Title)
	}
}

func TestLoadFallbackPlaylist(t *testing.T) {
	logger := slog.Default()

	t.Run("empty path uses built-ins", func(t *testing.T) {
		assert.Equal(t, DefaultPlaylist(), LoadFallbackPlaylist("", logger))
	})

	t.Run("missing file uses built-ins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nope.yaml")
		assert.Equal(t, DefaultPlaylist(), LoadFallbackPlaylist(path, logger))
	})

	t.Run("invalid yaml uses built-ins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fallback.yaml")
		require.NoError(t, os.WriteFile(path, []byte("items: {not: a list"), 0o644))
		assert.Equal(t, DefaultPlaylist(), LoadFallbackPlaylist(path, logger))
	})

	t.Run("valid file overrides built-ins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fallback.yaml")
		raw := []byte(`items:
  - title: Lobby
    text: Welcome to the lobby
    durationSeconds: 20
  - title: Unsized
    text: No duration given
`)
		require.NoError(t, os.WriteFile(path, raw, 0o644))

		items := LoadFallbackPlaylist(path, logger)
		require.Len(t, items, 2)
		assert.Equal(t, "Lobby", items[0].Title)
		assert.Equal(t, 20, items[0].DurationSeconds)
		assert.Equal(t, 10, items[1].DurationSeconds)
		for _, it := range items {
			assert.Equal(t, v1alpha1.ContentTypeText, it.Type)
			assert.True(t, it.Active)
		}
	})
}
