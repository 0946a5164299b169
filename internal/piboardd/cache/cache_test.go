package cache

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Am0lShah/Display-Output/api/types/v1alpha1"
	"github.com/Am0lShah/Display-Output/internal/piboardd/errors"
	"github.com/Am0lShah/Display-Output/internal/piboardd/store"
)

func testPlaylist() []v1alpha1.ContentItem {
	return []v1alpha1.ContentItem{
		{ID: "x", Title: "X", Type: v1alpha1.ContentTypeText, Text: "hello", DurationSeconds: 5, Active: true},
		{ID: "y", Title: "Y", Type: v1alpha1.ContentTypeImage, URL: "https://example.com/y.png", DurationSeconds: 8, Active: true},
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemoryStore(), slog.Default())

	require.NoError(t, m.Save(ctx, testPlaylist()))

	items, savedAt, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, testPlaylist(), items)
	assert.WithinDuration(t, time.Now(), savedAt, time.Minute)
}

func TestLoadEmptySlot(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemoryStore(), slog.Default())

	_, _, err := m.Load(ctx)
	assert.True(t, errors.IsDataAbsent(err))
}

func TestFreshnessBoundary(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		age   time.Duration
		fresh bool
	}{
		{name: "just_saved", age: 0, fresh: true},
		{name: "one_second_inside", age: 3599 * time.Second, fresh: true},
		{name: "one_second_outside", age: 3601 * time.Second, fresh: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Now()
			m := NewManager(store.NewMemoryStore(), slog.Default(), WithClock(func() time.Time { return now }))
			require.NoError(t, m.Save(ctx, testPlaylist()))

			now = now.Add(tt.age)
			assert.Equal(t, tt.fresh, m.IsFresh(ctx))
		})
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemoryStore(), slog.Default())

	require.NoError(t, m.Save(ctx, testPlaylist()))
	require.NoError(t, m.Clear(ctx))

	_, _, err := m.Load(ctx)
	assert.True(t, errors.IsDataAbsent(err))
	assert.False(t, m.IsFresh(ctx))
}

func TestCorruptSlotTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, s.Set(ctx, "piboard.playlist_cache", "{not json"))

	m := NewManager(s, slog.Default())
	_, _, err := m.Load(ctx)
	assert.True(t, errors.IsDataAbsent(err))
}
