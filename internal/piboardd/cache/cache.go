// Package cache persists the last-known-good playlist so the display can
// keep showing real content through network outages.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Am0lShah/Display-Output/api/types/v1alpha1"
	"github.com/Am0lShah/Display-Output/internal/piboardd/errors"
	"github.com/Am0lShah/Display-Output/internal/piboardd/store"
)

// playlistKey is the single cache slot in durable storage
const playlistKey = "piboard.playlist_cache"

// DefaultFreshness is how long a saved playlist counts as fresh
const DefaultFreshness = time.Hour

// snapshot is the persisted cache shape
type snapshot struct {
	Items   []v1alpha1.ContentItem `json:"items"`
	SavedAt time.Time              `json:"savedAt"`
}

// Manager is the single-slot playlist cache. Policy is strictly
// last-write-wins with no history; a stale entry is still usable as a last
// resort.
type Manager struct {
	store     store.Store
	freshness time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithFreshness overrides the freshness threshold
func WithFreshness(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.freshness = d
	}
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a cache manager over the given store
func NewManager(s store.Store, logger *slog.Logger, options ...ManagerOption) *Manager {
	m := &Manager{
		store:     s,
		freshness: DefaultFreshness,
		now:       time.Now,
		logger:    logger.With("component", "cache"),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Save persists the playlist with the current time
func (m *Manager) Save(ctx context.Context, items []v1alpha1.ContentItem) error {
	raw, err := json.Marshal(snapshot{Items: items, SavedAt: m.now()})
	if err != nil {
		return errors.NewError("CACHE_ENCODE_FAILED", "failed to encode playlist", "cache.Save", err)
	}
	if err := m.store.Set(ctx, playlistKey, string(raw)); err != nil {
		m.logger.Warn("failed to persist playlist cache", "error", err)
		return err
	}
	return nil
}

// Load returns the last saved playlist and its save time, or
// errors.ErrDataAbsent when the slot is empty
func (m *Manager) Load(ctx context.Context) ([]v1alpha1.ContentItem, time.Time, error) {
	raw, err := m.store.Get(ctx, playlistKey)
	if err != nil {
		return nil, time.Time{}, err
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		// A corrupt slot is treated as empty rather than fatal.
		m.logger.Warn("discarding unreadable playlist cache", "error", err)
		return nil, time.Time{}, errors.NewError("CACHE_CORRUPT", "cached playlist unreadable", "cache.Load", errors.ErrDataAbsent)
	}
	if len(snap.Items) == 0 {
		return nil, time.Time{}, errors.NewError("CACHE_EMPTY", "cached playlist empty", "cache.Load", errors.ErrDataAbsent)
	}
	return snap.Items, snap.SavedAt, nil
}

// IsFresh reports whether a playlist was saved within the freshness window
func (m *Manager) IsFresh(ctx context.Context) bool {
	_, savedAt, err := m.Load(ctx)
	if err != nil {
		return false
	}
	return m.now().Sub(savedAt) < m.freshness
}

// Clear empties the cache slot. Called when a live sync yields an empty
// playlist, so intentionally removed content cannot resurrect from cache.
func (m *Manager) Clear(ctx context.Context) error {
	return m.store.Remove(ctx, playlistKey)
}
