// Package syncer composes the content repository, the playlist cache, and
// the built-in default set into a single "current playlist" with defined
// precedence rules.
package syncer

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Am0lShah/Display-Output/api/types/v1alpha1"
	"github.com/Am0lShah/Display-Output/internal/piboardd/cache"
)

// Source identifies where the current playlist came from
type Source string

const (
	// SourceDefault is the built-in no-network content set
	SourceDefault Source = "default"
	// SourceCache is the last-known-good persisted playlist
	SourceCache Source = "cache"
	// SourceLive is a playlist fetched from the repository this session
	SourceLive Source = "live"
)

// Repository is the subset of the content client the orchestrator depends on
type Repository interface {
	ListActiveContent(ctx context.Context, deviceID string) ([]v1alpha1.ContentItem, error)
}

// Orchestrator resolves what should be displayed. Precedence, evaluated on
// every (re)fetch trigger:
//
//  1. Unpaired: built-in defaults, cache untouched.
//  2. Paired with a fresh cache before any live fetch this session: serve
//     the cache immediately and converge via a background live fetch.
//  3. Live fetch: non-empty result is cached and served; an empty result
//     clears the cache and serves defaults; a failed fetch falls back to
//     the cache regardless of freshness, then to defaults.
//
// Every successful non-default playlist is preloaded before being handed
// to the observer.
type Orchestrator struct {
	repo      Repository
	cache     *cache.Manager
	preloader *Preloader
	defaults  []v1alpha1.ContentItem
	logger    *slog.Logger

	mu          sync.Mutex
	paired      bool
	deviceID    string
	liveFetched bool
	current     []v1alpha1.ContentItem
	source      Source
	onPlaylist  func(items []v1alpha1.ContentItem, source Source)
}

// OrchestratorOption configures an Orchestrator
type OrchestratorOption func(*Orchestrator)

// WithPreloader enables media preloading before playlist handoff
func WithPreloader(p *Preloader) OrchestratorOption {
	return func(o *Orchestrator) {
		o.preloader = p
	}
}

// NewOrchestrator creates an orchestrator serving defaults until paired
func NewOrchestrator(repo Repository, c *cache.Manager, defaults []v1alpha1.ContentItem, logger *slog.Logger, options ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		repo:     repo,
		cache:    c,
		defaults: defaults,
		logger:   logger.With("component", "syncer"),
		source:   SourceDefault,
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// OnPlaylist registers the observer receiving each resolved playlist.
// Must be called before the orchestrator starts resolving.
func (o *Orchestrator) OnPlaylist(fn func(items []v1alpha1.ContentItem, source Source)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onPlaylist = fn
}

// Current returns the most recently resolved playlist and its source
func (o *Orchestrator) Current() ([]v1alpha1.ContentItem, Source) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current, o.source
}

// SetPaired updates pairing state and re-resolves the current playlist
func (o *Orchestrator) SetPaired(ctx context.Context, paired bool, deviceID string) {
	o.mu.Lock()
	changed := o.paired != paired || o.deviceID != deviceID
	o.paired = paired
	o.deviceID = deviceID
	if !paired {
		// A fresh pairing starts a fresh sync session.
		o.liveFetched = false
	}
	o.mu.Unlock()

	if changed {
		o.Resolve(ctx)
	}
}

// Resolve evaluates the precedence rules and publishes the result
func (o *Orchestrator) Resolve(ctx context.Context) {
	o.mu.Lock()
	paired := o.paired
	liveFetched := o.liveFetched
	o.mu.Unlock()

	if !paired {
		o.deliver(o.defaults, SourceDefault)
		return
	}

	if !liveFetched && o.cache.IsFresh(ctx) {
		if items, _, err := o.cache.Load(ctx); err == nil {
			o.logger.Info("serving fresh cache on cold start", "items", len(items))
			o.deliver(items, SourceCache)
			// Converge on server truth in the background.
			go o.Refresh(ctx)
			return
		}
	}

	o.Refresh(ctx)
}

// Refresh performs a live fetch with the full fallback chain
func (o *Orchestrator) Refresh(ctx context.Context) {
	o.mu.Lock()
	paired := o.paired
	deviceID := o.deviceID
	o.mu.Unlock()

	if !paired {
		return
	}

	items, err := o.repo.ListActiveContent(ctx, deviceID)
	if err != nil {
		o.logger.Warn("live fetch failed, falling back", "error", err)
		// Better degraded content than none: any cached playlist wins
		// over defaults here, fresh or not.
		if cached, savedAt, cerr := o.cache.Load(ctx); cerr == nil {
			o.logger.Info("serving cached playlist", "items", len(cached), "savedAt", savedAt)
			o.deliver(cached, SourceCache)
			return
		}
		o.deliver(o.defaults, SourceDefault)
		return
	}

	o.mu.Lock()
	o.liveFetched = true
	o.mu.Unlock()

	if len(items) == 0 {
		// The owner emptied the device's content; don't let the cache
		// resurrect it later.
		if err := o.cache.Clear(ctx); err != nil {
			o.logger.Warn("failed to clear playlist cache", "error", err)
		}
		o.deliver(o.defaults, SourceDefault)
		return
	}

	if err := o.cache.Save(ctx, items); err != nil {
		o.logger.Warn("failed to cache playlist", "error", err)
	}
	if o.preloader != nil {
		o.preloader.Warm(ctx, items)
	}
	o.deliver(items, SourceLive)
}

// deliver publishes a resolved playlist. Identical consecutive content is
// suppressed so no-op refreshes don't reset the display position; the
// source is metadata and is updated even when the handoff is skipped, so a
// cache served on cold start converges to live without disturbing playback.
func (o *Orchestrator) deliver(items []v1alpha1.ContentItem, source Source) {
	o.mu.Lock()
	if playlistEqual(items, o.current) {
		changed := o.source != source
		o.source = source
		o.mu.Unlock()
		if changed {
			o.logger.Debug("playlist unchanged, source updated", "source", source)
		}
		return
	}
	o.current = items
	o.source = source
	fn := o.onPlaylist
	o.mu.Unlock()

	o.logger.Info("playlist resolved", "source", source, "items", len(items))
	if fn != nil {
		fn(items, source)
	}
}

// playlistEqual compares playlists by identity and payload
func playlistEqual(a, b []v1alpha1.ContentItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
