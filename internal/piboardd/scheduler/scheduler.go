// Package scheduler advances the visible index through the current playlist
// on per-item timers or media-completion signals. It is the only component
// that decides what is on screen now.
package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Am0lShah/Display-Output/api/types/v1alpha1"
)

const (
	// DefaultItemDuration applies to items that carry no duration
	DefaultItemDuration = 10 * time.Second
	// DefaultTransitionDelay is the visual fade window between items
	DefaultTransitionDelay = 300 * time.Millisecond
)

// Snapshot is the scheduler's visible state at one moment
type Snapshot struct {
	// Item is the content currently on screen, nil for an empty playlist
	Item *v1alpha1.ContentItem
	// Index is the position of Item in the playlist
	Index int
	// Length is the playlist length
	Length int
	// Transitioning is true during the short fade between items
	Transitioning bool
}

// Scheduler owns playback state for the current playlist. All mutation goes
// through its timers and public methods; the playlist slice itself is
// treated as immutable per version.
type Scheduler struct {
	logger *slog.Logger

	transitionDelay time.Duration
	defaultDuration time.Duration
	durationUnit    time.Duration

	mu            sync.Mutex
	playlist      []v1alpha1.ContentItem
	index         int
	transitioning bool
	durationTimer *time.Timer
	fadeTimer     *time.Timer
	closed        bool
	onShow        func(Snapshot)
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithTransitionDelay overrides the fade window
func WithTransitionDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		s.transitionDelay = d
	}
}

// WithDefaultDuration overrides the duration applied to items without one
func WithDefaultDuration(d time.Duration) Option {
	return func(s *Scheduler) {
		s.defaultDuration = d
	}
}

// WithDurationUnit overrides the unit a DurationSeconds of 1 maps to.
// Tests use this to run playlists at millisecond scale.
func WithDurationUnit(d time.Duration) Option {
	return func(s *Scheduler) {
		s.durationUnit = d
	}
}

// New creates a scheduler with an empty playlist
func New(logger *slog.Logger, options ...Option) *Scheduler {
	s := &Scheduler{
		logger:          logger.With("component", "scheduler"),
		transitionDelay: DefaultTransitionDelay,
		defaultDuration: DefaultItemDuration,
		durationUnit:    time.Second,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// OnShow registers the observer invoked on every visible state change
func (s *Scheduler) OnShow(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onShow = fn
}

// Current returns the scheduler's visible state
func (s *Scheduler) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SetPlaylist replaces the playlist. The index always resets to 0; position
// is never preserved across unrelated content sets.
func (s *Scheduler) SetPlaylist(items []v1alpha1.ContentItem) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stopTimersLocked()
	s.playlist = items
	s.index = 0
	s.transitioning = false
	s.armLocked()
	snap := s.snapshotLocked()
	fn := s.onShow
	s.mu.Unlock()

	s.logger.Info("playlist set", "items", len(items))
	if fn != nil {
		fn(snap)
	}
}

// Next manually advances to the following item
func (s *Scheduler) Next() {
	s.advance(1)
}

// Previous manually returns to the preceding item
func (s *Scheduler) Previous() {
	s.advance(-1)
}

// MediaEnded signals playback completion of the current video item,
// superseding its duration timer
func (s *Scheduler) MediaEnded() {
	s.mediaDone()
}

// MediaError signals a playback failure of the current video item; the
// display moves on rather than sticking on a broken player
func (s *Scheduler) MediaError() {
	s.mediaDone()
}

// Close cancels all timers; the scheduler cannot be reused
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopTimersLocked()
}

func (s *Scheduler) mediaDone() {
	s.mu.Lock()
	playing := !s.transitioning &&
		len(s.playlist) > 0 &&
		s.playlist[s.index].Type == v1alpha1.ContentTypeVideo
	s.mu.Unlock()

	if playing {
		s.advance(1)
	}
}

// advance runs the transition sequence: mark transitioning, wait out the
// fade, then move the index and re-arm. Overlapping transitions are
// rejected rather than queued.
func (s *Scheduler) advance(step int) {
	s.mu.Lock()
	if s.closed || s.transitioning || len(s.playlist) < 2 {
		s.mu.Unlock()
		return
	}
	s.transitioning = true
	if s.durationTimer != nil {
		s.durationTimer.Stop()
		s.durationTimer = nil
	}
	s.fadeTimer = time.AfterFunc(s.transitionDelay, func() {
		s.completeAdvance(step)
	})
	snap := s.snapshotLocked()
	fn := s.onShow
	s.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}

func (s *Scheduler) completeAdvance(step int) {
	s.mu.Lock()
	if s.closed || s.fadeTimer == nil {
		// Cancelled by Close or a playlist replacement mid-fade.
		s.mu.Unlock()
		return
	}
	s.index = advanceIndex(s.index, step, len(s.playlist))
	s.transitioning = false
	s.fadeTimer = nil
	s.armLocked()
	snap := s.snapshotLocked()
	fn := s.onShow
	s.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}

// armLocked schedules the automatic advance for the current item.
// Single-item playlists never auto-advance.
func (s *Scheduler) armLocked() {
	if s.durationTimer != nil {
		s.durationTimer.Stop()
		s.durationTimer = nil
	}
	if len(s.playlist) < 2 {
		return
	}
	d := s.itemDuration(s.playlist[s.index])
	s.durationTimer = time.AfterFunc(d, func() {
		s.advance(1)
	})
}

func (s *Scheduler) stopTimersLocked() {
	if s.durationTimer != nil {
		s.durationTimer.Stop()
		s.durationTimer = nil
	}
	if s.fadeTimer != nil {
		s.fadeTimer.Stop()
		s.fadeTimer = nil
	}
}

func (s *Scheduler) itemDuration(item v1alpha1.ContentItem) time.Duration {
	if item.DurationSeconds <= 0 {
		return s.defaultDuration
	}
	return time.Duration(item.DurationSeconds) * s.durationUnit
}

func (s *Scheduler) snapshotLocked() Snapshot {
	snap := Snapshot{
		Index:         s.index,
		Length:        len(s.playlist),
		Transitioning: s.transitioning,
	}
	if len(s.playlist) > 0 {
		item := s.playlist[s.index]
		snap.Item = &item
	}
	return snap
}

// advanceIndex moves index by step modulo length, wrapping both directions
func advanceIndex(index, step, length int) int {
	if length == 0 {
		return 0
	}
	next := (index + step) % length
	if next < 0 {
		next += length
	}
	return next
}
