// Package notify maintains the change-notification subscriptions that keep
// the local playlist in agreement with the remote repository, coalescing
// notification bursts into single refreshes.
package notify

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into one callback invocation after
// a quiet period. A trigger arriving inside the window resets the timer, so
// the callback fires exactly once per burst regardless of burst size.
type Debouncer struct {
	window time.Duration
	fn     func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer firing fn once per quiet period
func NewDebouncer(window time.Duration, fn func()) *Debouncer {
	return &Debouncer{
		window: window,
		fn:     fn,
	}
}

// Trigger schedules the callback, replacing any pending schedule
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// Stop cancels any pending callback; the debouncer cannot be reused
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}
