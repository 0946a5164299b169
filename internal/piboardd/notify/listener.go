package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Am0lShah/Display-Output/api/types/v1alpha1"
)

// ChangeStream is a live subscription yielding change messages until its
// transport fails
type ChangeStream interface {
	Messages() <-chan v1alpha1.ChangeMessage
	Errs() <-chan error
	Close() error
}

// DialFunc opens one change stream
type DialFunc func(ctx context.Context) (ChangeStream, error)

// Listener maintains the two change subscriptions — binding changes
// filtered to this device and unfiltered content changes — and invokes a
// single coalesced refresh callback. It never patches incrementally: every
// notification leads to a full re-pull by the refresh callback, trading
// bandwidth for correctness.
type Listener struct {
	dialBindings DialFunc
	dialContent  DialFunc
	onRefresh    func(ctx context.Context)
	logger       *slog.Logger

	window           time.Duration
	resubscribeDelay time.Duration
}

// ListenerOption configures a Listener
type ListenerOption func(*Listener)

// WithDebounceWindow overrides the coalescing quiet period
func WithDebounceWindow(d time.Duration) ListenerOption {
	return func(l *Listener) {
		l.window = d
	}
}

// WithResubscribeDelay overrides the delay before re-opening a dropped stream
func WithResubscribeDelay(d time.Duration) ListenerOption {
	return func(l *Listener) {
		l.resubscribeDelay = d
	}
}

// NewListener creates a listener invoking onRefresh once per notification
// burst
func NewListener(dialBindings, dialContent DialFunc, onRefresh func(ctx context.Context), logger *slog.Logger, options ...ListenerOption) *Listener {
	l := &Listener{
		dialBindings:     dialBindings,
		dialContent:      dialContent,
		onRefresh:        onRefresh,
		logger:           logger.With("component", "notify"),
		window:           500 * time.Millisecond,
		resubscribeDelay: 5 * time.Second,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Run maintains both subscriptions until ctx is cancelled
func (l *Listener) Run(ctx context.Context) error {
	debounce := NewDebouncer(l.window, func() {
		l.onRefresh(ctx)
	})
	defer debounce.Stop()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		l.runStream(ctx, "bindings", l.dialBindings, debounce)
	}()
	go func() {
		defer wg.Done()
		l.runStream(ctx, "content", l.dialContent, debounce)
	}()
	wg.Wait()
	return ctx.Err()
}

// runStream keeps one subscription alive, re-dialing after the fixed delay
// whenever the transport drops. The previous stream is fully torn down
// before a new one is opened, so duplicate subscriptions cannot accumulate.
func (l *Listener) runStream(ctx context.Context, name string, dial DialFunc, debounce *Debouncer) {
	for {
		if ctx.Err() != nil {
			return
		}

		s, err := dial(ctx)
		if err != nil {
			l.logger.Warn("failed to open change stream, will retry",
				"stream", name,
				"retryIn", l.resubscribeDelay,
				"error", err,
			)
			if !sleep(ctx, l.resubscribeDelay) {
				return
			}
			continue
		}
		l.logger.Debug("change stream open", "stream", name)

		if !l.pump(ctx, name, s, debounce) {
			return
		}
		if !sleep(ctx, l.resubscribeDelay) {
			return
		}
	}
}

// pump forwards messages into the debouncer until the stream dies. It
// returns false when ctx ended and the caller should stop entirely.
func (l *Listener) pump(ctx context.Context, name string, s ChangeStream, debounce *Debouncer) bool {
	defer func() {
		if err := s.Close(); err != nil {
			l.logger.Debug("error closing change stream", "stream", name, "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return false
		case _, ok := <-s.Messages():
			if !ok {
				return true
			}
			debounce.Trigger()
		case err := <-s.Errs():
			l.logger.Warn("change stream dropped, resubscribing",
				"stream", name,
				"retryIn", l.resubscribeDelay,
				"error", err,
			)
			return true
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
