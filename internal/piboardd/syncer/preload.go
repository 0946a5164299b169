package syncer

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Am0lShah/Display-Output/api/types/v1alpha1"
)

// Preloader warms image and video payloads before a playlist is handed to
// the scheduler, minimizing visible stutter on first display. Warming is
// strictly best-effort: failures are logged and the playlist proceeds.
type Preloader struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// PreloaderOption configures a Preloader
type PreloaderOption func(*Preloader)

// WithWarmTimeout overrides the per-item fetch timeout
func WithWarmTimeout(d time.Duration) PreloaderOption {
	return func(p *Preloader) {
		p.timeout = d
	}
}

// WithWarmHTTPClient replaces the underlying HTTP client
func WithWarmHTTPClient(client *http.Client) PreloaderOption {
	return func(p *Preloader) {
		p.httpClient = client
	}
}

// NewPreloader creates a media preloader
func NewPreloader(logger *slog.Logger, options ...PreloaderOption) *Preloader {
	p := &Preloader{
		httpClient: &http.Client{},
		timeout:    10 * time.Second,
		logger:     logger.With("component", "preload"),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Warm fetches each media payload once so it lands in the HTTP cache.
// Returns once every item has been attempted.
func (p *Preloader) Warm(ctx context.Context, items []v1alpha1.ContentItem) {
	var wg sync.WaitGroup
	for _, item := range items {
		if item.URL == "" {
			continue
		}
		if item.Type != v1alpha1.ContentTypeImage && item.Type != v1alpha1.ContentTypeVideo {
			continue
		}

		wg.Add(1)
		go func(item v1alpha1.ContentItem) {
			defer wg.Done()
			p.warmOne(ctx, item)
		}(item)
	}
	wg.Wait()
}

func (p *Preloader) warmOne(ctx context.Context, item v1alpha1.ContentItem) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.URL, nil)
	if err != nil {
		p.logger.Debug("skipping preload of invalid URL", "id", item.ID, "error", err)
		return
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Debug("preload failed", "id", item.ID, "url", item.URL, "error", err)
		return
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		p.logger.Debug("preload read failed", "id", item.ID, "error", err)
	}
}
