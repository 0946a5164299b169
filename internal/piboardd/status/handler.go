// Package status exposes a local read-only HTTP surface reporting what the
// daemon is doing: pairing state, current code, and playback position.
// Rendering remains the presentation layer's job; this is operations glue.
package status

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Am0lShah/Display-Output/internal/piboardd/pairing"
	"github.com/Am0lShah/Display-Output/internal/piboardd/syncer"
)

// Snapshot aggregates component state for one status response
type Snapshot struct {
	// State is the pairing state
	State pairing.State `json:"state"`
	// DeviceID is the stable device identifier
	DeviceID string `json:"deviceId"`
	// Code is the pairing code currently shown, empty once paired
	Code string `json:"code,omitempty"`
	// CodeExpiresAt is when the code rotates next
	CodeExpiresAt *time.Time `json:"codeExpiresAt,omitempty"`
	// Source is where the current playlist came from
	Source syncer.Source `json:"source"`
	// PlaylistLength is the number of items in the current playlist
	PlaylistLength int `json:"playlistLength"`
	// CurrentIndex is the item on screen now
	CurrentIndex int `json:"currentIndex"`
	// Transitioning is true during an item fade
	Transitioning bool `json:"transitioning"`
	// CacheFresh reports whether the cache slot is within its freshness window
	CacheFresh bool `json:"cacheFresh"`
	// UpdatedAt is when this snapshot was taken
	UpdatedAt time.Time `json:"updatedAt"`
}

// SnapshotFunc produces the current status snapshot
type SnapshotFunc func() Snapshot

// Handler serves the local status API
type Handler struct {
	snapshot SnapshotFunc
	logger   *slog.Logger
}

// NewHandler creates a status handler over the given snapshot source
func NewHandler(snapshot SnapshotFunc, logger *slog.Logger) *Handler {
	return &Handler{
		snapshot: snapshot,
		logger:   logger.With("component", "status"),
	}
}

// Router returns the HTTP router for status endpoints
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			h.logger.Debug("error writing health response", "error", err)
		}
	})

	r.Get("/api/v1alpha1/status", h.getStatus)

	return r
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot()
	snap.UpdatedAt = time.Now()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		h.logger.Error("error encoding status response", "error", err)
	}
}

// Redact removes the pairing code from snapshots of paired devices,
// matching what the screen itself shows
func Redact(snap Snapshot) Snapshot {
	if snap.State == pairing.StatePaired {
		snap.Code = ""
		snap.CodeExpiresAt = nil
	}
	return snap
}
