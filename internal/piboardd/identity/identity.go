// Package identity allocates and retrieves the stable device identifier.
package identity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Am0lShah/Display-Output/internal/piboardd/errors"
	"github.com/Am0lShah/Display-Output/internal/piboardd/store"
)

// deviceIDKey is where the identifier lives in durable storage
const deviceIDKey = "piboard.device_id"

// Manager owns the device identity. The identifier is created lazily on
// first access, persisted forever, and never regenerated once created. When
// durable storage is unavailable the manager degrades to a process-lifetime
// identifier and logs the failure.
type Manager struct {
	store  store.Store
	logger *slog.Logger

	mu     sync.Mutex
	cached string
}

// NewManager creates an identity manager backed by the given store
func NewManager(s store.Store, logger *slog.Logger) *Manager {
	return &Manager{
		store:  s,
		logger: logger.With("component", "identity"),
	}
}

// DeviceID returns the stable device identifier, allocating one on first use
func (m *Manager) DeviceID(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached != "" {
		return m.cached, nil
	}

	id, err := m.store.Get(ctx, deviceIDKey)
	if err == nil && id != "" {
		m.cached = id
		return id, nil
	}
	if err != nil && !errors.IsDataAbsent(err) {
		// Storage is unusable; fall back to an ephemeral identifier so
		// the pairing flow still has something to register.
		id = uuid.New().String()
		m.cached = id
		m.logger.Warn("durable storage unavailable, using ephemeral device id",
			"deviceId", id,
			"error", err,
		)
		return id, nil
	}

	id = uuid.New().String()
	if err := m.store.Set(ctx, deviceIDKey, id); err != nil {
		m.logger.Warn("failed to persist device id",
			"deviceId", id,
			"error", err,
		)
	} else {
		m.logger.Info("allocated device id", "deviceId", id)
	}
	m.cached = id
	return id, nil
}
