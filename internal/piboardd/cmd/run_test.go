package cmd

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Am0lShah/Display-Output/internal/piboardd/cache"
	"github.com/Am0lShah/Display-Output/internal/piboardd/config"
	"github.com/Am0lShah/Display-Output/internal/piboardd/content"
	"github.com/Am0lShah/Display-Output/internal/piboardd/identity"
	"github.com/Am0lShah/Display-Output/internal/piboardd/pairing"
	"github.com/Am0lShah/Display-Output/internal/piboardd/scheduler"
	"github.com/Am0lShah/Display-Output/internal/piboardd/store"
	"github.com/Am0lShah/Display-Output/internal/piboardd/syncer"
)

func TestStatusSnapshot(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	machine := pairing.NewMachine(nil, identity.NewManager(store.NewMemoryStore(), logger), store.NewMemoryStore(), logger)
	playlistCache := cache.NewManager(store.NewMemoryStore(), logger)
	orchestrator := syncer.NewOrchestrator(nil, playlistCache, content.DefaultPlaylist(), logger)
	display := scheduler.New(logger)
	defer display.Close()

	snap := statusSnapshot(ctx, machine, orchestrator, display, playlistCache)

	assert.Equal(t, pairing.StateUnpaired, snap.State)
	assert.Equal(t, syncer.SourceDefault, snap.Source)
	assert.Zero(t, snap.PlaylistLength)
	assert.False(t, snap.Transitioning)
	assert.False(t, snap.CacheFresh)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LoggingConfig
	}{
		{name: "json default", cfg: config.LoggingConfig{Format: "json", Level: "info"}},
		{name: "console", cfg: config.LoggingConfig{Format: "console", Level: "debug"}},
		{name: "unknown level falls back to info", cfg: config.LoggingConfig{Format: "json", Level: "chatty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := newLogger(tt.cfg)
			assert.NotNil(t, logger)
		})
	}
}

func TestNetworkInfo(t *testing.T) {
	meta := networkInfo()
	assert.True(t, strings.HasPrefix(meta.UserAgent, "piboardd/"))
}
