package cmd

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/Am0lShah/Display-Output/internal/piboardd/cache"
	"github.com/Am0lShah/Display-Output/internal/piboardd/config"
	"github.com/Am0lShah/Display-Output/internal/piboardd/content"
	"github.com/Am0lShah/Display-Output/internal/piboardd/directory"
	"github.com/Am0lShah/Display-Output/internal/piboardd/identity"
	"github.com/Am0lShah/Display-Output/internal/piboardd/notify"
	"github.com/Am0lShah/Display-Output/internal/piboardd/pairing"
	"github.com/Am0lShah/Display-Output/internal/piboardd/scheduler"
	"github.com/Am0lShah/Display-Output/internal/piboardd/status"
	"github.com/Am0lShah/Display-Output/internal/piboardd/store"
	"github.com/Am0lShah/Display-Output/internal/piboardd/store/sqlite"
	"github.com/Am0lShah/Display-Output/internal/piboardd/syncer"

	"github.com/Am0lShah/Display-Output/api/types/v1alpha1"
)

// runDaemon wires all components together and blocks until shutdown
func runDaemon(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	// Durable storage backs identity and the playlist cache. If it cannot
	// be opened the daemon degrades to memory and keeps displaying.
	var durable store.Store
	if s, err := sqlite.Open(cfg.Storage.Path); err != nil {
		logger.Warn("durable storage unavailable, running in memory",
			"path", cfg.Storage.Path,
			"error", err,
		)
		durable = store.NewMemoryStore()
	} else {
		durable = s
	}
	defer durable.Close()

	// Pairing codes are session-scoped and must not survive a restart.
	session := store.NewMemoryStore()
	defer session.Close()

	ids := identity.NewManager(durable, logger)

	directoryClient, err := directory.NewClient(cfg.Server.DirectoryURL, directory.WithToken(cfg.Server.Token))
	if err != nil {
		return err
	}
	contentClient, err := content.NewClient(cfg.Server.ContentURL, content.WithToken(cfg.Server.Token))
	if err != nil {
		return err
	}

	playlistCache := cache.NewManager(durable, logger, cache.WithFreshness(cfg.Sync.CacheFreshness))
	defaults := content.LoadFallbackPlaylist(cfg.Display.FallbackContentPath, logger)

	orchestrator := syncer.NewOrchestrator(
		contentClient,
		playlistCache,
		defaults,
		logger,
		syncer.WithPreloader(syncer.NewPreloader(logger)),
	)

	display := scheduler.New(logger,
		scheduler.WithDefaultDuration(cfg.Display.DefaultDuration),
		scheduler.WithTransitionDelay(cfg.Display.TransitionDelay),
	)
	defer display.Close()

	display.OnShow(func(snap scheduler.Snapshot) {
		if snap.Item == nil || snap.Transitioning {
			return
		}
		logger.Info("showing item",
			"index", snap.Index,
			"of", snap.Length,
			"title", snap.Item.Title,
			"type", snap.Item.Type,
		)
	})

	orchestrator.OnPlaylist(func(items []v1alpha1.ContentItem, source syncer.Source) {
		display.SetPlaylist(items)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deviceID, err := ids.DeviceID(ctx)
	if err != nil {
		return err
	}

	machine := pairing.NewMachine(
		pairingDirectory{directoryClient},
		ids,
		session,
		logger,
		pairing.WithRotateInterval(cfg.Pairing.RotateInterval),
		pairing.WithPollInterval(cfg.Pairing.PollInterval),
		pairing.WithResubscribeDelay(cfg.Sync.ResubscribeDelay),
		pairing.WithNetworkInfo(networkInfo),
	)

	machine.OnChange(func(st pairing.Status) {
		orchestrator.SetPaired(ctx, st.State == pairing.StatePaired, st.DeviceID)
	})

	listener := notify.NewListener(
		func(ctx context.Context) (notify.ChangeStream, error) {
			s, err := contentClient.WatchBindings(ctx, deviceID)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		func(ctx context.Context) (notify.ChangeStream, error) {
			s, err := contentClient.WatchContent(ctx)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		orchestrator.Refresh,
		logger,
		notify.WithDebounceWindow(cfg.Sync.DebounceWindow),
		notify.WithResubscribeDelay(cfg.Sync.ResubscribeDelay),
	)

	// Show something before the first network round-trip completes.
	orchestrator.Resolve(ctx)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := machine.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("pairing machine stopped", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := listener.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("change listener stopped", "error", err)
		}
	}()

	var statusServer *http.Server
	if cfg.Status.Enabled {
		handler := status.NewHandler(func() status.Snapshot {
			return statusSnapshot(ctx, machine, orchestrator, display, playlistCache)
		}, logger)
		statusServer = &http.Server{
			Addr:         cfg.Status.Addr,
			Handler:      handler.Router(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("status endpoint listening", "addr", cfg.Status.Addr)
			if err := statusServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("status server error", "error", err)
			}
		}()
	}

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	<-shutdown
	logger.Info("shutting down...")

	cancel()
	wg.Wait()

	if statusServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := statusServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("status server shutdown error", "error", err)
		}
	}

	// Best-effort offline mark; the directory also ages devices out by
	// lastSeenAt when this never arrives.
	offlineCtx, offlineCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer offlineCancel()
	if err := directoryClient.SetOnline(offlineCtx, deviceID, false); err != nil {
		logger.Debug("failed to mark device offline", "error", err)
	}

	logger.Info("stopped")
	return nil
}

// newLogger builds the daemon logger: JSON for log shippers, tint for a
// readable console on an attached kiosk terminal
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	if cfg.Format == "console" {
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: level}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// statusSnapshot aggregates component state for the status endpoint
func statusSnapshot(ctx context.Context, machine *pairing.Machine, orchestrator *syncer.Orchestrator, display *scheduler.Scheduler, playlistCache *cache.Manager) status.Snapshot {
	st := machine.Status()
	_, source := orchestrator.Current()
	playback := display.Current()
	expires := st.ExpiresAt

	return status.Redact(status.Snapshot{
		State:          st.State,
		DeviceID:       st.DeviceID,
		Code:           st.Code.Value,
		CodeExpiresAt:  &expires,
		Source:         source,
		PlaylistLength: playback.Length,
		CurrentIndex:   playback.Index,
		Transitioning:  playback.Transitioning,
		CacheFresh:     playlistCache.IsFresh(ctx),
	})
}

// pairingDirectory adapts the directory client to the pairing machine's
// watch interface
type pairingDirectory struct {
	*directory.Client
}

func (d pairingDirectory) WatchDevice(ctx context.Context, deviceID string) (pairing.DeviceWatch, error) {
	w, err := d.Client.WatchDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// networkInfo reports hostname and LAN address for the device record
func networkInfo() v1alpha1.NetworkMetadata {
	meta := v1alpha1.NetworkMetadata{
		UserAgent: "piboardd/" + version + " (" + runtime.GOOS + "; " + runtime.GOARCH + ")",
	}
	if hostname, err := os.Hostname(); err == nil {
		meta.Hostname = hostname
	}
	// Routing-table lookup only; no packets are sent.
	if conn, err := net.Dial("udp", "203.0.113.1:9"); err == nil {
		if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
			meta.LocalIP = addr.IP.String()
		}
		conn.Close()
	}
	return meta
}
