package pairing

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/Am0lShah/Display-Output/api/types/v1alpha1"
	"github.com/Am0lShah/Display-Output/internal/piboardd/errors"
	"github.com/Am0lShah/Display-Output/internal/piboardd/identity"
	"github.com/Am0lShah/Display-Output/internal/piboardd/store"
)

// State represents the pairing state of the device
type State string

const (
	// StateUnpaired indicates no owning account holds the device
	StateUnpaired State = "UNPAIRED"
	// StatePaired indicates an owning account holds the device
	StatePaired State = "PAIRED"
)

// Transition computes the next pairing state from a directory record. It is
// the single place ownership is interpreted: a record with an owner means
// paired, anything else means unpaired. Transitions are reversible.
func Transition(current State, record *v1alpha1.DeviceRecord) State {
	if record.Paired() {
		return StatePaired
	}
	return StateUnpaired
}

// sessionCodeKey is where the current code lives in session storage
const sessionCodeKey = "piboard.pairing_code"

// Directory is the subset of the directory client the machine depends on
type Directory interface {
	UpsertDevice(ctx context.Context, req v1alpha1.UpsertDeviceRequest) (*v1alpha1.DeviceRecord, error)
	GetDevice(ctx context.Context, deviceID string) (*v1alpha1.DeviceRecord, error)
	SetCode(ctx context.Context, deviceID, code string) error
	WatchDevice(ctx context.Context, deviceID string) (DeviceWatch, error)
}

// DeviceWatch is a live subscription to one device record
type DeviceWatch interface {
	Updates() <-chan v1alpha1.DeviceRecord
	Errs() <-chan error
	Close() error
}

// NetworkInfoFunc reports the device's current network metadata
type NetworkInfoFunc func() v1alpha1.NetworkMetadata

// Status is a snapshot of the pairing machine handed to observers
type Status struct {
	// State is the current pairing state
	State State
	// DeviceID is the stable device identifier
	DeviceID string
	// Code is the currently issued pairing code
	Code Code
	// ExpiresAt is when the code rotates next
	ExpiresAt time.Time
	// Record is the last known directory record, nil before first contact
	Record *v1alpha1.DeviceRecord
	// Handshake is the payload for the visual pairing code
	Handshake v1alpha1.HandshakePayload
}

// Machine drives the pairing flow. It registers the device, keeps the
// directory's code in agreement with the locally issued one, rotates the
// code while unpaired, and tracks ownership changes pushed by the
// directory. No failure in this flow is fatal: the machine always leaves a
// displayable code in its status.
type Machine struct {
	directory Directory
	identity  *identity.Manager
	session   store.Store
	netinfo   NetworkInfoFunc
	logger    *slog.Logger

	rotateInterval   time.Duration
	pollInterval     time.Duration
	resubscribeDelay time.Duration

	refresh chan struct{}

	mu       sync.Mutex
	state    State
	deviceID string
	code     Code
	record   *v1alpha1.DeviceRecord
	onChange func(Status)
}

// MachineOption configures a Machine
type MachineOption func(*Machine)

// WithRotateInterval overrides the code rotation interval
func WithRotateInterval(d time.Duration) MachineOption {
	return func(m *Machine) {
		m.rotateInterval = d
	}
}

// WithPollInterval overrides the directory poll interval
func WithPollInterval(d time.Duration) MachineOption {
	return func(m *Machine) {
		m.pollInterval = d
	}
}

// WithResubscribeDelay overrides the delay before re-opening a dropped watch
func WithResubscribeDelay(d time.Duration) MachineOption {
	return func(m *Machine) {
		m.resubscribeDelay = d
	}
}

// WithNetworkInfo sets the network metadata source
func WithNetworkInfo(fn NetworkInfoFunc) MachineOption {
	return func(m *Machine) {
		m.netinfo = fn
	}
}

// NewMachine creates a pairing machine in the unpaired state
func NewMachine(dir Directory, id *identity.Manager, session store.Store, logger *slog.Logger, options ...MachineOption) *Machine {
	m := &Machine{
		directory:        dir,
		identity:         id,
		session:          session,
		netinfo:          func() v1alpha1.NetworkMetadata { return v1alpha1.NetworkMetadata{} },
		logger:           logger.With("component", "pairing"),
		rotateInterval:   CodeValidity,
		pollInterval:     30 * time.Second,
		resubscribeDelay: 5 * time.Second,
		refresh:          make(chan struct{}, 1),
		state:            StateUnpaired,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// OnChange registers the observer invoked on every state or code change.
// Must be called before Run.
func (m *Machine) OnChange(fn func(Status)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Status returns the current pairing snapshot
func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

// RefreshCode requests an immediate manual code rotation. The rotation
// countdown restarts from the new code.
func (m *Machine) RefreshCode() {
	select {
	case m.refresh <- struct{}{}:
	default:
	}
}

// Run drives the pairing flow until ctx is cancelled
func (m *Machine) Run(ctx context.Context) error {
	deviceID, err := m.identity.DeviceID(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.deviceID = deviceID
	m.code = m.ensureCodeLocked(ctx)
	m.mu.Unlock()

	// Publish a status before any network traffic so the UI has a code
	// even when the directory is unreachable.
	m.notify()

	m.register(ctx)
	m.validate(ctx)

	rotate := time.NewTicker(m.rotateInterval)
	defer rotate.Stop()
	poll := time.NewTicker(m.pollInterval)
	defer poll.Stop()

	var (
		watch   DeviceWatch
		updates <-chan v1alpha1.DeviceRecord
		werrs   <-chan error
		redial  <-chan time.Time
	)
	closeWatch := func() {
		if watch != nil {
			if err := watch.Close(); err != nil {
				m.logger.Debug("error closing device watch", "error", err)
			}
			watch, updates, werrs = nil, nil, nil
		}
	}
	defer closeWatch()

	dial := func() {
		closeWatch()
		w, err := m.directory.WatchDevice(ctx, deviceID)
		if err != nil {
			m.logger.Warn("failed to open device watch, will retry",
				"deviceId", deviceID,
				"retryIn", m.resubscribeDelay,
				"error", err,
			)
			redial = time.After(m.resubscribeDelay)
			return
		}
		watch, updates, werrs, redial = w, w.Updates(), w.Errs(), nil
	}
	dial()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-rotate.C:
			if m.Status().State == StatePaired {
				// Rotation is suppressed entirely once paired.
				continue
			}
			m.rotateCode(ctx)

		case <-m.refresh:
			if m.Status().State == StatePaired {
				continue
			}
			m.rotateCode(ctx)
			rotate.Reset(m.rotateInterval)

		case rec := <-updates:
			m.applyRecord(&rec)

		case <-poll.C:
			rec, err := m.directory.GetDevice(ctx, deviceID)
			if err != nil {
				if !errors.IsDataAbsent(err) {
					m.logger.Warn("directory poll failed", "error", err)
					continue
				}
				// Record vanished remotely; re-register.
				m.register(ctx)
				continue
			}
			m.applyRecord(rec)

		case err := <-werrs:
			m.logger.Warn("device watch dropped, resubscribing",
				"retryIn", m.resubscribeDelay,
				"error", err,
			)
			closeWatch()
			redial = time.After(m.resubscribeDelay)

		case <-redial:
			dial()
		}
	}
}

// register upserts the device record with the current code and network
// metadata. Failures are logged and retried on the next poll; the locally
// issued code keeps the UI displayable in the meantime.
func (m *Machine) register(ctx context.Context) {
	m.mu.Lock()
	req := v1alpha1.UpsertDeviceRequest{
		DeviceID: m.deviceID,
		Code:     m.code.Value,
		Online:   true,
		Network:  m.netinfo(),
	}
	m.mu.Unlock()

	rec, err := m.directory.UpsertDevice(ctx, req)
	if err != nil {
		m.logger.Warn("device registration failed, continuing with local code",
			"deviceId", req.DeviceID,
			"error", err,
		)
		return
	}

	m.logger.Info("device registered",
		"deviceId", rec.DeviceID,
		"displayName", rec.DisplayName,
		"paired", rec.Paired(),
	)
	m.applyRecord(rec)
}

// validate checks that the directory reflects the locally issued code and
// force-updates it when the two disagree, self-healing partial writes.
func (m *Machine) validate(ctx context.Context) {
	m.mu.Lock()
	deviceID := m.deviceID
	code := m.code.Value
	m.mu.Unlock()

	rec, err := m.directory.GetDevice(ctx, deviceID)
	if err != nil {
		m.logger.Warn("code validation skipped", "error", err)
		return
	}

	if rec.Code != code {
		m.logger.Warn("remote code does not match issued code, re-issuing",
			"remote", rec.Code,
			"local", code,
			"error", errors.ErrValidationMismatch,
		)
		if err := m.directory.SetCode(ctx, deviceID, code); err != nil {
			m.logger.Warn("failed to re-issue code", "error", err)
			return
		}
	}
	m.applyRecord(rec)
}

// rotateCode issues a fresh code and pushes it to the directory
func (m *Machine) rotateCode(ctx context.Context) {
	code := GenerateCode()

	m.mu.Lock()
	m.code = code
	deviceID := m.deviceID
	m.saveSessionCodeLocked(ctx)
	m.mu.Unlock()

	if err := m.directory.SetCode(ctx, deviceID, code.Value); err != nil {
		m.logger.Warn("failed to push rotated code, UI shows local code",
			"error", err,
		)
	} else {
		m.logger.Info("pairing code rotated", "expiresAt", code.ExpiresAt())
	}
	m.notify()
}

// applyRecord runs the record through the transition function and publishes
// any resulting change
func (m *Machine) applyRecord(rec *v1alpha1.DeviceRecord) {
	m.mu.Lock()
	prev := m.state
	m.record = rec
	m.state = Transition(prev, rec)
	changed := m.state != prev
	state := m.state
	m.mu.Unlock()

	if changed {
		m.logger.Info("pairing state changed", "from", prev, "to", state)
	}
	m.notify()
}

// ensureCodeLocked returns the session's active code, issuing one if the
// session has none or the stored code is past its validity window
func (m *Machine) ensureCodeLocked(ctx context.Context) Code {
	if raw, err := m.session.Get(ctx, sessionCodeKey); err == nil {
		var code Code
		if err := json.Unmarshal([]byte(raw), &code); err == nil && !code.Expired(time.Now()) {
			return code
		}
	}

	code := GenerateCode()
	m.code = code
	m.saveSessionCodeLocked(ctx)
	return code
}

func (m *Machine) saveSessionCodeLocked(ctx context.Context) {
	raw, err := json.Marshal(m.code)
	if err != nil {
		return
	}
	if err := m.session.Set(ctx, sessionCodeKey, string(raw)); err != nil {
		m.logger.Debug("failed to save session code", "error", err)
	}
}

func (m *Machine) statusLocked() Status {
	return Status{
		State:     m.state,
		DeviceID:  m.deviceID,
		Code:      m.code,
		ExpiresAt: m.code.ExpiresAt(),
		Record:    m.record,
		Handshake: Handshake(m.deviceID, m.code),
	}
}

func (m *Machine) notify() {
	m.mu.Lock()
	fn := m.onChange
	status := m.statusLocked()
	m.mu.Unlock()

	if fn != nil {
		fn(status)
	}
}
