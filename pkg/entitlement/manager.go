package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/licensor/pkg/cryptox"
	"github.com/aussiebroadwan/licensor/pkg/licensesdk"
)

// DefaultCheckInterval is the minimum time between remote status checks.
const DefaultCheckInterval = 24 * time.Hour

// ErrUnavailable wraps a call the authority did not answer. The cached
// verdict is left as it was.
var ErrUnavailable = errors.New("entitlement: license authority unavailable")

// ErrUnrecognized wraps an answer that carries no verdict, such as a
// validation error. The cached verdict is left as it was.
var ErrUnrecognized = errors.New("entitlement: answer carries no verdict")

// Transport is the subset of *licensesdk.Client the Manager uses.
type Transport interface {
	Activate(ctx context.Context, rawKey string) licensesdk.Result
	Deactivate(ctx context.Context, rawKey string) licensesdk.Result
	Status(ctx context.Context) licensesdk.Result
}

// Observer is notified after every activate or deactivate.
type Observer func(State)

// Manager owns the cached verdict for one installation. Construct one per
// process and share it; all methods are safe for concurrent use.
type Manager struct {
	store     StateStore
	transport Transport
	now       func() time.Time
	interval  time.Duration
	logger    *slog.Logger

	mu        sync.Mutex
	state     State
	observers []Observer
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// WithCheckInterval replaces DefaultCheckInterval.
func WithCheckInterval(d time.Duration) ManagerOption {
	return func(m *Manager) { m.interval = d }
}

func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// WithObserver registers fn to run after every status change.
func WithObserver(fn Observer) ManagerOption {
	return func(m *Manager) { m.observers = append(m.observers, fn) }
}

// NewManager loads the cached state from store. A store that has never been
// written yields an invalid verdict.
func NewManager(ctx context.Context, store StateStore, transport Transport, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		store:     store,
		transport: transport,
		now:       time.Now,
		interval:  DefaultCheckInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}

	m.state = State{Status: StatusInvalid}
	if err := m.reload(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Activate sends rawKey to the authority and caches the verdict. The raw key
// is only hashed. When the authority cannot be reached the previous verdict
// is kept and ErrUnavailable is returned.
func (m *Manager) Activate(ctx context.Context, rawKey string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh(ctx)

	res := m.transport.Activate(ctx, rawKey)
	now := m.now().Unix()

	var callErr error
	next := m.state
	status, ok := verdict(res)
	switch {
	case ok:
		next.Status = status
		next.ExpiresAt = res.Expires()
		if status == StatusValid {
			next.KeyHash = cryptox.FingerprintKey(rawKey)
		}
	case res.Authoritative():
		callErr = fmt.Errorf("%w: %s", ErrUnrecognized, res.Status())
	default:
		callErr = fmt.Errorf("%w: %s", ErrUnavailable, res.Error)
		m.logger.Warn("license activation not answered, keeping cached verdict",
			"status_code", res.StatusCode, "error", res.Error)
	}
	next.LastCheck = now

	if err := m.commit(ctx, next); err != nil {
		return m.state, err
	}
	m.notify()
	return m.state, callErr
}

// Deactivate tells the authority to release this installation and marks the
// cache deactivated whatever the authority answers. rawKey may be empty.
func (m *Manager) Deactivate(ctx context.Context, rawKey string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh(ctx)

	res := m.transport.Deactivate(ctx, rawKey)
	if !res.OK {
		m.logger.Warn("license deactivation not confirmed", "status_code", res.StatusCode, "error", res.Error)
	}

	next := m.state
	next.Status = StatusDeactivated
	next.ExpiresAt = 0
	next.LastCheck = m.now().Unix()

	if err := m.commit(ctx, next); err != nil {
		return m.state, err
	}
	m.notify()
	return m.state, nil
}

// MaybeCheck re-validates with the authority at most once per check interval.
// It reports whether a remote call was made. last_check advances even when
// the call fails, so an unreachable authority is not retried on every call.
// The stored verdict is reloaded first, so a check made by another process
// sharing the store counts toward the interval.
func (m *Manager) MaybeCheck(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh(ctx)

	now := m.now()
	if now.Sub(time.Unix(m.state.LastCheck, 0)) < m.interval {
		return false, nil
	}

	res := m.transport.Status(ctx)
	next := m.state
	if status, ok := verdict(res); ok {
		next.Status = status
		next.ExpiresAt = res.Expires()
	} else {
		m.logger.Info("license status check not answered, keeping cached verdict",
			"status_code", res.StatusCode, "error", res.Error)
	}
	next.LastCheck = now.Unix()

	return true, m.commit(ctx, next)
}

// Reload replaces the cached verdict with the one in the store. Managers in
// different processes sharing a store converge on each Reload, Activate,
// Deactivate and MaybeCheck.
func (m *Manager) Reload(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reload(ctx)
}

func (m *Manager) reload(ctx context.Context) error {
	s, err := m.store.Load(ctx)
	switch {
	case errors.Is(err, ErrNoState):
		return nil
	case err != nil:
		return fmt.Errorf("load entitlement: %w", err)
	}
	if s.Status == "" {
		s.Status = StatusInvalid
	}
	m.state = s
	return nil
}

// refresh reloads before a read-modify-write. An unreadable store leaves the
// in-memory verdict in charge.
func (m *Manager) refresh(ctx context.Context) {
	if err := m.reload(ctx); err != nil {
		m.logger.Warn("stored entitlement unreadable, using cached verdict", "error", err)
	}
}

// IsPro reports whether the cached verdict entitles the installation now.
// It never calls the authority.
func (m *Manager) IsPro() bool {
	m.mu.Lock()
	s := m.state
	m.mu.Unlock()
	return s.IsPro(m.now())
}

// State returns a copy of the cached verdict.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// MaskedKey renders the stored key hash for display: the first six and last
// four characters around a mask. It is empty before any successful activation.
func (m *Manager) MaskedKey() string {
	m.mu.Lock()
	h := m.state.KeyHash
	m.mu.Unlock()

	if h == "" {
		return ""
	}
	if len(h) <= 10 {
		return "****"
	}
	return h[:6] + "****" + h[len(h)-4:]
}

// commit persists next and only then makes it the cached verdict, so a failed
// Save leaves IsPro and observers on the previous state.
func (m *Manager) commit(ctx context.Context, next State) error {
	if err := m.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save entitlement: %w", err)
	}
	m.state = next
	return nil
}

func (m *Manager) notify() {
	for _, fn := range m.observers {
		fn(m.state)
	}
}

// verdict extracts a cacheable status from an authority answer.
func verdict(res licensesdk.Result) (string, bool) {
	if !res.Authoritative() {
		return "", false
	}
	return foldStatus(res.Status())
}
