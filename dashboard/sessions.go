package dashboard

import (
	"context"
	"errors"
	"fmt"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Manager owns every live view session.
type Manager struct {
	deps Deps
	ctx  context.Context

	mu       sync.RWMutex
	sessions map[string]*Dashboard

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy

	hooks Hooks
	max   int
}

// ErrTooManySessions is returned by Create once the session cap is reached.
var ErrTooManySessions = errors.New("too many sessions")

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithMaxSessions caps the number of live sessions. n <= 0 means no cap.
func WithMaxSessions(n int) ManagerOption {
	return func(m *Manager) { m.max = n }
}

// Hooks are optional callbacks run outside the manager lock.
type Hooks struct {
	Count  func(n int)     // live session count after every change
	Closed func(id string) // after a session is disposed or reaped
}

// NewManager returns a manager whose dashboards stop ticking when ctx ends.
func NewManager(ctx context.Context, deps Deps, hooks Hooks, opts ...ManagerOption) *Manager {
	m := &Manager{
		deps:     deps.withDefaults(),
		ctx:      ctx,
		sessions: make(map[string]*Dashboard),
		entropy:  ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0),
		hooks:    hooks,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) newID() string {
	m.entropyMu.Lock()
	defer m.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(m.deps.Now()), m.entropy).String()
}

// Create starts a new session. It returns ErrClosed once the manager's
// context has ended and ErrTooManySessions when the cap is reached.
func (m *Manager) Create() (*Dashboard, error) {
	m.mu.Lock()
	if m.ctx.Err() != nil {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	if m.max > 0 && len(m.sessions) >= m.max {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: limit %d", ErrTooManySessions, m.max)
	}
	d := New(m.ctx, m.newID(), m.deps)
	m.sessions[d.ID()] = d
	n := len(m.sessions)
	m.mu.Unlock()

	m.deps.Logger.Info("session created", zap.String("session", d.ID()))
	m.count(n)
	return d, nil
}

// Get returns the open session id and marks it used.
func (m *Manager) Get(id string) (*Dashboard, error) {
	m.mu.RLock()
	d, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	d.Touch()
	return d, nil
}

// Close disposes one session and stops its ticker.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	d, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	d.Close()
	m.deps.Logger.Info("session closed", zap.String("session", id))
	m.closed(id)
	m.count(n)
	return nil
}

// Reap closes sessions idle for longer than idle and returns how many.
func (m *Manager) Reap(idle time.Duration) int {
	cutoff := m.deps.Now().Add(-idle)
	var stale []*Dashboard

	m.mu.Lock()
	for id, d := range m.sessions {
		if d.LastSeen().Before(cutoff) {
			stale = append(stale, d)
			delete(m.sessions, id)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	for _, d := range stale {
		d.Close()
		m.deps.Logger.Debug("session reaped", zap.String("session", d.ID()))
		m.closed(d.ID())
	}
	if len(stale) > 0 {
		m.count(n)
	}
	return len(stale)
}

// RunReaper reaps every interval until ctx ends. It blocks.
func (m *Manager) RunReaper(ctx context.Context, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Reap(idle)
		}
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CloseAll disposes every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Dashboard)
	m.mu.Unlock()

	for id, d := range all {
		d.Close()
		m.closed(id)
	}
	m.count(0)
}

func (m *Manager) count(n int) {
	if m.hooks.Count != nil {
		m.hooks.Count(n)
	}
}

func (m *Manager) closed(id string) {
	if m.hooks.Closed != nil {
		m.hooks.Closed(id)
	}
}
