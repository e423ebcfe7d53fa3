// Package session owns the authentication session that gates which data
// and actions are available.
//
// A Manager is an explicit object constructed per host (never an ambient
// singleton) so independent instances can coexist in tests. It persists
// the token and user payload together in durable storage, rehydrates them
// on Restore, and fails closed: an expired or undecodable token is
// equivalent to no session, and clears the persisted values.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	clientdesk "github.com/bansur/clientdesk-go"
	"github.com/bansur/clientdesk-go/metrics"
	"github.com/bansur/clientdesk-go/storage"
)

// ErrNoSession is returned by operations that require an authenticated user.
var ErrNoSession = errors.New("clientdesk/session: no valid session")

// Manager owns the current session state.
type Manager struct {
	store   storage.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu      sync.RWMutex
	current *clientdesk.Session
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger sets a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(mx *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mx }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New creates a Manager over the given storage backend. The manager starts
// unauthenticated; call Restore to rehydrate a persisted session.
func New(store storage.Store, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		logger:  slog.Default(),
		metrics: metrics.New(false),
		now:     time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Restore rehydrates a persisted session from durable storage.
//
// A missing, expired or undecodable token leaves the manager
// unauthenticated and clears the persisted slots. Restore only returns an
// error when storage itself fails; a rejected session is not an error.
func (m *Manager) Restore(ctx context.Context) error {
	token, userRaw, err := m.store.Load(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("clientdesk/session: %w", err)
	}

	exp, err := tokenExpiry(token)
	if err != nil || !m.now().Before(exp) {
		m.logger.Info("discarding persisted session", "reason", restoreReason(err))
		m.metrics.RecordSessionEvent("expired")
		return m.discard(ctx)
	}

	var user clientdesk.User
	if err := json.Unmarshal(userRaw, &user); err != nil {
		m.logger.Warn("persisted user payload is unreadable", "error", err)
		return m.discard(ctx)
	}

	m.mu.Lock()
	m.current = &clientdesk.Session{User: user, Token: token, ExpiresAt: exp}
	m.mu.Unlock()

	m.metrics.RecordSessionEvent("restore")
	return nil
}

func restoreReason(err error) string {
	if err != nil {
		return "undecodable"
	}
	return "expired"
}

func (m *Manager) discard(ctx context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clientdesk/session: %w", err)
	}
	return nil
}

// Login records a successful remote authentication: it persists the user
// and token together and transitions to the authenticated state.
//
// The token must carry a future expiry; otherwise the login is rejected
// and no state changes.
func (m *Manager) Login(ctx context.Context, user clientdesk.User, token string) error {
	exp, err := tokenExpiry(token)
	if err != nil {
		return fmt.Errorf("clientdesk/session: %w", err)
	}
	if !m.now().Before(exp) {
		return fmt.Errorf("clientdesk/session: token already expired")
	}

	userRaw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("clientdesk/session: encode user: %w", err)
	}
	if err := m.store.Save(ctx, token, userRaw); err != nil {
		return fmt.Errorf("clientdesk/session: %w", err)
	}

	m.mu.Lock()
	m.current = &clientdesk.Session{User: user, Token: token, ExpiresAt: exp}
	m.mu.Unlock()

	m.metrics.RecordSessionEvent("login")
	return nil
}

// Logout clears the persisted values and transitions to unauthenticated.
// Idempotent; callable at any time.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clientdesk/session: %w", err)
	}
	m.metrics.RecordSessionEvent("logout")
	return nil
}

// Current returns the session if one exists and has not expired at the
// time of the call. Expiry is only detected at such explicit re-checks;
// there is no background renewal.
func (m *Manager) Current() (clientdesk.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil || !m.current.Valid(m.now()) {
		return clientdesk.Session{}, false
	}
	return *m.current, true
}

// Authenticated reports whether a valid session exists.
func (m *Manager) Authenticated() bool {
	_, ok := m.Current()
	return ok
}

// User returns the current user, or ErrNoSession.
func (m *Manager) User() (clientdesk.User, error) {
	s, ok := m.Current()
	if !ok {
		return clientdesk.User{}, ErrNoSession
	}
	return s.User, nil
}

// HasRole reports whether the current user's role is a member of the given
// set. It is false whenever there is no valid session and false for an
// empty set — never default-allow.
func (m *Manager) HasRole(roles ...clientdesk.RoleID) bool {
	s, ok := m.Current()
	if !ok {
		return false
	}
	for _, r := range roles {
		if s.User.Role == r {
			return true
		}
	}
	return false
}
