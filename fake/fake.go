// Package fake provides in-memory implementations of all clientdesk
// interfaces for testing.
//
// Use fake.NewDesk() in unit tests to avoid network calls and external
// dependencies; the fake backends simulate the remote service, including
// role-constrained collection queries and server-side state transitions.
package fake

import (
	"context"
	"errors"
	"sync"

	clientdesk "github.com/bansur/clientdesk-go"
	"github.com/bansur/clientdesk-go/desk"
	"github.com/bansur/clientdesk-go/storage"
)

// ErrUnavailable is what failing fake backends return.
var ErrUnavailable = errors.New("fake: backend unavailable")

// Option configures the fake backends.
type Option func(*state)

type credential struct {
	password string
	user     clientdesk.User
	token    string
}

type state struct {
	mu           sync.RWMutex
	records      []clientdesk.ClientRecord
	catalog      []clientdesk.CatalogEntry
	agents       []clientdesk.AgentRef
	creds        map[string]credential
	failFetches  bool
	failMutation bool
}

// WithRecords seeds the fake record collection.
func WithRecords(recs ...clientdesk.ClientRecord) Option {
	return func(s *state) { s.records = append(s.records, recs...) }
}

// WithCatalog seeds the fake lifecycle catalog.
func WithCatalog(entries ...clientdesk.CatalogEntry) Option {
	return func(s *state) { s.catalog = append(s.catalog, entries...) }
}

// WithAgents seeds the fake agent directory.
func WithAgents(ags ...clientdesk.AgentRef) Option {
	return func(s *state) { s.agents = append(s.agents, ags...) }
}

// WithCredential registers a login credential and its resulting user and token.
func WithCredential(email, password string, user clientdesk.User, token string) Option {
	return func(s *state) {
		s.creds[email] = credential{password: password, user: user, token: token}
	}
}

// FailingFetches makes every read backend return ErrUnavailable.
func FailingFetches() Option {
	return func(s *state) { s.failFetches = true }
}

// FailingMutations makes every mutation return ErrUnavailable.
func FailingMutations() Option {
	return func(s *state) { s.failMutation = true }
}

// Backends bundles the fake implementations of every remote interface.
type Backends struct {
	s *state

	Records   clientdesk.RecordSource
	Catalog   clientdesk.CatalogSource
	Agents    clientdesk.AgentSource
	Mutations clientdesk.MutationBackend
	Auth      clientdesk.AuthBackend
}

// NewBackends creates the fake backends.
func NewBackends(opts ...Option) *Backends {
	s := &state{creds: make(map[string]credential)}
	for _, o := range opts {
		o(s)
	}
	return &Backends{
		s:         s,
		Records:   &recordSource{s: s},
		Catalog:   &catalogSource{s: s},
		Agents:    &agentSource{s: s},
		Mutations: &mutationBackend{s: s},
		Auth:      &authBackend{s: s},
	}
}

// SetRecords replaces the fake record collection, simulating server-side
// changes between fetches.
func (b *Backends) SetRecords(recs ...clientdesk.ClientRecord) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	b.s.records = append([]clientdesk.ClientRecord(nil), recs...)
}

// Record returns the stored record with the given id.
func (b *Backends) Record(id int) (clientdesk.ClientRecord, bool) {
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()
	for _, r := range b.s.records {
		if r.ID == id {
			return r, true
		}
	}
	return clientdesk.ClientRecord{}, false
}

// NewDesk wires the fake backends into a ready Desk with in-memory
// storage and a collecting notifier.
func NewDesk(cfg clientdesk.Config, opts ...Option) (*desk.Desk, *Backends, *Notifier, error) {
	return NewDeskWithStorage(cfg, storage.NewMemory(), opts...)
}

// NewDeskWithStorage is NewDesk over caller-supplied session storage,
// letting tests share one store across desk instances.
func NewDeskWithStorage(cfg clientdesk.Config, store storage.Store, opts ...Option) (*desk.Desk, *Backends, *Notifier, error) {
	b := NewBackends(opts...)
	n := &Notifier{}
	d, err := desk.New(cfg,
		desk.WithRecordSource(b.Records),
		desk.WithCatalogSource(b.Catalog),
		desk.WithAgentSource(b.Agents),
		desk.WithMutationBackend(b.Mutations),
		desk.WithAuthBackend(b.Auth),
		desk.WithStorage(store),
		desk.WithNotifier(n),
	)
	if err != nil {
		return nil, nil, nil, err
	}
	return d, b, n, nil
}

type recordSource struct{ s *state }

func (r *recordSource) FetchRecords(ctx context.Context, q clientdesk.ListQuery) ([]clientdesk.ClientRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.failFetches {
		return nil, ErrUnavailable
	}
	var out []clientdesk.ClientRecord
	for _, rec := range r.s.records {
		if q.AgentID != 0 && (rec.Agent == nil || rec.Agent.ID != q.AgentID) {
			continue
		}
		if len(q.StateIDs) > 0 && !stateMatches(rec, q.StateIDs) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func stateMatches(rec clientdesk.ClientRecord, ids []int) bool {
	if rec.State == nil {
		return false
	}
	for _, id := range ids {
		if rec.State.ID == id {
			return true
		}
	}
	return false
}

type catalogSource struct{ s *state }

func (c *catalogSource) FetchCatalog(ctx context.Context) ([]clientdesk.CatalogEntry, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	if c.s.failFetches {
		return nil, ErrUnavailable
	}
	return append([]clientdesk.CatalogEntry(nil), c.s.catalog...), nil
}

type agentSource struct{ s *state }

func (a *agentSource) FetchAgents(ctx context.Context) ([]clientdesk.AgentRef, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	if a.s.failFetches {
		return nil, ErrUnavailable
	}
	return append([]clientdesk.AgentRef(nil), a.s.agents...), nil
}

type mutationBackend struct{ s *state }

// SetState simulates the server: it resolves the catalog entry and
// replaces the stored record's state reference.
func (m *mutationBackend) SetState(ctx context.Context, recordID, stateID int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failMutation {
		return ErrUnavailable
	}
	var label string
	for _, e := range m.s.catalog {
		if e.ID == stateID {
			label = e.Label
			break
		}
	}
	for i := range m.s.records {
		if m.s.records[i].ID == recordID {
			m.s.records[i].State = &clientdesk.StateRef{ID: stateID, Label: label}
			return nil
		}
	}
	return errors.New("fake: record not found")
}

func (m *mutationBackend) UpdateRecord(ctx context.Context, rec clientdesk.ClientRecord) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failMutation {
		return ErrUnavailable
	}
	for i := range m.s.records {
		if m.s.records[i].ID == rec.ID {
			m.s.records[i] = rec
			return nil
		}
	}
	return errors.New("fake: record not found")
}

func (m *mutationBackend) DeleteRecord(ctx context.Context, recordID int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failMutation {
		return ErrUnavailable
	}
	for i := range m.s.records {
		if m.s.records[i].ID == recordID {
			m.s.records = append(m.s.records[:i], m.s.records[i+1:]...)
			return nil
		}
	}
	return errors.New("fake: record not found")
}

type authBackend struct{ s *state }

func (a *authBackend) Login(ctx context.Context, email, password string) (*clientdesk.User, string, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	cred, ok := a.s.creds[email]
	if !ok || cred.password != password {
		return nil, "", errors.New("fake: invalid credentials")
	}
	user := cred.user
	return &user, cred.token, nil
}

// Notifier collects notifications for assertions.
type Notifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *Notifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *Notifier) Failure(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, msg)
}

// Successes returns the success notifications emitted so far.
func (n *Notifier) Successes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.successes...)
}

// Failures returns the failure notifications emitted so far.
func (n *Notifier) Failures() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.failures...)
}
