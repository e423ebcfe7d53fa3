// Package desk composes the clientdesk engines into one host-facing
// object.
//
// A Desk owns the session manager, the record store, the view table, the
// catalog service and the lifecycle mutator, wired together from injected
// remote backends. Hosts construct one Desk per embedding (never a shared
// singleton) and drive it from their own rendering layer.
//
// Example usage with the REST backends:
//
//	rc, err := rest.New(cfg.BaseURL)
//	...
//	d, err := desk.New(cfg,
//	    desk.WithRecordSource(rc),
//	    desk.WithCatalogSource(rc),
//	    desk.WithMutationBackend(rc),
//	    desk.WithAuthBackend(rc),
//	)
package desk

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	clientdesk "github.com/bansur/clientdesk-go"
	"github.com/bansur/clientdesk-go/agents"
	"github.com/bansur/clientdesk-go/catalog"
	"github.com/bansur/clientdesk-go/lifecycle"
	"github.com/bansur/clientdesk-go/metrics"
	"github.com/bansur/clientdesk-go/records"
	"github.com/bansur/clientdesk-go/session"
	"github.com/bansur/clientdesk-go/storage"
	"github.com/bansur/clientdesk-go/view"
)

// Desk is the composed client-records module.
type Desk struct {
	cfg      clientdesk.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	notifier clientdesk.Notifier
	columns  []clientdesk.ColumnDescriptor

	recordSource  clientdesk.RecordSource
	catalogSource clientdesk.CatalogSource
	agentSource   clientdesk.AgentSource
	mutations     clientdesk.MutationBackend
	auth          clientdesk.AuthBackend
	store         storage.Store

	session *session.Manager
	records *records.Store
	catalog *catalog.Service
	agents  *agents.Directory
	mutator *lifecycle.Mutator
	table   *view.Table
}

// Option configures the Desk.
type Option func(*Desk)

// WithRecordSource sets the record collection backend.
func WithRecordSource(s clientdesk.RecordSource) Option {
	return func(d *Desk) { d.recordSource = s }
}

// WithCatalogSource sets the lifecycle catalog backend.
func WithCatalogSource(s clientdesk.CatalogSource) Option {
	return func(d *Desk) { d.catalogSource = s }
}

// WithAgentSource sets the agent directory backend. Optional.
func WithAgentSource(s clientdesk.AgentSource) Option {
	return func(d *Desk) { d.agentSource = s }
}

// WithMutationBackend sets the record mutation backend.
func WithMutationBackend(b clientdesk.MutationBackend) Option {
	return func(d *Desk) { d.mutations = b }
}

// WithAuthBackend sets the remote authentication backend. Optional; a
// desk without one can still Restore a persisted session.
func WithAuthBackend(b clientdesk.AuthBackend) Option {
	return func(d *Desk) { d.auth = b }
}

// WithStorage sets the durable session storage. The default follows
// Config.StoragePath: SQLite when set, in-memory otherwise.
func WithStorage(s storage.Store) Option {
	return func(d *Desk) { d.store = s }
}

// WithNotifier sets the user-visible notification sink.
func WithNotifier(n clientdesk.Notifier) Option {
	return func(d *Desk) { d.notifier = n }
}

// WithLogger sets a structured logger for all components.
func WithLogger(l *slog.Logger) Option {
	return func(d *Desk) { d.logger = l }
}

// WithColumns sets the host's column schema. Default: view.DefaultColumns.
func WithColumns(cols []clientdesk.ColumnDescriptor) Option {
	return func(d *Desk) { d.columns = cols }
}

// WithClock overrides the time source of every component. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Desk) { d.now = now }
}

// New creates a Desk from the given configuration and injected backends.
// Record, catalog and mutation backends are required.
func New(cfg clientdesk.Config, opts ...Option) (*Desk, error) {
	d := &Desk{
		cfg:    cfg,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(d)
	}

	if d.recordSource == nil {
		return nil, fmt.Errorf("clientdesk/desk: a record source is required")
	}
	if d.catalogSource == nil {
		return nil, fmt.Errorf("clientdesk/desk: a catalog source is required")
	}
	if d.mutations == nil {
		return nil, fmt.Errorf("clientdesk/desk: a mutation backend is required")
	}

	d.metrics = metrics.New(cfg.MetricsEnabled)

	if d.store == nil {
		if cfg.StoragePath != "" {
			s, err := storage.NewSQLite(cfg.StoragePath)
			if err != nil {
				return nil, err
			}
			d.store = s
		} else {
			d.store = storage.NewMemory()
		}
	}

	if d.columns == nil {
		d.columns = view.DefaultColumns()
	}

	pageSize := cfg.PageSize
	if pageSize < 1 {
		pageSize = view.DefaultPageSize
	}

	d.session = session.New(d.store,
		session.WithLogger(d.logger),
		session.WithMetrics(d.metrics),
		session.WithClock(d.now))
	d.records = records.New(d.recordSource,
		records.WithLogger(d.logger),
		records.WithMetrics(d.metrics))
	d.catalog = catalog.New(d.catalogSource,
		catalog.WithTTL(cfg.CatalogTTL),
		catalog.WithLogger(d.logger),
		catalog.WithMetrics(d.metrics),
		catalog.WithClock(d.now))
	if d.agentSource != nil {
		d.agents = agents.New(d.agentSource, agents.WithTTL(cfg.CatalogTTL))
	}

	mutatorOpts := []lifecycle.Option{
		lifecycle.WithLogger(d.logger),
		lifecycle.WithMetrics(d.metrics),
	}
	if d.notifier != nil {
		mutatorOpts = append(mutatorOpts, lifecycle.WithNotifier(d.notifier))
	}
	d.mutator = lifecycle.New(d.mutations, d.catalog, d.records, mutatorOpts...)

	d.table = view.NewTable(d.columns,
		view.WithPageSize(pageSize),
		view.WithTableClock(d.now))

	return d, nil
}

// Session returns the session manager.
func (d *Desk) Session() *session.Manager { return d.session }

// Records returns the record store.
func (d *Desk) Records() *records.Store { return d.records }

// Catalog returns the lifecycle catalog service.
func (d *Desk) Catalog() *catalog.Service { return d.catalog }

// Agents returns the agent directory, nil when no agent source was injected.
func (d *Desk) Agents() *agents.Directory { return d.agents }

// Mutator returns the lifecycle state transition mutator.
func (d *Desk) Mutator() *lifecycle.Mutator { return d.mutator }

// Table returns the composed view table.
func (d *Desk) Table() *view.Table { return d.table }

// Restore rehydrates a persisted session. See session.Manager.Restore.
func (d *Desk) Restore(ctx context.Context) error {
	return d.session.Restore(ctx)
}

// Login authenticates against the remote service and records the result
// in the session.
func (d *Desk) Login(ctx context.Context, email, password string) error {
	if d.auth == nil {
		return fmt.Errorf("clientdesk/desk: no auth backend configured")
	}
	user, token, err := d.auth.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("clientdesk/desk: %w", err)
	}
	return d.session.Login(ctx, *user, token)
}

// Logout clears the session. Idempotent.
func (d *Desk) Logout(ctx context.Context) error {
	return d.session.Logout(ctx)
}

// Scope applies role-based constraints to a collection query: users in an
// agent-scoped role only ever browse their own records. Roles outside the
// configured set, and unauthenticated callers, pass the query through.
func (d *Desk) Scope(q clientdesk.ListQuery) clientdesk.ListQuery {
	user, err := d.session.User()
	if err != nil {
		return q
	}
	for _, role := range d.cfg.AgentScopedRoles {
		if user.Role == clientdesk.RoleID(role) {
			q.AgentID = user.ID
			break
		}
	}
	return q
}

// Refresh applies role scoping to the store's query and fetches a fresh
// record set.
func (d *Desk) Refresh(ctx context.Context) error {
	d.records.SetQuery(d.Scope(d.records.Query()))
	return d.records.Refresh(ctx)
}

// Render refreshes nothing; it projects the store's current snapshot
// through the view table.
func (d *Desk) Render() view.Page {
	return d.table.Render(d.records.Snapshot())
}

// Close releases all resources: the storage backend and any injected
// backend implementing io.Closer.
func (d *Desk) Close() error {
	var firstErr error
	closers := []any{d.store, d.recordSource, d.catalogSource, d.agentSource, d.mutations, d.auth}
	for _, c := range closers {
		if cl, ok := c.(io.Closer); ok && cl != nil {
			if err := cl.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
