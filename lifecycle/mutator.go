// Package lifecycle owns record state transitions against the remote
// mutation endpoint.
//
// Mutations are never applied locally: a successful transition closes the
// dialog and triggers a fresh full fetch of the record store, so the
// rendered state always reflects server truth. A failed transition leaves
// everything untouched and keeps the dialog open for retry.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	clientdesk "github.com/bansur/clientdesk-go"
	"github.com/bansur/clientdesk-go/catalog"
	"github.com/bansur/clientdesk-go/metrics"
)

var (
	// ErrNotOpen is returned when confirming or selecting on a dialog
	// that is not in the open state.
	ErrNotOpen = errors.New("clientdesk/lifecycle: dialog is not open")

	// ErrInFlight is returned when a dialog already has a mutation in
	// flight. Only one mutation per record runs at a time per dialog.
	ErrInFlight = errors.New("clientdesk/lifecycle: mutation already in flight")

	// ErrUnknownState is returned when selecting a state id that is not
	// in the lifecycle catalog.
	ErrUnknownState = errors.New("clientdesk/lifecycle: state id not in catalog")
)

// DialogState is the state of one transition dialog.
type DialogState int

const (
	StateClosed DialogState = iota
	StateOpen
	StateSubmitting
)

// Refresher triggers a record store refresh after a successful mutation.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type noopNotifier struct{}

func (noopNotifier) Success(string) {}
func (noopNotifier) Failure(string) {}

// Mutator owns the per-record transition dialogs. The rendering layer
// invokes it by record id; dialog state never lives in rendering code.
type Mutator struct {
	backend  clientdesk.MutationBackend
	catalog  *catalog.Service
	store    Refresher
	notifier clientdesk.Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics

	mu      sync.Mutex
	dialogs map[int]*Dialog
}

// Option configures the Mutator.
type Option func(*Mutator)

// WithNotifier sets the user-visible notification sink.
func WithNotifier(n clientdesk.Notifier) Option {
	return func(m *Mutator) { m.notifier = n }
}

// WithLogger sets a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mutator) { m.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(mx *metrics.Metrics) Option {
	return func(m *Mutator) { m.metrics = mx }
}

// New creates a Mutator.
func New(backend clientdesk.MutationBackend, cat *catalog.Service, store Refresher, opts ...Option) *Mutator {
	m := &Mutator{
		backend:  backend,
		catalog:  cat,
		store:    store,
		notifier: noopNotifier{},
		logger:   slog.Default(),
		metrics:  metrics.New(false),
		dialogs:  make(map[int]*Dialog),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Open opens (or returns the already-open) transition dialog for the
// record, lazily fetching the catalog and preselecting the record's
// current state id.
func (m *Mutator) Open(ctx context.Context, rec clientdesk.ClientRecord) (*Dialog, error) {
	choices, err := m.catalog.Entries(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	d, ok := m.dialogs[rec.ID]
	if !ok {
		d = &Dialog{m: m, recordID: rec.ID}
		m.dialogs[rec.ID] = d
	}
	m.mu.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateSubmitting {
		return nil, ErrInFlight
	}
	d.state = StateOpen
	d.choices = choices
	d.lastErr = nil
	if rec.State != nil {
		d.selected = rec.State.ID
		d.hasSelection = true
	} else {
		d.selected = 0
		d.hasSelection = false
	}
	return d, nil
}

// Dialog returns the dialog for a record id, if one exists.
func (m *Mutator) Dialog(recordID int) (*Dialog, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.dialogs[recordID]
	return d, ok
}

// Delete removes a record at the remote service, then refreshes the store.
func (m *Mutator) Delete(ctx context.Context, recordID int) error {
	if err := m.backend.DeleteRecord(ctx, recordID); err != nil {
		m.notifier.Failure("could not delete the record")
		m.metrics.RecordMutation("delete_failure")
		return fmt.Errorf("clientdesk/lifecycle: %w", err)
	}
	m.notifier.Success("record deleted")
	m.metrics.RecordMutation("delete_success")
	m.refresh(ctx)
	return nil
}

// Update replaces a record's mutable fields at the remote service, then
// refreshes the store.
func (m *Mutator) Update(ctx context.Context, rec clientdesk.ClientRecord) error {
	if err := m.backend.UpdateRecord(ctx, rec); err != nil {
		m.notifier.Failure("could not update the record")
		m.metrics.RecordMutation("update_failure")
		return fmt.Errorf("clientdesk/lifecycle: %w", err)
	}
	m.notifier.Success("record updated")
	m.metrics.RecordMutation("update_success")
	m.refresh(ctx)
	return nil
}

// refresh re-fetches the store after a successful mutation. It runs only
// after the mutation response has resolved, never concurrently with it.
// A refresh failure is recoverable by retry and is surfaced through the
// store's own error state, not as a mutation failure.
func (m *Mutator) refresh(ctx context.Context) {
	if err := m.store.Refresh(ctx); err != nil {
		m.logger.Warn("post-mutation refresh failed", "error", err)
	}
}

// Dialog is the state-transition dialog of one record.
type Dialog struct {
	m        *Mutator
	recordID int

	mu           sync.Mutex
	state        DialogState
	choices      []clientdesk.CatalogEntry
	selected     int
	hasSelection bool
	lastErr      error
}

// RecordID returns the record this dialog mutates.
func (d *Dialog) RecordID() int { return d.recordID }

// State returns the dialog's current state.
func (d *Dialog) State() DialogState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Choices returns the catalog entries offered by the dialog.
func (d *Dialog) Choices() []clientdesk.CatalogEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]clientdesk.CatalogEntry, len(d.choices))
	copy(out, d.choices)
	return out
}

// Selected returns the currently selected state id; false when the record
// had no state and nothing has been selected yet.
func (d *Dialog) Selected() (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selected, d.hasSelection
}

// LastError returns the error of the most recent failed confirmation.
func (d *Dialog) LastError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// Select chooses the target state. The id must be one of the dialog's
// catalog choices and the dialog must be open.
func (d *Dialog) Select(stateID int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateOpen {
		return ErrNotOpen
	}
	for _, e := range d.choices {
		if e.ID == stateID {
			d.selected = stateID
			d.hasSelection = true
			return nil
		}
	}
	return ErrUnknownState
}

// Cancel closes the dialog without mutating anything. A submitting dialog
// cannot be cancelled; its outcome decides the next state.
func (d *Dialog) Cancel() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateSubmitting {
		return ErrInFlight
	}
	d.state = StateClosed
	return nil
}

// Confirm issues the remote mutation carrying only the selected state id.
//
// On success the dialog closes, a success notification is emitted, and
// the record store is refreshed with a fresh full fetch. On failure the
// dialog stays open for retry, a failure notification is emitted, and no
// state changes anywhere — no optimistic update was made, so there is
// nothing to roll back.
func (d *Dialog) Confirm(ctx context.Context) error {
	d.mu.Lock()
	switch d.state {
	case StateSubmitting:
		d.mu.Unlock()
		return ErrInFlight
	case StateClosed:
		d.mu.Unlock()
		return ErrNotOpen
	}
	if !d.hasSelection {
		d.mu.Unlock()
		return ErrUnknownState
	}
	stateID := d.selected
	d.state = StateSubmitting
	d.mu.Unlock()

	err := d.m.backend.SetState(ctx, d.recordID, stateID)

	d.mu.Lock()
	if err != nil {
		d.state = StateOpen
		d.lastErr = err
		d.mu.Unlock()
		d.m.notifier.Failure("could not change the record state")
		d.m.metrics.RecordMutation("failure")
		return fmt.Errorf("clientdesk/lifecycle: %w", err)
	}
	d.state = StateClosed
	d.lastErr = nil
	d.mu.Unlock()

	d.m.notifier.Success("record state updated")
	d.m.metrics.RecordMutation("success")
	d.m.refresh(ctx)
	return nil
}
