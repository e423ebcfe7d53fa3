// Package records owns the authoritative record set fetched from the
// remote collection endpoint.
//
// The store is the single owner of the fetched set; the view engines are
// pure read-only projections over its snapshots. A failed fetch never
// overwrites existing content, and a stale response (superseded by a newer
// Refresh or a cancelled context) is dropped rather than applied.
package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	clientdesk "github.com/bansur/clientdesk-go"
	"github.com/bansur/clientdesk-go/metrics"
)

// ErrStale reports that a fetch completed after a newer one had already
// been issued; its response was discarded.
var ErrStale = errors.New("clientdesk/records: fetch superseded by a newer refresh")

// Store holds the last successfully fetched record set.
type Store struct {
	source  clientdesk.RecordSource
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu         sync.Mutex
	records    []clientdesk.ClientRecord
	query      clientdesk.ListQuery
	lastErr    error
	fetchedAt  time.Time
	generation uint64
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// New creates a Store over the given source. The store starts empty; call
// Refresh to populate it.
func New(source clientdesk.RecordSource, opts ...Option) *Store {
	s := &Store{
		source:  source,
		logger:  slog.Default(),
		metrics: metrics.New(false),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SetQuery changes the server-side constraints used by subsequent
// refreshes. It does not itself trigger a fetch.
func (s *Store) SetQuery(q clientdesk.ListQuery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// Query returns the active server-side constraints.
func (s *Store) Query() clientdesk.ListQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Refresh fetches a fresh full record set from the source.
//
// Only the newest in-flight refresh may apply its result: an older fetch
// that resolves late returns ErrStale and leaves the store untouched. On
// any failure the previous content is kept and the error is retained for
// LastError, so the host can surface a retryable indicator.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	q := s.query
	s.mu.Unlock()

	start := time.Now()
	fetched, err := s.source.FetchRecords(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		// A newer refresh has been issued; whatever this one brought
		// back no longer reflects the active query.
		return ErrStale
	}

	if err != nil {
		s.lastErr = err
		s.logger.Error("record fetch failed; keeping previous content",
			"error", err, "records_held", len(s.records))
		s.metrics.RecordFetch("failure", time.Since(start).Seconds())
		return fmt.Errorf("clientdesk/records: %w", err)
	}

	s.records = fetched
	s.lastErr = nil
	s.fetchedAt = time.Now()
	s.metrics.RecordFetch("success", time.Since(start).Seconds())
	s.metrics.SetRecordsHeld(float64(len(fetched)))
	return nil
}

// Snapshot returns a copy of the current record set, preserving the
// remote service's ordering.
func (s *Store) Snapshot() []clientdesk.ClientRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]clientdesk.ClientRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records currently held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// LastError returns the error of the most recent failed refresh, or nil
// after a successful one. All fetch failures are recoverable by retry.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// FetchedAt returns the time of the last successful refresh, zero if none.
func (s *Store) FetchedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchedAt
}
