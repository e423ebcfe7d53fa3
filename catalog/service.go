// Package catalog provides access to the lifecycle catalog.
//
// The catalog is deployment-specific, fetched from the remote service and
// treated as opaque data: ids and labels are never hard-coded anywhere in
// this module. Labels exist for the user interface; every internal
// comparison uses the id.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	clientdesk "github.com/bansur/clientdesk-go"
	"github.com/bansur/clientdesk-go/metrics"
)

// DefaultTTL is how long a fetched catalog is served from cache.
const DefaultTTL = 5 * time.Minute

// Service lazily fetches and caches the lifecycle catalog.
type Service struct {
	source  clientdesk.CatalogSource
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu        sync.Mutex
	entries   []clientdesk.CatalogEntry
	fetchedAt time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithTTL sets the cache lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service over the given source.
func New(source clientdesk.CatalogSource, opts ...Option) *Service {
	s := &Service{
		source:  source,
		ttl:     DefaultTTL,
		logger:  slog.Default(),
		metrics: metrics.New(false),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Entries returns the catalog, fetching it on first use and whenever the
// cached copy has outlived the TTL.
func (s *Service) Entries(ctx context.Context) ([]clientdesk.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries != nil && s.now().Sub(s.fetchedAt) < s.ttl {
		s.metrics.RecordCatalogHit()
		out := make([]clientdesk.CatalogEntry, len(s.entries))
		copy(out, s.entries)
		return out, nil
	}

	s.metrics.RecordCatalogMiss()
	fetched, err := s.source.FetchCatalog(ctx)
	if err != nil {
		// Serve the stale copy if one exists; the catalog changes rarely
		// and a fetch failure should not take down the whole view.
		if s.entries != nil {
			s.logger.Warn("catalog refresh failed; serving cached copy", "error", err)
			out := make([]clientdesk.CatalogEntry, len(s.entries))
			copy(out, s.entries)
			return out, nil
		}
		return nil, fmt.Errorf("clientdesk/catalog: %w", err)
	}

	s.entries = fetched
	s.fetchedAt = s.now()
	out := make([]clientdesk.CatalogEntry, len(fetched))
	copy(out, fetched)
	return out, nil
}

// Invalidate drops the cached catalog so the next Entries call refetches.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.fetchedAt = time.Time{}
}

// LabelFor resolves a state id to its label. The second result is false
// for ids not present in the catalog; callers render those as unassigned
// rather than failing.
func (s *Service) LabelFor(ctx context.Context, id int) (string, bool, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return "", false, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e.Label, true, nil
		}
	}
	return "", false, nil
}

// IDsForLabel returns every catalog id carrying the given label, in
// catalog order. Labels are not guaranteed unique.
func (s *Service) IDsForLabel(ctx context.Context, label string) ([]int, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	var ids []int
	for _, e := range entries {
		if e.Label == label {
			ids = append(ids, e.ID)
		}
	}
	return ids, nil
}

// IDForLabel resolves a user-selected label to a state id — the first
// catalog occurrence when the label is duplicated, with a logged warning.
// The second result is false when no entry carries the label.
func (s *Service) IDForLabel(ctx context.Context, label string) (int, bool, error) {
	ids, err := s.IDsForLabel(ctx, label)
	if err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	if len(ids) > 1 {
		s.logger.Warn("catalog label is ambiguous; using first occurrence",
			"label", label, "matches", len(ids))
	}
	return ids[0], true, nil
}
