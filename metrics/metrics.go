// Package metrics provides Prometheus metrics for clientdesk operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for clientdesk operations.
type Metrics struct {
	enabled bool

	// Collection fetch metrics
	fetchTotal    *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	recordsHeld   prometheus.Gauge

	// Lifecycle mutation metrics
	mutationsTotal *prometheus.CounterVec

	// Session metrics
	sessionEventsTotal *prometheus.CounterVec

	// Catalog cache metrics
	catalogHitsTotal   prometheus.Counter
	catalogMissesTotal prometheus.Counter
}

// New creates and registers Prometheus metrics.
// If enabled is false, returns a no-op Metrics instance.
func New(enabled bool) *Metrics {
	m := &Metrics{enabled: enabled}

	if !enabled {
		return m
	}

	m.fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clientdesk_record_fetches_total",
		Help: "Total record collection fetches",
	}, []string{"result"})

	m.fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "clientdesk_record_fetch_duration_seconds",
		Help:    "Record collection fetch duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	m.recordsHeld = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "clientdesk_records_held",
		Help: "Number of records currently held by the record store",
	})

	m.mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clientdesk_lifecycle_mutations_total",
		Help: "Total lifecycle state mutations",
	}, []string{"result"})

	m.sessionEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clientdesk_session_events_total",
		Help: "Session lifecycle events (login, logout, restore, expired)",
	}, []string{"event"})

	m.catalogHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clientdesk_catalog_cache_hits_total",
		Help: "Total lifecycle catalog cache hits",
	})

	m.catalogMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clientdesk_catalog_cache_misses_total",
		Help: "Total lifecycle catalog cache misses",
	})

	return m
}

// RecordFetch records the outcome and duration of a collection fetch.
func (m *Metrics) RecordFetch(result string, durationSeconds float64) {
	if !m.enabled {
		return
	}
	m.fetchTotal.WithLabelValues(result).Inc()
	m.fetchDuration.Observe(durationSeconds)
}

// SetRecordsHeld sets the current record store size.
func (m *Metrics) SetRecordsHeld(n float64) {
	if !m.enabled {
		return
	}
	m.recordsHeld.Set(n)
}

// RecordMutation records a lifecycle mutation outcome.
func (m *Metrics) RecordMutation(result string) {
	if !m.enabled {
		return
	}
	m.mutationsTotal.WithLabelValues(result).Inc()
}

// RecordSessionEvent records a session lifecycle event.
func (m *Metrics) RecordSessionEvent(event string) {
	if !m.enabled {
		return
	}
	m.sessionEventsTotal.WithLabelValues(event).Inc()
}

// RecordCatalogHit records a catalog cache hit.
func (m *Metrics) RecordCatalogHit() {
	if !m.enabled {
		return
	}
	m.catalogHitsTotal.Inc()
}

// RecordCatalogMiss records a catalog cache miss.
func (m *Metrics) RecordCatalogMiss() {
	if !m.enabled {
		return
	}
	m.catalogMissesTotal.Inc()
}
