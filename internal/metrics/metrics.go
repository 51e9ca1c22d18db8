// Package metrics exposes prometheus instrumentation for the
// serviceability engine and the zone catalog.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Check outcomes used as metric labels
const (
	OutcomeInService    = "in_service"
	OutcomeNotInService = "not_in_service"
	OutcomeOutOfRange   = "out_of_range"
	OutcomeInvalid      = "invalid_coordinate"
	OutcomeCached       = "cached"
)

// Metrics holds the serviceability instrument set on a dedicated registry
type Metrics struct {
	registry      *prometheus.Registry
	checksTotal   *prometheus.CounterVec
	checkDuration prometheus.Histogram
	activeZones   prometheus.Gauge
}

// New creates and registers the instrument set
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "serviceability_checks_total",
			Help: "Serviceability checks by outcome",
		}, []string{"outcome"}),
		checkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "serviceability_check_duration_seconds",
			Help:    "Latency of serviceability checks",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		activeZones: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_active_zones",
			Help: "Zones currently eligible for serviceability queries",
		}),
	}
	m.registry.MustRegister(m.checksTotal, m.checkDuration, m.activeZones)
	return m
}

// ObserveCheck records one check with its outcome and duration
func (m *Metrics) ObserveCheck(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.checksTotal.WithLabelValues(outcome).Inc()
	m.checkDuration.Observe(d.Seconds())
}

// SetActiveZones updates the active-zone gauge
func (m *Metrics) SetActiveZones(n int) {
	if m == nil {
		return
	}
	m.activeZones.Set(float64(n))
}

// Handler serves the registry in prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
