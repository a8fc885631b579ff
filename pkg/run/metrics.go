package run

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/go-drift/ravel/pkg/errors"
)

// MetricsConfig configures metrics collection for run loops.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected. A disabled config
	// yields a Metrics whose methods do nothing.
	Enabled bool

	// Namespace is the metrics namespace prefix (e.g. "ravel").
	Namespace string

	// Buckets overrides the histogram buckets. Defaults to
	// prometheus.DefBuckets.
	Buckets []float64

	// Registerer receives the collectors. When nil a private registry is
	// created and served by Handler.
	Registerer prometheus.Registerer
}

// Metrics provides Prometheus metrics for run loops. One Metrics may be
// shared by any number of loops.
type Metrics struct {
	cycles          *prometheus.CounterVec
	eventsDelivered prometheus.Counter
	errorsByKind    *prometheus.CounterVec
	phaseDuration   *prometheus.HistogramVec
	activeLoops     prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates the collectors described by cfg and registers them.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{}, nil
	}

	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	m := &Metrics{
		cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "cycles_total",
				Help:      "Total number of completed run loop cycles",
			},
			[]string{"outcome"},
		),
		eventsDelivered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "events_delivered_total",
				Help:      "Total number of events handed to handlers during run passes",
			},
		),
		errorsByKind: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "errors_total",
				Help:      "Total number of errors that stopped a run loop",
			},
			[]string{"kind"},
		),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "phase_duration_seconds",
				Help:      "Duration of run loop phases in seconds",
				Buckets:   buckets,
			},
			[]string{"phase"},
		),
		activeLoops: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "active_loops",
				Help:      "Current number of mounted run loops",
			},
		),
	}

	reg := cfg.Registerer
	if reg == nil {
		m.registry = prometheus.NewRegistry()
		reg = m.registry
	}
	for _, c := range []prometheus.Collector{
		m.cycles,
		m.eventsDelivered,
		m.errorsByKind,
		m.phaseDuration,
		m.activeLoops,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordMounted records a loop that finished its initial build.
func (m *Metrics) RecordMounted() {
	if m == nil || m.activeLoops == nil {
		return
	}
	m.activeLoops.Inc()
}

// RecordStopped records a mounted loop that returned.
func (m *Metrics) RecordStopped() {
	if m == nil || m.activeLoops == nil {
		return
	}
	m.activeLoops.Dec()
}

// RecordCycle records a completed cycle and the time spent in each phase.
func (m *Metrics) RecordCycle(sample CycleSample) {
	if m == nil || m.cycles == nil {
		return
	}
	outcome := "rebuilt"
	if sample.Done {
		outcome = "done"
	}
	m.cycles.WithLabelValues(outcome).Inc()
	m.eventsDelivered.Add(float64(sample.Events))
	m.phaseDuration.WithLabelValues("run").Observe(sample.Phases.Run.Seconds())
	m.phaseDuration.WithLabelValues("sync").Observe(sample.Phases.Sync.Seconds())
	if !sample.Done {
		m.phaseDuration.WithLabelValues("rebuild").Observe(sample.Phases.Rebuild.Seconds())
	}
}

// RecordBuild records the duration of the initial build.
func (m *Metrics) RecordBuild(d time.Duration) {
	if m == nil || m.phaseDuration == nil {
		return
	}
	m.phaseDuration.WithLabelValues("build").Observe(d.Seconds())
}

// RecordError records an error that stopped a loop, labelled by kind.
func (m *Metrics) RecordError(err error) {
	if m == nil || m.errorsByKind == nil {
		return
	}
	m.errorsByKind.WithLabelValues(errors.KindOf(err).String()).Inc()
}

// Registry returns the private registry, or nil when a Registerer was
// supplied or metrics are disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns an HTTP handler serving the private registry.
func (m *Metrics) Handler() http.Handler {
	if m.Registry() == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
