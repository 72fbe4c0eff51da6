// Prometheus collectors for trap activity
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collapse causes used as label values.
const (
	CauseMeasurement = "measurement"
	CauseIntrusion   = "intrusion"
)

// Metrics bundles the Prometheus collectors exposed on the admin /metrics
// endpoint. A nil *Metrics disables recording, so tests can run the
// honeypot without touching the default registry.
type Metrics struct {
	samplesTotal    prometheus.Counter
	intrusionsTotal *prometheus.CounterVec
	collapsesTotal  *prometheus.CounterVec
	resetsTotal     prometheus.Counter
	timelineSamples prometheus.Gauge
	collapsed       prometheus.Gauge
	tickDuration    prometheus.Histogram
}

// New creates and registers the trap collectors on the default registerer.
func New() *Metrics {
	m := &Metrics{
		samplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "honeypot_samples_total",
			Help: "Total samples appended to the timeline.",
		}),
		intrusionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "honeypot_intrusions_total",
			Help: "Total intrusion events by origin.",
		}, []string{"origin"}),
		collapsesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "honeypot_collapses_total",
			Help: "Total state collapses by cause.",
		}, []string{"cause"}),
		resetsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "honeypot_resets_total",
			Help: "Total trap resets.",
		}),
		timelineSamples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "honeypot_timeline_samples",
			Help: "Current number of samples held in the timeline buffer.",
		}),
		collapsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "honeypot_collapsed",
			Help: "Whether the cell currently holds a collapsed value (0 or 1).",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "honeypot_tick_duration_seconds",
			Help:    "Time spent processing one sampling tick.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}
	prometheus.MustRegister(
		m.samplesTotal,
		m.intrusionsTotal,
		m.collapsesTotal,
		m.resetsTotal,
		m.timelineSamples,
		m.collapsed,
		m.tickDuration,
	)
	return m
}

// RecordSample counts one appended timeline sample.
func (m *Metrics) RecordSample() {
	if m == nil {
		return
	}
	m.samplesTotal.Inc()
}

// RecordIntrusion counts one intrusion event for the given origin.
func (m *Metrics) RecordIntrusion(origin string) {
	if m == nil {
		return
	}
	m.intrusionsTotal.WithLabelValues(origin).Inc()
}

// RecordCollapse counts one collapse for the given cause.
func (m *Metrics) RecordCollapse(cause string) {
	if m == nil {
		return
	}
	m.collapsesTotal.WithLabelValues(cause).Inc()
}

// RecordReset counts one trap reset.
func (m *Metrics) RecordReset() {
	if m == nil {
		return
	}
	m.resetsTotal.Inc()
}

// SetTimelineSamples updates the buffered sample gauge.
func (m *Metrics) SetTimelineSamples(n int) {
	if m == nil {
		return
	}
	m.timelineSamples.Set(float64(n))
}

// SetCollapsed updates the collapsed-state gauge.
func (m *Metrics) SetCollapsed(collapsed bool) {
	if m == nil {
		return
	}
	if collapsed {
		m.collapsed.Set(1)
	} else {
		m.collapsed.Set(0)
	}
}

// ObserveTick records the duration of one sampling tick in seconds.
func (m *Metrics) ObserveTick(seconds float64) {
	if m == nil {
		return
	}
	m.tickDuration.Observe(seconds)
}
