// Package metrics exposes the monitor's internal gauges and counters over
// Prometheus, plus a small HTTP server for /metrics and /healthz.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cdzombak/httpwatch/internal/alert"
)

var (
	requestCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "httpwatch_request_count",
		Help: "Request count observed in the current bucket.",
	})

	averageBaseline = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "httpwatch_average_baseline",
		Help: "Learned average per-bucket request baseline.",
	})

	averageThresholdPercent = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "httpwatch_average_threshold_percent",
		Help: "Configured alert trigger percentage over baseline.",
	})

	state = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "httpwatch_state",
		Help: "Current FSM state: 0=Learn, 1=Normal, 2=Alert, 3=Dismiss.",
	})

	alertsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "httpwatch_alerts_total",
		Help: "Total alert records appended to history.",
	})

	captureTransientErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "httpwatch_capture_transient_errors_total",
		Help: "Total per-frame capture parse failures swallowed.",
	})

	aggregatorEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "httpwatch_aggregator_entries",
		Help: "Live key count per aggregator after the last prune.",
	}, []string{"aggregator"})
)

// Collector wraps the package-level metric handles and registers them with
// a Prometheus registry exactly once.
type Collector struct {
	registry prometheus.Registerer
}

// NewCollector creates a Collector registered against the default
// Prometheus registry.
func NewCollector() *Collector {
	return NewCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry creates a Collector against a custom registry,
// useful in tests to avoid colliding with the global default registry.
func NewCollectorWithRegistry(registry prometheus.Registerer) *Collector {
	registry.MustRegister(
		requestCount,
		averageBaseline,
		averageThresholdPercent,
		state,
		alertsTotal,
		captureTransientErrorsTotal,
		aggregatorEntries,
	)
	return &Collector{registry: registry}
}

// ObserveBucket records the scalar gauges for the current bucket.
func (c *Collector) ObserveBucket(currentRequestCount, baseline int, thresholdPercent float64, s alert.RunState) {
	requestCount.Set(float64(currentRequestCount))
	averageBaseline.Set(float64(baseline))
	averageThresholdPercent.Set(thresholdPercent)
	state.Set(float64(s))
}

// ObserveAlert increments the alert counter; called once per AlertRecord
// appended to history (Normal/Dismiss->Alert and Alert->Alert).
func (c *Collector) ObserveAlert() {
	alertsTotal.Inc()
}

// ObserveCaptureTransient increments the swallowed-transient-error counter.
func (c *Collector) ObserveCaptureTransient() {
	captureTransientErrorsTotal.Inc()
}

// ObserveAggregatorEntries records the live key count for one aggregator,
// labeled by its title, after a prune pass.
func (c *Collector) ObserveAggregatorEntries(title string, entries int) {
	aggregatorEntries.WithLabelValues(title).Set(float64(entries))
}
