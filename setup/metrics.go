package setup

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wilsonsilva/rom/metric"
)

// lifecycleMetrics holds Prometheus metrics for configuration lifecycle
// operations.
type lifecycleMetrics struct {
	finalizes        *prometheus.CounterVec // By status (success/failure)
	finalizeDuration prometheus.Histogram
	gatewaysBuilt    prometheus.Counter
	liveComponents   *prometheus.GaugeVec // By kind (relation/command/mapper)
}

// newLifecycleMetrics creates and registers lifecycle metrics with the
// provided registry. A nil registry disables metrics.
func newLifecycleMetrics(registry *metric.MetricsRegistry) (*lifecycleMetrics, error) {
	if registry == nil {
		return nil, nil // Metrics disabled
	}

	m := &lifecycleMetrics{
		finalizes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rom",
			Subsystem: "setup",
			Name:      "finalizes_total",
			Help:      "Total number of finalize operations",
		}, []string{"status"}), // status: success, failure

		finalizeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rom",
			Subsystem: "setup",
			Name:      "finalize_duration_seconds",
			Help:      "Finalize operation duration in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		}),

		gatewaysBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rom",
			Subsystem: "setup",
			Name:      "gateways_built_total",
			Help:      "Total number of gateways constructed",
		}),

		liveComponents: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "rom",
			Subsystem: "setup",
			Name:      "live_components",
			Help:      "Number of live components after finalize",
		}, []string{"kind"}),
	}

	if err := registry.RegisterCounterVec("setup", "finalizes", m.finalizes); err != nil {
		return nil, err
	}
	if err := registry.RegisterHistogram("setup", "finalize_duration", m.finalizeDuration); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter("setup", "gateways_built", m.gatewaysBuilt); err != nil {
		return nil, err
	}
	if err := registry.RegisterGaugeVec("setup", "live_components", m.liveComponents); err != nil {
		return nil, err
	}

	return m, nil
}

// recordFinalize records a finalize outcome and its duration.
func (m *lifecycleMetrics) recordFinalize(success bool, seconds float64) {
	if m == nil {
		return
	}
	status := "failure"
	if success {
		status = "success"
	}
	m.finalizes.WithLabelValues(status).Inc()
	m.finalizeDuration.Observe(seconds)
}

// recordGateway counts one constructed gateway.
func (m *lifecycleMetrics) recordGateway() {
	if m == nil {
		return
	}
	m.gatewaysBuilt.Inc()
}

// setLive records the live component count for a kind.
func (m *lifecycleMetrics) setLive(kind string, count int) {
	if m == nil {
		return
	}
	m.liveComponents.WithLabelValues(kind).Set(float64(count))
}
