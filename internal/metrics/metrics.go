package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector records runner operations in Prometheus.
type Collector struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

// NewCollector creates the collectors and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bookquery",
			Name:      "operation_duration_seconds",
			Help:      "Latency of query runner operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookquery",
			Name:      "operations_total",
			Help:      "Query runner operations by outcome.",
		}, []string{"operation", "outcome"}),
	}
	for _, col := range []prometheus.Collector{c.duration, c.total} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveOperation implements book.MetricsRecorder.
func (c *Collector) ObserveOperation(operation, outcome string, d time.Duration) {
	c.duration.WithLabelValues(operation, outcome).Observe(d.Seconds())
	c.total.WithLabelValues(operation, outcome).Inc()
}
