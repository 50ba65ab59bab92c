package httpapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements cohort.MetricsCollector.
type PrometheusCollector struct {
	runs                *prometheus.CounterVec
	latency             prometheus.Histogram
	students            prometheus.Histogram
	iterations          prometheus.Histogram
	silhouetteFallbacks prometheus.Counter
}

// NewPrometheusCollector creates a collector and registers it with reg.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cohort_analyze_total",
			Help: "Clustering runs by outcome",
		}, []string{"status"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cohort_analyze_duration_seconds",
			Help:    "Latency of clustering runs",
			Buckets: prometheus.DefBuckets,
		}),
		students: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cohort_analyze_students",
			Help:    "Students per successful clustering run",
			Buckets: prometheus.ExponentialBuckets(2, 4, 8),
		}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cohort_kmeans_iterations",
			Help:    "Lloyd iterations per successful clustering run",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		}),
		silhouetteFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cohort_silhouette_fallbacks_total",
			Help: "Runs that reported a silhouette of 0 because scoring failed",
		}),
	}

	reg.MustRegister(c.runs, c.latency, c.students, c.iterations, c.silhouetteFallbacks)

	return c
}

// RecordAnalyze implements cohort.MetricsCollector.
func (c *PrometheusCollector) RecordAnalyze(students, k, iterations int, duration time.Duration, err error) {
	c.latency.Observe(duration.Seconds())
	if err != nil {
		c.runs.WithLabelValues("error").Inc()
		return
	}
	c.runs.WithLabelValues("ok").Inc()
	c.students.Observe(float64(students))
	c.iterations.Observe(float64(iterations))
}

// RecordSilhouetteFallback implements cohort.MetricsCollector.
func (c *PrometheusCollector) RecordSilhouetteFallback() {
	c.silhouetteFallbacks.Inc()
}
