package cohort

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordAnalyze is called after each clustering run.
	// students and k describe the request, iterations is the number of
	// Lloyd passes (0 on failure), err is nil if successful.
	RecordAnalyze(students, k, iterations int, duration time.Duration, err error)

	// RecordSilhouetteFallback is called when the quality score could not
	// be computed and 0 was reported instead.
	RecordSilhouetteFallback()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAnalyze(int, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSilhouetteFallback()                         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AnalyzeCount        atomic.Int64
	AnalyzeErrors       atomic.Int64
	AnalyzeTotalNanos   atomic.Int64
	StudentsClustered   atomic.Int64
	IterationsTotal     atomic.Int64
	SilhouetteFallbacks atomic.Int64
}

// RecordAnalyze implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAnalyze(students, k, iterations int, duration time.Duration, err error) {
	b.AnalyzeCount.Add(1)
	b.AnalyzeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AnalyzeErrors.Add(1)
		return
	}
	b.StudentsClustered.Add(int64(students))
	b.IterationsTotal.Add(int64(iterations))
}

// RecordSilhouetteFallback implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSilhouetteFallback() {
	b.SilhouetteFallbacks.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AnalyzeCount:        b.AnalyzeCount.Load(),
		AnalyzeErrors:       b.AnalyzeErrors.Load(),
		AnalyzeAvgNanos:     b.getAvgAnalyzeNanos(),
		StudentsClustered:   b.StudentsClustered.Load(),
		IterationsTotal:     b.IterationsTotal.Load(),
		SilhouetteFallbacks: b.SilhouetteFallbacks.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgAnalyzeNanos() int64 {
	count := b.AnalyzeCount.Load()
	if count == 0 {
		return 0
	}
	return b.AnalyzeTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AnalyzeCount        int64
	AnalyzeErrors       int64
	AnalyzeAvgNanos     int64
	StudentsClustered   int64
	IterationsTotal     int64
	SilhouetteFallbacks int64
}
