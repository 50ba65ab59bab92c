package cohort

import (
	"log/slog"
	"time"
)

// DefaultSeed seeds centroid initialization when no seed is configured.
const DefaultSeed = 42

// DefaultClusters is used when a request does not name a cluster count.
const DefaultClusters = 3

type options struct {
	seed             int64
	maxIterations    int
	workers          int
	metricsCollector MetricsCollector
	logger           *Logger
	now              func() time.Time
	newRunID         func() string
}

// Option configures an Analyzer.
type Option func(*options)

// WithSeed configures the seed for centroid initialization.
// Equal seeds produce identical clusterings for identical input.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithMaxIterations caps the number of k-means iterations.
// Values <= 0 keep the default of 500.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithWorkers bounds the goroutines used for the assignment step and
// silhouette scoring on large batches. Values <= 0 use GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &cohort.BasicMetricsCollector{}
//	a := cohort.New(cohort.WithMetricsCollector(metrics))
//	// ... use a ...
//	stats := metrics.GetStats()
//	fmt.Printf("Runs: %d, Avg latency: %dns\n", stats.AnalyzeCount, stats.AnalyzeAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for runs.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := cohort.NewJSONLogger(slog.LevelInfo)
//	a := cohort.New(cohort.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithClock overrides the time source used for report timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRunIDGenerator overrides how report run identifiers are generated.
func WithRunIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newRunID = fn
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		seed:             DefaultSeed,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		now:              time.Now,
		newRunID:         newRunID,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
