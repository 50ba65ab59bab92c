package main

import (
	"flag"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hupe1980/cohort"
)

// config holds command-line settings. Flags take precedence over
// COHORT_* environment variables.
type config struct {
	Seed      int64
	MaxIter   int
	Workers   int
	LogLevel  string
	LogFormat string

	// serve
	Addr  string
	Rate  float64
	Burst int

	// run
	In       string
	Category string
	Clusters int
}

func parseConfig(cmd string, args []string, getenv func(string) string) (*config, error) {
	env := func(key, def string) string {
		if v := getenv("COHORT_" + key); v != "" {
			return v
		}
		return def
	}

	seed, err := strconv.ParseInt(env("SEED", strconv.Itoa(cohort.DefaultSeed)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("COHORT_SEED: %w", err)
	}
	maxIter, err := strconv.Atoi(env("MAX_ITER", "500"))
	if err != nil {
		return nil, fmt.Errorf("COHORT_MAX_ITER: %w", err)
	}
	workers, err := strconv.Atoi(env("WORKERS", "0"))
	if err != nil {
		return nil, fmt.Errorf("COHORT_WORKERS: %w", err)
	}
	rate, err := strconv.ParseFloat(env("RATE", "50"), 64)
	if err != nil {
		return nil, fmt.Errorf("COHORT_RATE: %w", err)
	}
	burst, err := strconv.Atoi(env("BURST", "100"))
	if err != nil {
		return nil, fmt.Errorf("COHORT_BURST: %w", err)
	}

	cfg := &config{}
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.Int64Var(&cfg.Seed, "seed", seed, "seed for centroid initialization")
	fs.IntVar(&cfg.MaxIter, "max-iter", maxIter, "maximum k-means iterations")
	fs.IntVar(&cfg.Workers, "workers", workers, "worker goroutines for large batches (0 = GOMAXPROCS)")
	fs.StringVar(&cfg.LogLevel, "log-level", env("LOG_LEVEL", "info"), "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", env("LOG_FORMAT", "text"), "log format: text, json")

	switch cmd {
	case "serve":
		fs.StringVar(&cfg.Addr, "addr", env("ADDR", ":8080"), "listen address")
		fs.Float64Var(&cfg.Rate, "rate", rate, "requests per second (0 = unlimited)")
		fs.IntVar(&cfg.Burst, "burst", burst, "request burst size")
	case "run":
		fs.StringVar(&cfg.In, "in", "", "request JSON file (default stdin)")
		fs.StringVar(&cfg.Category, "category", "", "override request category: all, literacy, math")
		fs.IntVar(&cfg.Clusters, "clusters", 0, "override request cluster count")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func (c *config) logger() *cohort.Logger {
	level, _ := parseLevel(c.LogLevel)
	if c.LogFormat == "json" {
		return cohort.NewJSONLogger(level)
	}
	return cohort.NewTextLogger(level)
}

func (c *config) analyzerOptions() []cohort.Option {
	return []cohort.Option{
		cohort.WithSeed(c.Seed),
		cohort.WithMaxIterations(c.MaxIter),
		cohort.WithWorkers(c.Workers),
		cohort.WithLogger(c.logger()),
	}
}
