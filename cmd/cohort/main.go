// Cohort: student performance clustering.
//
// Usage:
//
//	cohort run [-in request.json] [-category all] [-clusters 3]
//	cohort serve [-addr :8080]     # HTTP API
//	cohort mcp                     # MCP server (stdio transport)
//	cohort version
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hupe1980/cohort"
	"github.com/hupe1980/cohort/internal/httpapi"
	"github.com/hupe1980/cohort/internal/mcptool"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "run":
		err = runCluster(ctx, os.Args[2:], os.Stdin, os.Stdout)
	case "serve":
		err = runServe(ctx, os.Args[2:])
	case "mcp":
		err = runMCP(os.Args[2:])
	case "--help", "-h", "help":
		printUsage()
		return
	case "--version", "-v", "version":
		fmt.Printf("cohort v%s\n", Version)
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCluster(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := parseConfig("run", args, os.Getenv)
	if err != nil {
		return err
	}

	in := stdin
	if cfg.In != "" && cfg.In != "-" {
		f, err := os.Open(cfg.In)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	var req cohort.Request
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fmt.Errorf("decoding request: %w", err)
	}
	if cfg.Category != "" {
		req.Category = cfg.Category
	}
	if cfg.Clusters != 0 {
		req.Clusters = cfg.Clusters
	}

	res, err := cohort.New(cfg.analyzerOptions()...).Analyze(ctx, req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func runServe(ctx context.Context, args []string) error {
	cfg, err := parseConfig("serve", args, os.Getenv)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	logger := cfg.logger()
	opts := append(cfg.analyzerOptions(), cohort.WithMetricsCollector(httpapi.NewPrometheusCollector(reg)))

	srv := httpapi.New(cohort.New(opts...), reg, logger, httpapi.Config{
		Addr:      cfg.Addr,
		RateLimit: cfg.Rate,
		Burst:     cfg.Burst,
	})

	return srv.ListenAndServe(ctx)
}

func runMCP(args []string) error {
	cfg, err := parseConfig("mcp", args, os.Getenv)
	if err != nil {
		return err
	}

	s := mcptool.NewServer(cohort.New(cfg.analyzerOptions()...), Version)

	// stdout carries the MCP stream; logs go to stderr.
	if err := server.ServeStdio(s); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Cohort v%s: student performance clustering

Usage:
  cohort run [flags]      Cluster a JSON request from -in or stdin and print the result
  cohort serve [flags]    Start the HTTP API (POST /api/cluster, GET /api/health, GET /metrics)
  cohort mcp [flags]      Start the MCP server on stdio
  cohort version          Print the version

Run "cohort <command> -h" for command flags.
`, Version)
}
