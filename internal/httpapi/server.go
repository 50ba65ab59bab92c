package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/hupe1980/cohort"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "K-Means Clustering"

// Config configures the HTTP server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// RateLimit is the sustained number of requests per second accepted
	// across all clients. Zero disables limiting.
	RateLimit float64

	// Burst is the number of requests allowed above RateLimit at once.
	Burst int

	// MaxBodyBytes caps the request body size.
	MaxBodyBytes int64

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the configuration used when fields are left zero.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		RateLimit:       50,
		Burst:           100,
		MaxBodyBytes:    10 << 20,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server is the HTTP front end of an Analyzer.
type Server struct {
	cfg      Config
	analyzer *cohort.Analyzer
	logger   *cohort.Logger
	gatherer prometheus.Gatherer
	limiter  *rate.Limiter
	handler  http.Handler
}

// New creates a Server. gatherer may be nil to disable /metrics;
// logger may be nil to disable request logging.
func New(a *cohort.Analyzer, gatherer prometheus.Gatherer, logger *cohort.Logger, cfg Config) *Server {
	def := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}
	if logger == nil {
		logger = cohort.NoopLogger()
	}

	s := &Server{
		cfg:      cfg,
		analyzer: a,
		logger:   logger,
		gatherer: gatherer,
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.Burst, 1))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/cluster", s.handleCluster)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("OPTIONS /api/", s.handlePreflight)
	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	s.handler = s.logRequests(cors(s.limit(gzhttp.GzipHandler(mux))))

	return s
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "http server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleCluster(w http.ResponseWriter, r *http.Request) {
	var req cohort.Request

	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body: " + err.Error()})
		return
	}

	res, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Message: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": ServiceName,
	})
}

func (s *Server) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// writeJSON encodes v before committing status, so an unencodable value
// becomes a 500 error response instead of an empty body.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encoding response failed", "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Message: "encoding response: " + err.Error()})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.logger.Warn("writing response failed", "error", err)
	}
}
