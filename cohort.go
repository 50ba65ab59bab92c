package cohort

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/cohort/feature"
	"github.com/hupe1980/cohort/internal/kmeans"
	"github.com/hupe1980/cohort/label"
	"github.com/hupe1980/cohort/metric"
	"github.com/hupe1980/cohort/report"
	"github.com/hupe1980/cohort/util"
)

// Algorithm names the clustering method in results.
const Algorithm = "K-Means"

// SuccessMessage is reported on every completed run.
const SuccessMessage = "Clustering completed successfully"

// Request is one batch of students to cluster.
type Request struct {
	Students []feature.Record `json:"students"`

	// Category selects the feature profile: "all", "literacy" or "math".
	// Anything else is treated as "all".
	Category string `json:"category"`

	// Clusters is the number of clusters. Zero means DefaultClusters.
	Clusters int `json:"clusters"`
}

// Assignment places one student in a cluster.
type Assignment struct {
	UserID  int     `json:"userId"`
	Cluster int     `json:"clusterNumber"`
	Label   string  `json:"clusterLabel"`
	Score   float64 `json:"score"`
}

// Result is the outcome of Analyze.
type Result struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	Algorithm   string          `json:"algorithm"`
	Assignments []Assignment    `json:"assignments"`
	Report      report.Report   `json:"report"`
	Centroids   [][]float64     `json:"centroids,omitempty"`
	Iterations  int             `json:"iterations,omitempty"`
	Converged   bool            `json:"converged"`
	Profile     feature.Profile `json:"-"`
}

// Analyzer clusters batches of students.
//
// An Analyzer holds only configuration; every call to Analyze works on its
// own state and random source, so one Analyzer may be shared across goroutines.
type Analyzer struct {
	opts options
}

// New creates an Analyzer.
func New(optFns ...Option) *Analyzer {
	return &Analyzer{opts: applyOptions(optFns)}
}

// Analyze clusters req.Students, labels the clusters and builds a report.
//
// It fails only when the request cannot be clustered at all (fewer students
// than clusters, a negative cluster count) or ctx is done. Malformed field
// values are read as 0 and a failed quality score is reported as 0.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	start := a.opts.now()
	runID := a.opts.newRunID()

	k := req.Clusters
	if k == 0 {
		k = DefaultClusters
	}

	logger := a.opts.logger.WithRunID(runID).WithK(k)
	n := len(req.Students)

	res, err := a.analyze(ctx, logger, runID, req, k, start)
	duration := a.opts.now().Sub(start)

	if err != nil {
		a.opts.metricsCollector.RecordAnalyze(n, k, 0, duration, err)
		logger.LogAnalyze(ctx, n, 0, false, 0, duration, err)
		return nil, err
	}

	a.opts.metricsCollector.RecordAnalyze(n, k, res.Iterations, duration, nil)
	logger.LogAnalyze(ctx, n, res.Iterations, res.Converged, res.Report.SilhouetteScore, duration, nil)

	return res, nil
}

func (a *Analyzer) analyze(ctx context.Context, logger *Logger, runID string, req Request, k int, start time.Time) (*Result, error) {
	if k < 0 {
		return nil, ErrInvalidK
	}
	if len(req.Students) < k {
		return nil, &InsufficientDataError{Required: k, Actual: len(req.Students)}
	}

	profile := feature.ParseProfile(req.Category)
	vectors := feature.Build(req.Students, profile)

	clustering, err := kmeans.Cluster(ctx, vectors, k, util.NewRNG(a.opts.seed), func(o *kmeans.Options) {
		o.MaxIterations = a.opts.maxIterations
		o.Workers = a.opts.workers
	})
	if err != nil {
		return nil, translateError(err)
	}

	scores := feature.Scores(req.Students, profile)
	labels := label.Assign(label.Group(clustering.Assignments, scores, k))

	silhouette, err := metric.SilhouetteE(ctx, vectors, clustering.Assignments, k, func(o *metric.Options) {
		o.Workers = a.opts.workers
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.LogSilhouetteFallback(ctx, err)
		a.opts.metricsCollector.RecordSilhouetteFallback()
		silhouette = 0
	}

	assignments := make([]Assignment, len(req.Students))
	for i, r := range req.Students {
		c := clustering.Assignments[i]
		assignments[i] = Assignment{
			UserID:  r.UserID(),
			Cluster: c,
			Label:   labels[c],
			Score:   scores[i],
		}
	}

	return &Result{
		Success:     true,
		Message:     SuccessMessage,
		Algorithm:   Algorithm,
		Assignments: assignments,
		Report: report.Generate(report.Input{
			RunID:        runID,
			AnalysisDate: start,
			Assignments:  clustering.Assignments,
			Scores:       scores,
			Labels:       labels,
			Silhouette:   silhouette,
		}),
		Centroids:  clustering.Centroids,
		Iterations: clustering.Iterations,
		Converged:  clustering.Converged,
		Profile:    profile,
	}, nil
}

func newRunID() string {
	return uuid.NewString()
}
