package kmeans

import (
	"context"
	"math"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/cohort/distance"
	"github.com/hupe1980/cohort/util"
)

// DefaultMaxIterations bounds the number of Lloyd iterations.
const DefaultMaxIterations = 500

// DefaultParallelThreshold is the batch size at which the assignment step
// is split across workers.
const DefaultParallelThreshold = 4096

// Options configures a clustering run.
type Options struct {
	// MaxIterations caps the number of assignment passes. Values <= 0 use
	// DefaultMaxIterations.
	MaxIterations int

	// Workers bounds the goroutines used by the assignment step. Values <= 0
	// use GOMAXPROCS.
	Workers int

	// ParallelThreshold is the minimum number of vectors before the
	// assignment step runs in parallel.
	ParallelThreshold int
}

// Result is the outcome of a clustering run.
type Result struct {
	// Assignments[i] is the cluster index of vectors[i].
	Assignments []int

	// Centroids[c] is the mean of cluster c in raw feature units.
	Centroids [][]float64

	// Iterations is the number of assignment passes performed.
	Iterations int

	// Converged is false when MaxIterations was reached with assignments
	// still changing.
	Converged bool
}

// Cluster partitions vectors into k clusters.
//
// Initial centroids are k distinct vectors picked by a seeded permutation
// (duplicates are used only when fewer than k distinct vectors exist).
// A cluster that loses all members keeps its previous centroid.
func Cluster[V ~[]float64](ctx context.Context, vectors []V, k int, rng *util.RNG, optFns ...func(*Options)) (*Result, error) {
	opts := Options{
		MaxIterations:     DefaultMaxIterations,
		Workers:           runtime.GOMAXPROCS(0),
		ParallelThreshold: DefaultParallelThreshold,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	if k < 1 {
		return nil, ErrInvalidK
	}
	if rng == nil {
		return nil, ErrNilRNG
	}

	n := len(vectors)
	if n < k {
		return nil, &ErrInsufficientData{Required: k, Actual: n}
	}

	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, &ErrDimensionMismatch{Index: i, Expected: dim, Actual: len(v)}
		}
	}

	norm := distance.FitNormalizer(vectors)
	points := distance.ApplyAll(norm, vectors)
	centroids := initCentroids(points, k, rng)

	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}
	next := make([]int, n)
	counts := make([]int, k)
	sums := make([][]float64, k)
	for c := range sums {
		sums[c] = make([]float64, dim)
	}

	res := &Result{}

	for iter := 0; iter < opts.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Assignment step
		if err := assign(ctx, points, centroids, next, opts); err != nil {
			return nil, err
		}
		res.Iterations++

		changed := !slices.Equal(assignments, next)
		copy(assignments, next)

		if !changed {
			res.Converged = true
			break
		}

		// Update step
		for c := range sums {
			clear(sums[c])
		}
		clear(counts)

		for i, c := range assignments {
			floats.Add(sums[c], points[i])
			counts[c]++
		}

		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			copy(centroids[c], sums[c])
		}
	}

	res.Assignments = assignments
	res.Centroids = make([][]float64, k)
	for c, centroid := range centroids {
		res.Centroids[c] = norm.Invert(centroid)
	}

	return res, nil
}

// Nearest returns the index of the centroid closest to vec.
// Ties resolve to the lowest index.
func Nearest(vec []float64, centroids [][]float64) int {
	best := 0
	minDist := math.Inf(1)

	for c, center := range centroids {
		d := distance.SquaredEuclidean(vec, center)
		if d < minDist {
			minDist = d
			best = c
		}
	}

	return best
}

func initCentroids(points [][]float64, k int, rng *util.RNG) [][]float64 {
	perm := rng.Perm(len(points))
	chosen := make([]int, 0, k)
	used := make([]bool, len(points))

	for _, idx := range perm {
		if len(chosen) == k {
			break
		}
		if slices.ContainsFunc(chosen, func(c int) bool {
			return slices.Equal(points[c], points[idx])
		}) {
			continue
		}
		chosen = append(chosen, idx)
		used[idx] = true
	}

	// Fewer distinct points than clusters: fill with duplicates.
	for _, idx := range perm {
		if len(chosen) == k {
			break
		}
		if !used[idx] {
			chosen = append(chosen, idx)
			used[idx] = true
		}
	}

	centroids := make([][]float64, k)
	for c, idx := range chosen {
		centroids[c] = slices.Clone(points[idx])
	}
	return centroids
}

func assign(ctx context.Context, points, centroids [][]float64, out []int, opts Options) error {
	n := len(points)
	if n < opts.ParallelThreshold || opts.Workers == 1 {
		for i, p := range points {
			out[i] = Nearest(p, centroids)
		}
		return nil
	}

	chunk := (n + opts.Workers - 1) / opts.Workers

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				out[i] = Nearest(points[i], centroids)
			}
			return nil
		})
	}

	return g.Wait()
}
