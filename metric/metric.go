package metric

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/cohort/distance"
	"github.com/hupe1980/cohort/internal/bitmap"
)

// DefaultParallelThreshold is the batch size at which per-vector scoring is
// split across workers.
const DefaultParallelThreshold = 512

var (
	// ErrLengthMismatch is returned when vectors and assignments differ in length.
	ErrLengthMismatch = errors.New("metric: vectors and assignments differ in length")

	// ErrDimensionMismatch is returned when vectors differ in dimension.
	ErrDimensionMismatch = errors.New("metric: vectors differ in dimension")

	// ErrNonFinite is returned when the score is NaN or infinite.
	ErrNonFinite = errors.New("metric: non-finite silhouette")
)

// Options configures silhouette scoring.
type Options struct {
	// Workers bounds the goroutines used for per-vector scoring. Values <= 0
	// use GOMAXPROCS.
	Workers int

	// ParallelThreshold is the minimum number of vectors before scoring runs
	// in parallel.
	ParallelThreshold int

	// Metric is the distance between normalized vectors. Defaults to
	// distance.MetricEuclidean.
	Metric distance.Metric
}

// Silhouette returns the mean silhouette coefficient of a clustering,
// or 0 if it cannot be computed.
func Silhouette[V ~[]float64](ctx context.Context, vectors []V, assignments []int, k int, optFns ...func(*Options)) float64 {
	score, err := SilhouetteE(ctx, vectors, assignments, k, optFns...)
	if err != nil {
		return 0
	}
	return score
}

// SilhouetteE is Silhouette with the failure reason.
//
// For vector i in cluster C, a(i) is the mean distance to the other members
// of C (0 when i is alone) and b(i) is the smallest mean distance to the
// members of any other non-empty cluster. With no other non-empty cluster,
// b(i) is 2*a(i), or 1 when a(i) is 0. Vectors with a(i) = b(i) = 0 are left
// out of the average. Fewer than two vectors score 0.
func SilhouetteE[V ~[]float64](ctx context.Context, vectors []V, assignments []int, k int, optFns ...func(*Options)) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			score, err = 0, fmt.Errorf("metric: silhouette panicked: %v", r)
		}
	}()

	opts := Options{
		Workers:           runtime.GOMAXPROCS(0),
		ParallelThreshold: DefaultParallelThreshold,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	dist, err := distance.Provider(opts.Metric)
	if err != nil {
		return 0, fmt.Errorf("metric: %w", err)
	}

	n := len(vectors)
	if n < 2 {
		return 0, nil
	}
	if len(assignments) != n {
		return 0, ErrLengthMismatch
	}
	for _, v := range vectors {
		if len(v) != len(vectors[0]) {
			return 0, ErrDimensionMismatch
		}
	}

	membership, err := bitmap.NewMembership(assignments, k)
	if err != nil {
		return 0, fmt.Errorf("metric: %w", err)
	}

	points := distance.ApplyAll(distance.FitNormalizer(vectors), vectors)

	s := &scorer{
		points:      points,
		dist:        dist,
		assignments: assignments,
		members:     make([][]int, k),
		populated:   membership.Populated(),
		values:      make([]float64, n),
		valid:       make([]bool, n),
	}
	for _, c := range s.populated {
		s.members[c] = membership.Members(c)
	}

	if n < opts.ParallelThreshold || opts.Workers == 1 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		s.scoreRange(0, n)
	} else if err := s.scoreParallel(ctx, opts.Workers); err != nil {
		return 0, err
	}

	var total float64
	var count int
	for i, ok := range s.valid {
		if ok {
			total += s.values[i]
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}

	score = total / float64(count)
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, ErrNonFinite
	}

	return max(-1, min(1, score)), nil
}

type scorer struct {
	points      [][]float64
	dist        distance.Func
	assignments []int
	members     [][]int
	populated   []int
	values      []float64
	valid       []bool
}

func (s *scorer) scoreParallel(ctx context.Context, workers int) error {
	n := len(s.points)
	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("metric: silhouette worker panicked: %v", r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			s.scoreRange(lo, hi)
			return nil
		})
	}

	return g.Wait()
}

func (s *scorer) scoreRange(lo, hi int) {
	for i := lo; i < hi; i++ {
		s.values[i], s.valid[i] = s.scoreOne(i)
	}
}

func (s *scorer) scoreOne(i int) (float64, bool) {
	own := s.assignments[i]

	var a float64
	if len(s.members[own]) > 1 {
		a = s.meanDistance(i, s.members[own])
	}

	b := math.Inf(1)
	for _, c := range s.populated {
		if c == own {
			continue
		}
		b = min(b, s.meanDistance(i, s.members[c]))
	}

	if math.IsInf(b, 1) {
		if a > 0 {
			b = 2 * a
		} else {
			b = 1
		}
	}

	maxAB := max(a, b)
	if maxAB == 0 {
		return 0, false
	}
	return (b - a) / maxAB, true
}

// meanDistance averages the distance from point i to every other member.
func (s *scorer) meanDistance(i int, members []int) float64 {
	var sum float64
	var count int
	for _, j := range members {
		if j == i {
			continue
		}
		sum += s.dist(s.points[i], s.points[j])
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
