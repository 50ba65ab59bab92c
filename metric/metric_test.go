package metric

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cohort/distance"
	"github.com/hupe1980/cohort/util"
)

func TestSilhouette_HandComputed(t *testing.T) {
	vecs := [][]float64{{0}, {1}, {4}, {5}}

	// Per point: 7/9, 5/7, 5/7, 7/9.
	got, err := SilhouetteE(context.Background(), vecs, []int{0, 0, 1, 1}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 47.0/63.0, got, 1e-12)
}

func TestSilhouette_SquaredMetric(t *testing.T) {
	vecs := [][]float64{{0}, {1}, {4}, {5}}

	got, err := SilhouetteE(context.Background(), vecs, []int{0, 0, 1, 1}, 2, func(o *Options) {
		o.Metric = distance.MetricSquaredEuclidean
	})
	require.NoError(t, err)
	assert.InDelta(t, (0.78/0.82+0.92)/2, got, 1e-9)
}

func TestSilhouette_TooFewVectors(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, 0.0, Silhouette[[]float64](ctx, nil, nil, 1))
	assert.Equal(t, 0.0, Silhouette(ctx, [][]float64{{1, 2}}, []int{0}, 1))
}

func TestSilhouette_WellSeparated(t *testing.T) {
	vecs := [][]float64{
		{90, 90}, {85, 85}, {88, 88},
		{20, 20}, {15, 15}, {25, 25},
	}

	got := Silhouette(context.Background(), vecs, []int{0, 0, 0, 1, 1, 1}, 2)
	assert.Greater(t, got, 0.5)
	assert.LessOrEqual(t, got, 1.0)
}

func TestSilhouette_Misassigned(t *testing.T) {
	vecs := [][]float64{{0}, {1}, {10}, {11}}

	got := Silhouette(context.Background(), vecs, []int{0, 1, 0, 1}, 2)
	assert.Less(t, got, 0.0)
	assert.GreaterOrEqual(t, got, -1.0)
}

func TestSilhouette_Singletons(t *testing.T) {
	vecs := [][]float64{{1}, {3}, {7}, {20}}

	// a(i) = 0 everywhere, so every point scores (b-0)/b = 1.
	got := Silhouette(context.Background(), vecs, []int{0, 1, 2, 3}, 4)
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestSilhouette_SingleCluster(t *testing.T) {
	ctx := context.Background()

	// b(i) falls back to 2*a(i): every point scores exactly 0.5.
	got := Silhouette(ctx, [][]float64{{1}, {2}, {4}}, []int{0, 0, 0}, 1)
	assert.InDelta(t, 0.5, got, 1e-12)

	// Identical points: a(i) = 0, b(i) = 1.
	got = Silhouette(ctx, [][]float64{{3}, {3}}, []int{0, 0}, 1)
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestSilhouette_EmptyClusterIgnored(t *testing.T) {
	ctx := context.Background()
	vecs := [][]float64{{0}, {1}, {4}, {5}}

	withEmpty := Silhouette(ctx, vecs, []int{0, 0, 2, 2}, 3)
	assert.InDelta(t, 47.0/63.0, withEmpty, 1e-12)
}

func TestSilhouette_CoincidentMembers(t *testing.T) {
	// Coincident points share a cluster: a=0, b>0 for all three points.
	vecs := [][]float64{{0}, {0}, {10}}

	got := Silhouette(context.Background(), vecs, []int{0, 0, 1}, 2)
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestSilhouette_ZeroDistanceExcluded(t *testing.T) {
	// Identical points split across clusters: a=b=0 for both, nothing to average.
	got, err := SilhouetteE(context.Background(), [][]float64{{3}, {3}}, []int{0, 1}, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestSilhouette_Errors(t *testing.T) {
	ctx := context.Background()
	vecs := [][]float64{{0}, {1}}

	_, err := SilhouetteE(ctx, vecs, []int{0}, 2)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = SilhouetteE(ctx, [][]float64{{0}, {1, 2}}, []int{0, 1}, 2)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = SilhouetteE(ctx, vecs, []int{0, 5}, 2)
	assert.Error(t, err)

	_, err = SilhouetteE(ctx, vecs, []int{0, 1}, 2, func(o *Options) { o.Metric = distance.Metric(99) })
	assert.ErrorContains(t, err, "unsupported metric")

	// The non-E variant degrades to 0.
	assert.Equal(t, 0.0, Silhouette(ctx, vecs, []int{0, 5}, 2))
}

func TestSilhouette_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SilhouetteE(ctx, [][]float64{{0}, {1}}, []int{0, 1}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSilhouette_ParallelMatchesSequential(t *testing.T) {
	ctx := context.Background()
	rng := util.NewRNG(99)

	n := 300
	vecs := make([][]float64, n)
	assignments := make([]int, n)
	for i := range vecs {
		vecs[i] = []float64{float64(rng.Intn(100)), float64(rng.Intn(100))}
		assignments[i] = rng.Intn(4)
	}

	seq, err := SilhouetteE(ctx, vecs, assignments, 4, func(o *Options) {
		o.Workers = 1
	})
	require.NoError(t, err)

	par, err := SilhouetteE(ctx, vecs, assignments, 4, func(o *Options) {
		o.Workers = 8
		o.ParallelThreshold = 1
	})
	require.NoError(t, err)

	assert.Equal(t, seq, par)
	assert.GreaterOrEqual(t, seq, -1.0)
	assert.LessOrEqual(t, seq, 1.0)
}
