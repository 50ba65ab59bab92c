package distance

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Normalizer rescales each dimension to [0, 1] using per-dimension
// minimum and range. Dimensions with zero range map to 0.
//
// A range too wide for float64 is kept halved, so values near
// ±math.MaxFloat64 still normalize to finite numbers.
type Normalizer struct {
	min    []float64
	span   []float64
	halved []bool
}

// FitNormalizer learns per-dimension ranges from vectors.
// All vectors must share the same dimension.
func FitNormalizer[V ~[]float64](vectors []V) *Normalizer {
	if len(vectors) == 0 {
		return &Normalizer{}
	}

	dim := len(vectors[0])
	n := &Normalizer{
		min:    make([]float64, dim),
		span:   make([]float64, dim),
		halved: make([]bool, dim),
	}

	column := make([]float64, len(vectors))
	for d := 0; d < dim; d++ {
		for i, v := range vectors {
			column[i] = v[d]
		}

		lo, hi := floats.Min(column), floats.Max(column)
		n.min[d] = lo
		n.span[d] = hi - lo
		if math.IsInf(n.span[d], 1) {
			n.span[d] = hi/2 - lo/2
			n.halved[d] = true
		}
	}

	return n
}

// Dimension returns the number of dimensions the normalizer was fit on.
func (n *Normalizer) Dimension() int {
	return len(n.min)
}

// Apply returns a normalized copy of v.
func (n *Normalizer) Apply(v []float64) []float64 {
	out := make([]float64, len(v))
	for d := range v {
		if d >= len(n.min) {
			out[d] = v[d]
			continue
		}
		switch {
		case n.halved[d]:
			out[d] = (v[d]/2 - n.min[d]/2) / n.span[d]
		case n.span[d] > 0:
			out[d] = (v[d] - n.min[d]) / n.span[d]
		}
	}
	return out
}

// ApplyAll returns normalized copies of all vectors.
func ApplyAll[V ~[]float64](n *Normalizer, vectors []V) [][]float64 {
	out := make([][]float64, len(vectors))
	for i, v := range vectors {
		out[i] = n.Apply(v)
	}
	return out
}

// Invert maps a normalized vector back to the original units.
// Constant dimensions map back to their single observed value.
func (n *Normalizer) Invert(v []float64) []float64 {
	out := make([]float64, len(v))
	for d := range v {
		if d >= len(n.min) {
			out[d] = v[d]
			continue
		}
		if n.halved[d] {
			out[d] = n.min[d] + v[d]*n.span[d] + v[d]*n.span[d]
			continue
		}
		out[d] = n.min[d] + v[d]*n.span[d]
	}
	return out
}
