package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/cohort/feature"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uniform returns a pseudo-random number in [minVal, maxVal).
func (r *RNG) Uniform(minVal, maxVal float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return minVal + r.rand.Float64()*(maxVal-minVal)
}

// Band is a performance level students are drawn around.
type Band struct {
	Mean   float64
	Spread float64
}

// Students returns n records spread round-robin across bands.
// Literacy and math scores are drawn uniformly from Mean±Spread and
// clamped to [0, 100]; games_played is in [1, 20]; total_score is the
// sum of both subjects. user_id runs from 1 to n.
func (r *RNG) Students(n int, bands ...Band) []feature.Record {
	if len(bands) == 0 {
		bands = []Band{{Mean: 50, Spread: 50}}
	}

	out := make([]feature.Record, n)
	for i := range out {
		b := bands[i%len(bands)]
		lit := clamp(r.Uniform(b.Mean-b.Spread, b.Mean+b.Spread))
		math := clamp(r.Uniform(b.Mean-b.Spread, b.Mean+b.Spread))

		out[i] = feature.NewRecord(map[string]any{
			feature.FieldUserID:        i + 1,
			feature.FieldLiteracyScore: lit,
			feature.FieldMathScore:     math,
			feature.FieldGamesPlayed:   1 + r.Intn(20),
			feature.FieldTotalScore:    lit + math,
		})
	}

	return out
}

// Scored returns one record per score with identical literacy and math
// scores and no other fields. user_id runs from 1.
func Scored(scores []float64) []feature.Record {
	out := make([]feature.Record, len(scores))
	for i, s := range scores {
		out[i] = feature.NewRecord(map[string]any{
			feature.FieldUserID:        i + 1,
			feature.FieldLiteracyScore: s,
			feature.FieldMathScore:     s,
		})
	}
	return out
}

func clamp(v float64) float64 {
	return max(0, min(100, v))
}
