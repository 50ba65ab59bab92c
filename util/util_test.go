package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerm(t *testing.T) {
	rng := NewRNG(4711)

	p := rng.Perm(8)

	assert.Len(t, p, 8)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, p)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestPerm_Deterministic(t *testing.T) {
	a := NewRNG(42).Perm(50)
	b := NewRNG(42).Perm(50)
	c := NewRNG(43).Perm(50)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestIntn(t *testing.T) {
	rng := NewRNG(1)
	for i := 0; i < 100; i++ {
		v := rng.Intn(5)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 5)
	}
}
