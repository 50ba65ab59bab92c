package kmeans

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrNilRNG is returned when no random source is supplied.
	ErrNilRNG = errors.New("rng must not be nil")
)

// ErrInsufficientData indicates fewer vectors than requested clusters.
type ErrInsufficientData struct {
	Required int
	Actual   int
}

func (e *ErrInsufficientData) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d vectors, got %d", e.Required, e.Actual)
}

// ErrDimensionMismatch indicates vectors of differing length in one batch.
type ErrDimensionMismatch struct {
	Index    int
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch at vector %d: expected %d, got %d", e.Index, e.Expected, e.Actual)
}
