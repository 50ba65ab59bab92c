package cohort

import (
	"errors"
	"fmt"

	"github.com/hupe1980/cohort/internal/kmeans"
)

var (
	// ErrInvalidK is returned when the requested cluster count is not positive.
	ErrInvalidK = errors.New("number of clusters must be positive")
)

// InsufficientDataError indicates fewer students than requested clusters.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type InsufficientDataError struct {
	Required int
	Actual   int
	cause    error
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("need at least %d students, got %d", e.Required, e.Actual)
}

func (e *InsufficientDataError) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ide *kmeans.ErrInsufficientData
	if errors.As(err, &ide) {
		return &InsufficientDataError{Required: ide.Required, Actual: ide.Actual, cause: err}
	}
	if errors.Is(err, kmeans.ErrInvalidK) {
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	}

	return err
}
