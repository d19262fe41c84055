package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrRunNotFound    = fmt.Errorf("%w: run", ErrNotFound)
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)

	// Sample structure errors
	ErrDegenerateSample   = errors.New("degenerate sample: residual degrees of freedom would be non-positive")
	ErrInsufficientGroups = errors.New("fewer than 2 groups supplied")
	ErrEmptyGroup         = errors.New("group has no observations")
	ErrInsufficientData   = errors.New("insufficient data for analysis")

	// Model errors
	ErrSingularDesign = errors.New("design matrix is rank deficient")
	ErrUnknownTerm    = errors.New("unknown model term")

	// Input errors
	ErrInvalidAlpha   = errors.New("alpha must be in (0, 1)")
	ErrNonNumericCell = errors.New("non-numeric value in numeric column")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewEmptyGroupError(label GroupLabel) error {
	return fmt.Errorf("%w: %q", ErrEmptyGroup, label)
}

func NewDegenerateSampleError(totalN, groups int) error {
	return fmt.Errorf("%w: %d observations across %d groups", ErrDegenerateSample, totalN, groups)
}

func NewSmallGroupError(label GroupLabel, n int) error {
	return fmt.Errorf("%w: group %q has %d observation(s), need at least 2", ErrDegenerateSample, label, n)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsSampleError(err error) bool {
	return errors.Is(err, ErrDegenerateSample) ||
		errors.Is(err, ErrInsufficientGroups) ||
		errors.Is(err, ErrEmptyGroup) ||
		errors.Is(err, ErrInsufficientData)
}
