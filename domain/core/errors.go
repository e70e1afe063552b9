package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors
	ErrInvalidLimits   = errors.New("invalid limits")
	ErrInvalidInterval = errors.New("invalid sampling interval")

	// Input errors
	ErrNonFiniteSample  = errors.New("non-finite sample value")
	ErrNoSamples        = errors.New("no measurement samples")
	ErrMalformedLine    = errors.New("malformed measurement line")
	ErrMissingColumn    = errors.New("missing measurement column")
	ErrCapacityOverflow = errors.New("capacity integration overflow")
)

// NewNonFiniteError reports a NaN or infinite value at a sample index
func NewNonFiniteError(channel string, index int, value float64) error {
	return fmt.Errorf("%w: %s at sample %d is %v", ErrNonFiniteSample, channel, index, value)
}

// NewOverflowError reports a trapezoid whose area or running total left the
// float64 range
func NewOverflowError(from, to int) error {
	return fmt.Errorf("%w: samples %d-%d", ErrCapacityOverflow, from, to)
}

// NewLimitsError reports a malformed Limits field
func NewLimitsError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidLimits, field, reason)
}

// IsConfigurationError reports whether err stems from malformed configuration
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidLimits) ||
		errors.Is(err, ErrInvalidInterval)
}

// IsInputError reports whether err stems from unusable measurement input
func IsInputError(err error) bool {
	return errors.Is(err, ErrNonFiniteSample) ||
		errors.Is(err, ErrNoSamples) ||
		errors.Is(err, ErrMalformedLine) ||
		errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrCapacityOverflow)
}
