package measurement

import (
	"math"

	"battcheck/domain/core"
)

// Limits holds the electrical and capacity thresholds for one test run.
// Tolerance is a fractional band: lower bounds are scaled by (1 - Tolerance)
// and upper bounds by (1 + Tolerance), whatever their sign.
type Limits struct {
	MinVoltage  float64 `json:"min_voltage" yaml:"min_voltage"`
	MaxVoltage  float64 `json:"max_voltage" yaml:"max_voltage" validate:"gtefield=MinVoltage"`
	MinCurrent  float64 `json:"min_current" yaml:"min_current"`
	MaxCurrent  float64 `json:"max_current" yaml:"max_current" validate:"gtefield=MinCurrent"`
	MinCapacity float64 `json:"min_capacity" yaml:"min_capacity" validate:"gte=0"`
	Tolerance   float64 `json:"tolerance" yaml:"tolerance" validate:"gte=0"`
}

// DefaultLimits returns the reference rig thresholds
func DefaultLimits() Limits {
	return Limits{
		MinVoltage:  5.0,
		MaxVoltage:  10.0,
		MinCurrent:  0.0,
		MaxCurrent:  125.0,
		MinCapacity: 0.0,
		Tolerance:   0.015,
	}
}

// LowerBound scales a lower limit by the tolerance band
func (l Limits) LowerBound(bound float64) float64 {
	return bound * (1 - l.Tolerance)
}

// UpperBound scales an upper limit by the tolerance band
func (l Limits) UpperBound(bound float64) float64 {
	return bound * (1 + l.Tolerance)
}

// EffectiveMinVoltage returns the tolerance-scaled voltage floor
func (l Limits) EffectiveMinVoltage() float64 { return l.LowerBound(l.MinVoltage) }

// EffectiveMaxVoltage returns the tolerance-scaled voltage ceiling
func (l Limits) EffectiveMaxVoltage() float64 { return l.UpperBound(l.MaxVoltage) }

// EffectiveMinCurrent returns the tolerance-scaled current floor
func (l Limits) EffectiveMinCurrent() float64 { return l.LowerBound(l.MinCurrent) }

// EffectiveMaxCurrent returns the tolerance-scaled current ceiling
func (l Limits) EffectiveMaxCurrent() float64 { return l.UpperBound(l.MaxCurrent) }

// EffectiveMinCapacity returns the tolerance-scaled capacity floor. The same
// tolerance as the electrical bounds applies.
func (l Limits) EffectiveMinCapacity() float64 { return l.LowerBound(l.MinCapacity) }

// WithTolerance returns a copy of l with a different tolerance
func (l Limits) WithTolerance(tolerance float64) Limits {
	l.Tolerance = tolerance
	return l
}

// Validate checks that the limits describe a usable configuration
func (l Limits) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"min_voltage", l.MinVoltage},
		{"max_voltage", l.MaxVoltage},
		{"min_current", l.MinCurrent},
		{"max_current", l.MaxCurrent},
		{"min_capacity", l.MinCapacity},
		{"tolerance", l.Tolerance},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return core.NewLimitsError(f.name, "must be finite")
		}
	}

	if l.Tolerance < 0 {
		return core.NewLimitsError("tolerance", "must not be negative")
	}
	if l.MinVoltage > l.MaxVoltage {
		return core.NewLimitsError("min_voltage", "exceeds max_voltage")
	}
	if l.MinCurrent > l.MaxCurrent {
		return core.NewLimitsError("min_current", "exceeds max_current")
	}
	if l.MinCapacity < 0 {
		return core.NewLimitsError("min_capacity", "must not be negative")
	}
	return nil
}
