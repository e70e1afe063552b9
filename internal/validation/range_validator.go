package validation

import (
	"battcheck/domain/measurement"
	"battcheck/domain/verdict"
)

// RangeValidator checks every sample against the tolerance-scaled voltage and
// current bounds. All four bounds are checked independently, so a single
// sample can yield more than one violation.
type RangeValidator struct{}

// NewRangeValidator creates a range validator
func NewRangeValidator() *RangeValidator {
	return &RangeValidator{}
}

// Validate returns one violation per sample per violated bound, in sample
// order. Within a sample the order is voltage low, voltage high, current low,
// current high.
func (rv *RangeValidator) Validate(samples measurement.SampleSet, limits measurement.Limits) []verdict.RangeViolation {
	minV := limits.EffectiveMinVoltage()
	maxV := limits.EffectiveMaxVoltage()
	minI := limits.EffectiveMinCurrent()
	maxI := limits.EffectiveMaxCurrent()

	violations := make([]verdict.RangeViolation, 0)
	for i, sample := range samples {
		if sample.Voltage < minV {
			violations = append(violations, verdict.RangeViolation{Kind: verdict.VoltageLow, SampleIndex: i, Value: sample.Voltage, Bound: minV})
		}
		if sample.Voltage > maxV {
			violations = append(violations, verdict.RangeViolation{Kind: verdict.VoltageHigh, SampleIndex: i, Value: sample.Voltage, Bound: maxV})
		}
		if sample.Current < minI {
			violations = append(violations, verdict.RangeViolation{Kind: verdict.CurrentLow, SampleIndex: i, Value: sample.Current, Bound: minI})
		}
		if sample.Current > maxI {
			violations = append(violations, verdict.RangeViolation{Kind: verdict.CurrentHigh, SampleIndex: i, Value: sample.Current, Bound: maxI})
		}
	}
	return violations
}
