package battery

import (
	"math"

	"battcheck/domain/core"
	"battcheck/domain/measurement"
	"battcheck/domain/verdict"
	"battcheck/internal/capacity"
	"battcheck/internal/errors"
	"battcheck/internal/profiling"
	"battcheck/internal/validation"
)

// Evaluator composes range validation and capacity integration into a
// pass/fail verdict for one battery test run
type Evaluator struct {
	validator     *validation.RangeValidator
	integrator    *capacity.Integrator
	intervalHours float64
}

// NewEvaluator creates an evaluator for the given fixed sampling interval
func NewEvaluator(intervalHours float64) *Evaluator {
	return &Evaluator{
		validator:     validation.NewRangeValidator(),
		integrator:    capacity.NewIntegrator(),
		intervalHours: intervalHours,
	}
}

// NewDefaultEvaluator creates an evaluator for the 8-second rig cadence
func NewDefaultEvaluator() *Evaluator {
	return NewEvaluator(measurement.DefaultIntervalHours)
}

// IntervalHours returns the sampling interval the evaluator integrates over
func (e *Evaluator) IntervalHours() float64 {
	return e.intervalHours
}

// Evaluate runs the capacity integration and range checks and builds the
// verdict. Range violations and capacity shortfall are reported in the
// verdict. Malformed limits, a bad interval, non-finite samples and a capacity
// that overflows are returned as errors.
func (e *Evaluator) Evaluate(samples measurement.SampleSet, limits measurement.Limits) (*verdict.Verdict, error) {
	if err := limits.Validate(); err != nil {
		return nil, errors.FromDomain(err)
	}
	if err := capacity.ValidateInterval(e.intervalHours); err != nil {
		return nil, errors.FromDomain(err)
	}

	// Capacity first: it feeds both the verdict and the report
	capacityResult, err := e.integrator.Integrate(samples, e.intervalHours)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if capacityResult.NonFinite {
		idx := capacityResult.NonFiniteIndex
		return nil, errors.FromDomain(core.NewNonFiniteError("current", idx, samples[idx].Current))
	}
	if capacityResult.Overflow {
		idx := capacityResult.OverflowIndex
		return nil, errors.FromDomain(core.NewOverflowError(idx, idx+1))
	}
	for i, sample := range samples {
		if math.IsNaN(sample.Voltage) || math.IsInf(sample.Voltage, 0) {
			return nil, errors.FromDomain(core.NewNonFiniteError("voltage", i, sample.Voltage))
		}
	}

	violations := e.validator.Validate(samples, limits)

	reasons := make([]string, 0, len(violations)+1)
	for _, violation := range violations {
		reasons = append(reasons, violation.Reason())
	}

	requiredAh := limits.EffectiveMinCapacity()
	shortfall := capacityResult.TotalAh < requiredAh
	if shortfall {
		reasons = append(reasons, verdict.CapacityShortfallReason(capacityResult.TotalAh, requiredAh))
	}

	return &verdict.Verdict{
		Passed:     len(violations) == 0 && !shortfall,
		Capacity:   capacityResult,
		Extremes:   profiling.ComputeExtremes(samples),
		Violations: violations,
		Reasons:    reasons,
	}, nil
}

// Fingerprint hashes a verdict so identical evaluations can be compared
func Fingerprint(v *verdict.Verdict) (core.Hash, error) {
	return core.ComputeFingerprint(v)
}
