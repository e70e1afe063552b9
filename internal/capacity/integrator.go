package capacity

import (
	"fmt"
	"math"

	"battcheck/domain/core"
	"battcheck/domain/measurement"
	"battcheck/domain/verdict"

	"gonum.org/v1/gonum/floats"
)

// Integrator turns a current trace into delivered charge using the trapezoidal
// rule over a fixed sampling interval.
type Integrator struct{}

// NewIntegrator creates a capacity integrator
func NewIntegrator() *Integrator {
	return &Integrator{}
}

// ValidateInterval rejects sampling intervals the integrator cannot use
func ValidateInterval(intervalHours float64) error {
	if math.IsNaN(intervalHours) || math.IsInf(intervalHours, 0) || intervalHours <= 0 {
		return fmt.Errorf("%w: %v h must be positive and finite", core.ErrInvalidInterval, intervalHours)
	}
	return nil
}

// Integrate sums (I[i] + I[i+1]) / 2 * intervalHours over every adjacent pair.
// Fewer than two samples yield zero capacity and an empty trace. A NaN or
// infinite current sets NonFinite, and finite currents that overflow set
// Overflow, instead of leaking into the total.
func (in *Integrator) Integrate(samples measurement.SampleSet, intervalHours float64) (verdict.CapacityResult, error) {
	if err := ValidateInterval(intervalHours); err != nil {
		return verdict.CapacityResult{}, err
	}

	result := verdict.CapacityResult{Trace: []verdict.TraceEntry{}}

	for i, sample := range samples {
		if math.IsNaN(sample.Current) || math.IsInf(sample.Current, 0) {
			result.NonFinite = true
			result.NonFiniteIndex = i
			return result, nil
		}
	}

	if len(samples) < 2 {
		return result, nil
	}

	areas := make([]float64, len(samples)-1)
	for i := 0; i < len(samples)-1; i++ {
		areas[i] = (samples[i].Current + samples[i+1].Current) / 2.0 * intervalHours
	}

	cumulative := floats.CumSum(make([]float64, len(areas)), areas)
	for i := range areas {
		if !isFinite(areas[i]) || !isFinite(cumulative[i]) {
			result.Overflow = true
			result.OverflowIndex = i
			return result, nil
		}
	}

	result.Trace = make([]verdict.TraceEntry, len(areas))
	for i, area := range areas {
		result.Trace[i] = verdict.TraceEntry{
			From:         i,
			To:           i + 1,
			IntervalAh:   area,
			CumulativeAh: cumulative[i],
		}
	}
	result.TotalAh = cumulative[len(cumulative)-1]

	return result, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
