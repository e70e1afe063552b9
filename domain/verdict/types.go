package verdict

import (
	"fmt"

	"battcheck/domain/measurement"
)

// ViolationKind names the bound a sample violated
type ViolationKind string

const (
	VoltageLow  ViolationKind = "voltage_low"
	VoltageHigh ViolationKind = "voltage_high"
	CurrentLow  ViolationKind = "current_low"
	CurrentHigh ViolationKind = "current_high"
)

// RangeViolation records one sample outside one tolerance-scaled bound
type RangeViolation struct {
	Kind        ViolationKind `json:"kind"`
	SampleIndex int           `json:"sample_index"`
	Value       float64       `json:"value"`
	Bound       float64       `json:"bound"`
}

// Reason renders the violation as a human-readable fail reason
func (v RangeViolation) Reason() string {
	switch v.Kind {
	case VoltageLow:
		return fmt.Sprintf("voltage below minimum at sample %d: %.2f V (limit %.3f V)", v.SampleIndex, v.Value, v.Bound)
	case VoltageHigh:
		return fmt.Sprintf("voltage above maximum at sample %d: %.2f V (limit %.3f V)", v.SampleIndex, v.Value, v.Bound)
	case CurrentLow:
		return fmt.Sprintf("current below minimum at sample %d: %.2f A (limit %.3f A)", v.SampleIndex, v.Value, v.Bound)
	case CurrentHigh:
		return fmt.Sprintf("current above maximum at sample %d: %.2f A (limit %.3f A)", v.SampleIndex, v.Value, v.Bound)
	default:
		return fmt.Sprintf("%s at sample %d: %.2f (limit %.3f)", v.Kind, v.SampleIndex, v.Value, v.Bound)
	}
}

// TraceEntry is one trapezoid of the capacity integration
type TraceEntry struct {
	From         int     `json:"from"`
	To           int     `json:"to"`
	IntervalAh   float64 `json:"interval_ah"`
	CumulativeAh float64 `json:"cumulative_ah"`
}

// CapacityResult is the integrated charge plus its audit trace.
// NonFinite is set when a current value was NaN or infinite; TotalAh is then 0
// and NonFiniteIndex names the first offending sample. Overflow is set when
// finite currents still drive a trapezoid or the running total out of range;
// OverflowIndex is the first such trace entry and TotalAh is 0.
type CapacityResult struct {
	TotalAh        float64      `json:"total_ah"`
	Trace          []TraceEntry `json:"trace"`
	NonFinite      bool         `json:"non_finite"`
	NonFiniteIndex int          `json:"non_finite_index"`
	Overflow       bool         `json:"overflow"`
	OverflowIndex  int          `json:"overflow_index"`
}

// CapacityShortfallReason renders the fail reason for insufficient capacity
func CapacityShortfallReason(measuredAh, requiredAh float64) string {
	return fmt.Sprintf("capacity below minimum: %.4f Ah (limit %.4f Ah)", measuredAh, requiredAh)
}

// Verdict is the complete outcome of one test run
type Verdict struct {
	Passed     bool                      `json:"passed"`
	Capacity   CapacityResult            `json:"capacity"`
	Extremes   *measurement.ExtremeStats `json:"extremes,omitempty"`
	Violations []RangeViolation          `json:"violations"`
	Reasons    []string                  `json:"reasons"`
}

// Status renders the verdict as PASS or FAIL
func (v *Verdict) Status() string {
	if v.Passed {
		return "PASS"
	}
	return "FAIL"
}

// HasData reports whether extremes could be computed
func (v *Verdict) HasData() bool {
	return v.Extremes != nil
}

// CountByKind tallies violations per bound kind
func (v *Verdict) CountByKind() map[ViolationKind]int {
	counts := make(map[ViolationKind]int)
	for _, violation := range v.Violations {
		counts[violation.Kind]++
	}
	return counts
}
