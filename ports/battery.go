package ports

import (
	"battcheck/domain/measurement"
	"battcheck/domain/verdict"
)

// BatteryPort evaluates one battery test run against its limits
type BatteryPort interface {
	Evaluate(samples measurement.SampleSet, limits measurement.Limits) (*verdict.Verdict, error)
	IntervalHours() float64
}
