package profiling

import (
	"battcheck/domain/measurement"

	"github.com/montanaflynn/stats"
)

// ComputeExtremes scans both channels for their minimum and maximum. An empty
// sample set has no extremes and yields nil.
func ComputeExtremes(samples measurement.SampleSet) *measurement.ExtremeStats {
	if samples.IsEmpty() {
		return nil
	}

	minV, maxV, err := channelRange(samples.Voltages())
	if err != nil {
		return nil
	}
	minI, maxI, err := channelRange(samples.Currents())
	if err != nil {
		return nil
	}

	return &measurement.ExtremeStats{
		MinVoltage: minV,
		MaxVoltage: maxV,
		MinCurrent: minI,
		MaxCurrent: maxI,
	}
}

func channelRange(values []float64) (float64, float64, error) {
	data := stats.Float64Data(values)
	minimum, err := data.Min()
	if err != nil {
		return 0, 0, err
	}
	maximum, err := data.Max()
	if err != nil {
		return 0, 0, err
	}
	return minimum, maximum, nil
}
