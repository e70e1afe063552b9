package profiling

import (
	"battcheck/domain/measurement"

	"github.com/montanaflynn/stats"
)

// DistributionAnalyzer computes descriptive statistics over a sample set
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// Summarize computes per-channel statistics. It returns nil for an empty set.
func (da *DistributionAnalyzer) Summarize(samples measurement.SampleSet) (*measurement.SampleSummary, error) {
	if samples.IsEmpty() {
		return nil, nil
	}

	voltage, err := summarizeChannel(samples.Voltages())
	if err != nil {
		return nil, err
	}
	current, err := summarizeChannel(samples.Currents())
	if err != nil {
		return nil, err
	}

	return &measurement.SampleSummary{
		SampleCount: samples.Len(),
		Voltage:     voltage,
		Current:     current,
	}, nil
}

func summarizeChannel(data []float64) (measurement.ChannelSummary, error) {
	summary := measurement.ChannelSummary{}

	mean, err := stats.Mean(data)
	if err != nil {
		return summary, err
	}

	// Population standard deviation; a single sample has zero spread
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return summary, err
	}

	median, err := stats.Median(data)
	if err != nil {
		return summary, err
	}

	q25, err := stats.Percentile(data, 25)
	if err != nil {
		return summary, err
	}

	q75, err := stats.Percentile(data, 75)
	if err != nil {
		return summary, err
	}

	summary.Mean = mean
	summary.StdDev = stdDev
	summary.Median = median
	summary.Q25 = q25
	summary.Q75 = q75
	return summary, nil
}
