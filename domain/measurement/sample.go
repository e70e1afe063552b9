package measurement

// DefaultIntervalHours is the fixed sampling period of the test rig: one
// sample every 8 seconds, expressed in hours.
const DefaultIntervalHours = 8.0 / 3600.0

// Sample is one paired voltage/current reading
type Sample struct {
	Voltage float64 `json:"voltage"`
	Current float64 `json:"current"`
}

// SampleSet is an ordered sequence of samples in acquisition order. The
// evaluation engines only read it.
type SampleSet []Sample

// Len returns the number of samples
func (s SampleSet) Len() int {
	return len(s)
}

// IsEmpty reports whether the set holds no samples
func (s SampleSet) IsEmpty() bool {
	return len(s) == 0
}

// Voltages returns a copy of the voltage channel
func (s SampleSet) Voltages() []float64 {
	out := make([]float64, len(s))
	for i, sample := range s {
		out[i] = sample.Voltage
	}
	return out
}

// Currents returns a copy of the current channel
func (s SampleSet) Currents() []float64 {
	out := make([]float64, len(s))
	for i, sample := range s {
		out[i] = sample.Current
	}
	return out
}

// Slice returns samples [from, to] inclusive. Bounds are clamped to the set.
func (s SampleSet) Slice(from, to int) SampleSet {
	if from < 0 {
		from = 0
	}
	if to >= len(s) {
		to = len(s) - 1
	}
	if from > to {
		return SampleSet{}
	}
	out := make(SampleSet, to-from+1)
	copy(out, s[from:to+1])
	return out
}

// ExtremeStats holds the observed minimum and maximum of both channels
type ExtremeStats struct {
	MinVoltage float64 `json:"min_voltage"`
	MaxVoltage float64 `json:"max_voltage"`
	MinCurrent float64 `json:"min_current"`
	MaxCurrent float64 `json:"max_current"`
}

// ChannelSummary describes the distribution of one measurement channel
type ChannelSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// SampleSummary holds per-channel summaries for reporting
type SampleSummary struct {
	SampleCount int            `json:"sample_count"`
	Voltage     ChannelSummary `json:"voltage"`
	Current     ChannelSummary `json:"current"`
}
