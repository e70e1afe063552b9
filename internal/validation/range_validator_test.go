package validation

import (
	"testing"

	"battcheck/domain/measurement"
	"battcheck/domain/verdict"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeValidator_Validate(t *testing.T) {
	validator := NewRangeValidator()
	limits := measurement.DefaultLimits()

	tests := []struct {
		name     string
		samples  measurement.SampleSet
		expected []verdict.RangeViolation
	}{
		{
			name:     "empty set yields no violations",
			samples:  measurement.SampleSet{},
			expected: []verdict.RangeViolation{},
		},
		{
			name:     "samples on the nominal bounds pass",
			samples:  measurement.SampleSet{{Voltage: 5.0, Current: 0.0}, {Voltage: 7.5, Current: 62.5}, {Voltage: 10.0, Current: 125.0}},
			expected: []verdict.RangeViolation{},
		},
		{
			name:     "values inside the tolerance band pass",
			samples:  measurement.SampleSet{{Voltage: 4.95, Current: 0.0}, {Voltage: 10.1, Current: 126.0}},
			expected: []verdict.RangeViolation{},
		},
		{
			name:    "voltage over maximum",
			samples: measurement.SampleSet{{Voltage: 7.0, Current: 10.0}, {Voltage: 11.0, Current: 0.0}},
			expected: []verdict.RangeViolation{
				{Kind: verdict.VoltageHigh, SampleIndex: 1, Value: 11.0, Bound: 10.15},
			},
		},
		{
			name:    "one sample violating voltage and current",
			samples: measurement.SampleSet{{Voltage: 4.0, Current: 130.0}},
			expected: []verdict.RangeViolation{
				{Kind: verdict.VoltageLow, SampleIndex: 0, Value: 4.0, Bound: 4.925},
				{Kind: verdict.CurrentHigh, SampleIndex: 0, Value: 130.0, Bound: 126.875},
			},
		},
		{
			name:    "negative current violates the zero floor",
			samples: measurement.SampleSet{{Voltage: 6.0, Current: -0.5}, {Voltage: 6.0, Current: 1.0}, {Voltage: 12.0, Current: -1.0}},
			expected: []verdict.RangeViolation{
				{Kind: verdict.CurrentLow, SampleIndex: 0, Value: -0.5, Bound: 0},
				{Kind: verdict.VoltageHigh, SampleIndex: 2, Value: 12.0, Bound: 10.15},
				{Kind: verdict.CurrentLow, SampleIndex: 2, Value: -1.0, Bound: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validator.Validate(tt.samples, limits)
			require.Len(t, got, len(tt.expected))
			for i := range tt.expected {
				assert.Equal(t, tt.expected[i].Kind, got[i].Kind)
				assert.Equal(t, tt.expected[i].SampleIndex, got[i].SampleIndex)
				assert.Equal(t, tt.expected[i].Value, got[i].Value)
				assert.InDelta(t, tt.expected[i].Bound, got[i].Bound, 1e-9)
			}
		})
	}
}

func TestRangeValidator_BothBoundsOfOneChannel(t *testing.T) {
	// min == max: both sides are still checked independently
	limits := measurement.Limits{MinVoltage: 6, MaxVoltage: 6, MinCurrent: 0, MaxCurrent: 10}
	got := NewRangeValidator().Validate(measurement.SampleSet{{Voltage: 5.9, Current: 1}, {Voltage: 6.1, Current: 1}, {Voltage: 6, Current: 1}}, limits)

	require.Len(t, got, 2)
	assert.Equal(t, verdict.VoltageLow, got[0].Kind)
	assert.Equal(t, verdict.VoltageHigh, got[1].Kind)
}

func TestRangeValidator_Completeness(t *testing.T) {
	limits := measurement.DefaultLimits()
	samples := measurement.SampleSet{
		{Voltage: 3.0, Current: 50}, {Voltage: 10.2, Current: 50}, {Voltage: 7.0, Current: -2}, {Voltage: 7.0, Current: 127}, {Voltage: 7.0, Current: 50}, {Voltage: 20.0, Current: 500},
	}
	got := NewRangeValidator().Validate(samples, limits)

	present := make(map[verdict.ViolationKind]map[int]bool)
	for _, v := range got {
		if present[v.Kind] == nil {
			present[v.Kind] = make(map[int]bool)
		}
		present[v.Kind][v.SampleIndex] = true
	}

	for i, s := range samples {
		if s.Voltage < limits.EffectiveMinVoltage() {
			assert.True(t, present[verdict.VoltageLow][i], "missing VoltageLow at %d", i)
		}
		if s.Voltage > limits.EffectiveMaxVoltage() {
			assert.True(t, present[verdict.VoltageHigh][i], "missing VoltageHigh at %d", i)
		}
		if s.Current < limits.EffectiveMinCurrent() {
			assert.True(t, present[verdict.CurrentLow][i], "missing CurrentLow at %d", i)
		}
		if s.Current > limits.EffectiveMaxCurrent() {
			assert.True(t, present[verdict.CurrentHigh][i], "missing CurrentHigh at %d", i)
		}
	}
	assert.Len(t, got, 6)
}

func TestRangeValidator_WiderToleranceNeverAddsViolations(t *testing.T) {
	samples := measurement.SampleSet{
		{Voltage: 4.9, Current: 0}, {Voltage: 4.8, Current: 10}, {Voltage: 10.1, Current: 126}, {Voltage: 10.3, Current: 128}, {Voltage: 7, Current: 60}, {Voltage: 5.2, Current: 130},
	}
	validator := NewRangeValidator()
	base := measurement.DefaultLimits()

	previous := len(validator.Validate(samples, base.WithTolerance(0)))
	for _, tol := range []float64{0.005, 0.015, 0.02, 0.05, 0.1, 0.5} {
		count := len(validator.Validate(samples, base.WithTolerance(tol)))
		assert.LessOrEqual(t, count, previous, "tolerance %v increased violations", tol)
		previous = count
	}
}
