package measurement

import (
	"errors"
	"math"
	"testing"

	"battcheck/domain/core"
)

func TestLimits_EffectiveBounds(t *testing.T) {
	limits := DefaultLimits()

	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"voltage floor", limits.EffectiveMinVoltage(), 4.925},
		{"voltage ceiling", limits.EffectiveMaxVoltage(), 10.15},
		{"zero current floor stays zero", limits.EffectiveMinCurrent(), 0.0},
		{"current ceiling", limits.EffectiveMaxCurrent(), 126.875},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, tt.got)
			}
		})
	}
}

func TestLimits_NegativeBoundUsesSameConvention(t *testing.T) {
	limits := Limits{MinCurrent: -10, MaxCurrent: 10, Tolerance: 0.1}

	// -10 * (1 - 0.1) = -9: the formula is applied regardless of sign
	if got := limits.EffectiveMinCurrent(); math.Abs(got-(-9.0)) > 1e-9 {
		t.Errorf("Expected -9, got %f", got)
	}
}

func TestLimits_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(l *Limits)
		wantErr bool
	}{
		{"defaults are valid", func(l *Limits) {}, false},
		{"zero tolerance is valid", func(l *Limits) { l.Tolerance = 0 }, false},
		{"negative tolerance", func(l *Limits) { l.Tolerance = -0.01 }, true},
		{"inverted voltage range", func(l *Limits) { l.MinVoltage = 11 }, true},
		{"inverted current range", func(l *Limits) { l.MaxCurrent = -1 }, true},
		{"negative capacity", func(l *Limits) { l.MinCapacity = -5 }, true},
		{"NaN bound", func(l *Limits) { l.MaxVoltage = math.NaN() }, true},
		{"infinite tolerance", func(l *Limits) { l.Tolerance = math.Inf(1) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limits := DefaultLimits()
			tt.modify(&limits)

			err := limits.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !errors.Is(err, core.ErrInvalidLimits) {
					t.Errorf("Expected ErrInvalidLimits, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestSampleSet_Slice(t *testing.T) {
	set := SampleSet{{5, 1}, {6, 2}, {7, 3}, {8, 4}}

	sub := set.Slice(1, 2)
	if len(sub) != 2 || sub[0].Current != 2 || sub[1].Current != 3 {
		t.Errorf("Unexpected slice: %+v", sub)
	}

	sub[0].Current = 99
	if set[1].Current != 2 {
		t.Error("Slice must not alias the source set")
	}

	if got := set.Slice(3, 1); len(got) != 0 {
		t.Errorf("Expected empty slice for inverted range, got %+v", got)
	}
	if got := set.Slice(-4, 10); len(got) != 4 {
		t.Errorf("Expected clamped slice of 4, got %d", len(got))
	}
}

func TestSampleSet_Channels(t *testing.T) {
	set := SampleSet{{5, 1}, {6, 2}}

	volts := set.Voltages()
	amps := set.Currents()
	if volts[0] != 5 || volts[1] != 6 {
		t.Errorf("Unexpected voltages %v", volts)
	}
	if amps[0] != 1 || amps[1] != 2 {
		t.Errorf("Unexpected currents %v", amps)
	}
}
