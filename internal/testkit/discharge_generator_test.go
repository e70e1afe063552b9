package testkit

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"battcheck/domain/measurement"
)

func TestDischargeGenerator_Basic(t *testing.T) {
	profile := DefaultDischargeProfile()
	samples := NewDischargeGenerator(profile).Generate()

	if len(samples) != profile.Samples {
		t.Fatalf("Expected %d samples, got %d", profile.Samples, len(samples))
	}

	if samples[0].Voltage != profile.StartVoltage {
		t.Errorf("Expected first voltage %f, got %f", profile.StartVoltage, samples[0].Voltage)
	}
	last := samples[len(samples)-1]
	if last.Voltage != profile.EndVoltage {
		t.Errorf("Expected last voltage %f, got %f", profile.EndVoltage, last.Voltage)
	}

	for i, s := range samples {
		if s.Current < profile.Current-profile.NoiseAmplitude || s.Current > profile.Current+profile.NoiseAmplitude {
			t.Errorf("Sample %d current %f outside noise band", i, s.Current)
		}
		if i > 0 && s.Voltage > samples[i-1].Voltage {
			t.Errorf("Voltage rose at sample %d", i)
		}
	}
}

func TestDischargeGenerator_Deterministic(t *testing.T) {
	profile := DefaultDischargeProfile()

	first := NewDischargeGenerator(profile).Generate()
	second := NewDischargeGenerator(profile).Generate()
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical output for identical seeds")
	}

	profile.Seed++
	third := NewDischargeGenerator(profile).Generate()
	if reflect.DeepEqual(first, third) {
		t.Error("Expected different output for a different seed")
	}
}

func TestDischargeGenerator_Spikes(t *testing.T) {
	spike := measurement.Sample{Voltage: 11, Current: 0}
	samples := NewDischargeGenerator(DefaultDischargeProfile()).GenerateWithSpikes(map[int]measurement.Sample{
		10:   spike,
		9999: spike,
	})

	if samples[10] != spike {
		t.Errorf("Expected spike at 10, got %+v", samples[10])
	}
}

func TestWriteTextFixture(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteTextFixture(dir, "ramp.txt", ReferenceSamples())
	if err != nil {
		t.Fatalf("WriteTextFixture failed: %v", err)
	}
	if path != filepath.Join(dir, "ramp.txt") {
		t.Errorf("Unexpected path %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 || lines[1] != "7.5000 62.5000" {
		t.Errorf("Unexpected fixture content %q", string(data))
	}
}
