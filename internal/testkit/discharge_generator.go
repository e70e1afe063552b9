package testkit

import (
	"math"
	"math/rand"

	"battcheck/domain/measurement"
)

// DischargeProfile configures the synthetic discharge curve generator
type DischargeProfile struct {
	Samples        int     `json:"samples"`
	StartVoltage   float64 `json:"start_voltage"`
	EndVoltage     float64 `json:"end_voltage"`
	Current        float64 `json:"current"`
	NoiseAmplitude float64 `json:"noise_amplitude"`
	Seed           int64   `json:"seed"`
}

// DefaultDischargeProfile returns a curve that passes the reference limits:
// one hour at 8-second cadence, 9.8 V down to 5.2 V at about 100 A.
func DefaultDischargeProfile() DischargeProfile {
	return DischargeProfile{
		Samples:        450,
		StartVoltage:   9.8,
		EndVoltage:     5.2,
		Current:        100,
		NoiseAmplitude: 2,
		Seed:           42,
	}
}

// DischargeGenerator produces deterministic, seeded discharge traces
type DischargeGenerator struct {
	profile DischargeProfile
	rng     *rand.Rand
}

// NewDischargeGenerator creates a new discharge generator
func NewDischargeGenerator(profile DischargeProfile) *DischargeGenerator {
	return &DischargeGenerator{
		profile: profile,
		rng:     rand.New(rand.NewSource(profile.Seed)),
	}
}

// Generate builds the sample set. Voltage follows a plateau with a knee near
// the end of discharge; current is constant plus bounded uniform noise.
func (g *DischargeGenerator) Generate() measurement.SampleSet {
	n := g.profile.Samples
	if n <= 0 {
		return measurement.SampleSet{}
	}

	samples := make(measurement.SampleSet, n)
	span := g.profile.StartVoltage - g.profile.EndVoltage
	for i := 0; i < n; i++ {
		progress := 0.0
		if n > 1 {
			progress = float64(i) / float64(n-1)
		}

		// 70% of the drop is linear, the remaining 30% arrives in the knee
		drop := 0.7*progress + 0.3*math.Pow(progress, 8)
		voltage := g.profile.StartVoltage - span*drop

		current := g.profile.Current + g.noise()
		samples[i] = measurement.Sample{
			Voltage: round(voltage, 4),
			Current: round(current, 4),
		}
	}
	return samples
}

// GenerateWithSpikes returns Generate() with the given samples overwritten
func (g *DischargeGenerator) GenerateWithSpikes(spikes map[int]measurement.Sample) measurement.SampleSet {
	samples := g.Generate()
	for idx, sample := range spikes {
		if idx >= 0 && idx < len(samples) {
			samples[idx] = sample
		}
	}
	return samples
}

func (g *DischargeGenerator) noise() float64 {
	if g.profile.NoiseAmplitude == 0 {
		return 0
	}
	return (g.rng.Float64()*2 - 1) * g.profile.NoiseAmplitude
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
