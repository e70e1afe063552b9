package run

import (
	"battcheck/domain/core"
	"battcheck/domain/measurement"
)

// Manifest describes the inputs of one evaluation. Its fingerprint covers the
// samples, the limits and the interval, so two runs with equal fingerprints
// must produce identical verdicts.
type Manifest struct {
	RunID         core.RunID         `json:"run_id"`
	DUTID         core.DUTID         `json:"dut_id"`
	DataFile      string             `json:"data_file,omitempty"`
	Limits        measurement.Limits `json:"limits"`
	IntervalHours float64            `json:"interval_hours"`
	SampleCount   int                `json:"sample_count"`
	InputHash     core.Hash          `json:"input_hash"`
	CreatedAt     core.Timestamp     `json:"created_at"`
}

type inputFingerprint struct {
	Limits        measurement.Limits    `json:"limits"`
	IntervalHours float64               `json:"interval_hours"`
	Samples       measurement.SampleSet `json:"samples"`
}

// NewManifest creates a manifest for an evaluation of samples under limits
func NewManifest(
	runID core.RunID,
	dutID core.DUTID,
	dataFile string,
	samples measurement.SampleSet,
	limits measurement.Limits,
	intervalHours float64,
	createdAt core.Timestamp,
) (*Manifest, error) {
	hash, err := ComputeInputHash(samples, limits, intervalHours)
	if err != nil {
		return nil, err
	}

	return &Manifest{
		RunID:         runID,
		DUTID:         dutID,
		DataFile:      dataFile,
		Limits:        limits,
		IntervalHours: intervalHours,
		SampleCount:   samples.Len(),
		InputHash:     hash,
		CreatedAt:     createdAt,
	}, nil
}

// ComputeInputHash hashes everything the evaluator reads
func ComputeInputHash(samples measurement.SampleSet, limits measurement.Limits, intervalHours float64) (core.Hash, error) {
	if samples == nil {
		samples = measurement.SampleSet{}
	}
	return core.ComputeFingerprint(inputFingerprint{
		Limits:        limits,
		IntervalHours: intervalHours,
		Samples:       samples,
	})
}

// Matches reports whether other describes the same evaluation inputs
func (m *Manifest) Matches(other *Manifest) bool {
	if m == nil || other == nil {
		return false
	}
	return m.InputHash.Equals(other.InputHash)
}
