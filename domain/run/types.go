package run

import (
	"battcheck/domain/core"
	"battcheck/domain/measurement"
	"battcheck/domain/verdict"
)

// Record is everything a report renderer needs for one test run
type Record struct {
	Manifest    *Manifest                  `json:"manifest"`
	Samples     measurement.SampleSet      `json:"samples"`
	Verdict     *verdict.Verdict           `json:"verdict"`
	Summary     *measurement.SampleSummary `json:"summary,omitempty"`
	Fingerprint core.Hash                  `json:"verdict_fingerprint"`
}

// DUTID returns the device-under-test identifier of the run
func (r *Record) DUTID() core.DUTID {
	if r == nil || r.Manifest == nil {
		return ""
	}
	return r.Manifest.DUTID
}

// RunID returns the run identifier
func (r *Record) RunID() core.RunID {
	if r == nil || r.Manifest == nil {
		return ""
	}
	return r.Manifest.RunID
}

// Limits returns the limits the run was evaluated against
func (r *Record) Limits() measurement.Limits {
	if r == nil || r.Manifest == nil {
		return measurement.Limits{}
	}
	return r.Manifest.Limits
}

// Passed reports the run outcome; a record without a verdict never passes
func (r *Record) Passed() bool {
	return r != nil && r.Verdict != nil && r.Verdict.Passed
}

// ArtifactBase is the filename stem used for every artifact of the run
func (r *Record) ArtifactBase() string {
	if id := r.DUTID(); id != "" {
		return id.String()
	}
	return r.RunID().String()
}
