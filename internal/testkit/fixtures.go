package testkit

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"battcheck/domain/measurement"
)

// WriteTextFixture writes samples as a two-column whitespace-delimited file
// and returns its path
func WriteTextFixture(dir, name string, samples measurement.SampleSet) (string, error) {
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create fixture %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, s := range samples {
		if _, err := fmt.Fprintf(w, "%.4f %.4f\n", s.Voltage, s.Current); err != nil {
			return "", fmt.Errorf("failed to write fixture %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush fixture %s: %w", path, err)
	}
	return path, nil
}

// ReferenceSamples is the three-point ramp used across the test suites
func ReferenceSamples() measurement.SampleSet {
	return measurement.SampleSet{{Voltage: 5.0, Current: 0.0}, {Voltage: 7.5, Current: 62.5}, {Voltage: 10.0, Current: 125.0}}
}
