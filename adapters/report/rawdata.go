package report

import (
	"bufio"
	"fmt"
	"io"

	"battcheck/domain/measurement"
)

// WriteRawData writes samples back in the two-column acquisition format
func WriteRawData(w io.Writer, samples measurement.SampleSet) error {
	bw := bufio.NewWriter(w)
	for _, s := range samples {
		if _, err := fmt.Fprintf(bw, "%.2f %.2f\n", s.Voltage, s.Current); err != nil {
			return err
		}
	}
	return bw.Flush()
}
