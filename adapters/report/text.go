package report

import (
	"bufio"
	"fmt"
	"io"

	"battcheck/domain/measurement"
	"battcheck/domain/run"
)

// TextOptions controls optional sections of the text report
type TextOptions struct {
	IncludeTrace bool
}

// WriteText renders the plain text report for one run
func WriteText(w io.Writer, rec *run.Record, opts TextOptions) error {
	if rec == nil || rec.Verdict == nil {
		return fmt.Errorf("report record has no verdict")
	}

	bw := bufio.NewWriter(w)
	limits := rec.Limits()
	v := rec.Verdict

	fmt.Fprintln(bw, "Battery Test Report")
	fmt.Fprintf(bw, "DUT-ID: %s\n", rec.DUTID())
	fmt.Fprintf(bw, "Run-ID: %s\n", rec.RunID())
	if rec.Manifest != nil && !rec.Manifest.CreatedAt.IsZero() {
		fmt.Fprintf(bw, "Date: %s\n", rec.Manifest.CreatedAt.Time().Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(bw, "Minimum Capacity: %.4f Ah\n", limits.MinCapacity)
	fmt.Fprintf(bw, "Measured Capacity: %.4f Ah\n", v.Capacity.TotalAh)
	fmt.Fprintf(bw, "Voltage Range: %s - %s V\n", formatBound(limits.MinVoltage), formatBound(limits.MaxVoltage))
	fmt.Fprintf(bw, "Current Range: %s - %s A\n", formatBound(limits.MinCurrent), formatBound(limits.MaxCurrent))
	fmt.Fprintf(bw, "Tolerance: %.2f%%\n", limits.Tolerance*100)
	writeMeasuredRanges(bw, v.Extremes)
	fmt.Fprintf(bw, "Test Result: %s\n", v.Status())

	if len(v.Reasons) > 0 {
		fmt.Fprintln(bw, "Fail Reasons:")
		for _, reason := range v.Reasons {
			fmt.Fprintf(bw, "- %s\n", reason)
		}
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Measurement Data:")
	for _, sample := range rec.Samples {
		fmt.Fprintln(bw, FormatSampleLine(sample))
	}

	if opts.IncludeTrace && len(v.Capacity.Trace) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "Capacity Trace:")
		for _, entry := range v.Capacity.Trace {
			fmt.Fprintf(bw, "Samples %d-%d: Current1: %.2f A, Current2: %.2f A, Interval: %.5f Ah, Cumulative: %.5f Ah\n",
				entry.From, entry.To,
				rec.Samples[entry.From].Current, rec.Samples[entry.To].Current,
				entry.IntervalAh, entry.CumulativeAh)
		}
	}

	return bw.Flush()
}

// FormatSampleLine formats one measurement the way the console table shows it
func FormatSampleLine(s measurement.Sample) string {
	return fmt.Sprintf("Voltage: %.2f V, Current: %.2f A", s.Voltage, s.Current)
}

func writeMeasuredRanges(w io.Writer, extremes *measurement.ExtremeStats) {
	if extremes == nil {
		fmt.Fprintln(w, "Measured Voltage Range: no data")
		fmt.Fprintln(w, "Measured Current Range: no data")
		return
	}
	fmt.Fprintf(w, "Measured Voltage Range: %.2f - %.2f V\n", extremes.MinVoltage, extremes.MaxVoltage)
	fmt.Fprintf(w, "Measured Current Range: %.2f - %.2f A\n", extremes.MinCurrent, extremes.MaxCurrent)
}

func formatBound(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
