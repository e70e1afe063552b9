package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"battcheck/domain/run"
)

// BuildMarkdown renders the run summary as Markdown
func BuildMarkdown(rec *run.Record) ([]byte, error) {
	if rec == nil || rec.Verdict == nil {
		return nil, fmt.Errorf("report record has no verdict")
	}

	var buf bytes.Buffer
	limits := rec.Limits()
	v := rec.Verdict

	fmt.Fprintf(&buf, "# Battery Test Report: %s\n\n", rec.DUTID())
	fmt.Fprintf(&buf, "**Result:** %s\n\n", v.Status())

	buf.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&buf, "| Run-ID | `%s` |\n", rec.RunID())
	fmt.Fprintf(&buf, "| Samples | %d |\n", rec.Samples.Len())
	fmt.Fprintf(&buf, "| Minimum Capacity | %.4f Ah |\n", limits.MinCapacity)
	fmt.Fprintf(&buf, "| Measured Capacity | %.4f Ah |\n", v.Capacity.TotalAh)
	fmt.Fprintf(&buf, "| Voltage Range | %.1f - %.1f V |\n", limits.MinVoltage, limits.MaxVoltage)
	fmt.Fprintf(&buf, "| Current Range | %.1f - %.1f A |\n", limits.MinCurrent, limits.MaxCurrent)
	fmt.Fprintf(&buf, "| Tolerance | %.2f %% |\n", limits.Tolerance*100)
	if v.Extremes != nil {
		fmt.Fprintf(&buf, "| Measured Voltage | %.2f - %.2f V |\n", v.Extremes.MinVoltage, v.Extremes.MaxVoltage)
		fmt.Fprintf(&buf, "| Measured Current | %.2f - %.2f A |\n", v.Extremes.MinCurrent, v.Extremes.MaxCurrent)
	} else {
		buf.WriteString("| Measured Voltage | no data |\n| Measured Current | no data |\n")
	}
	if !rec.Fingerprint.IsEmpty() {
		fmt.Fprintf(&buf, "| Verdict Fingerprint | `%s` |\n", rec.Fingerprint.Short())
	}

	if s := rec.Summary; s != nil {
		buf.WriteString("\n## Distribution\n\n")
		buf.WriteString("| Channel | Mean | Std Dev | Median | Q25 | Q75 |\n|---|---|---|---|---|---|\n")
		fmt.Fprintf(&buf, "| Voltage (V) | %.3f | %.3f | %.3f | %.3f | %.3f |\n",
			s.Voltage.Mean, s.Voltage.StdDev, s.Voltage.Median, s.Voltage.Q25, s.Voltage.Q75)
		fmt.Fprintf(&buf, "| Current (A) | %.3f | %.3f | %.3f | %.3f | %.3f |\n",
			s.Current.Mean, s.Current.StdDev, s.Current.Median, s.Current.Q25, s.Current.Q75)
	}

	if len(v.Reasons) > 0 {
		buf.WriteString("\n## Fail Reasons\n\n")
		for _, reason := range v.Reasons {
			fmt.Fprintf(&buf, "- %s\n", reason)
		}
	}

	return buf.Bytes(), nil
}

// RenderHTML converts Markdown to a standalone HTML page
func RenderHTML(md []byte, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: title,
	})
	return markdown.ToHTML(md, p, renderer)
}

// WriteMarkdown writes the Markdown summary of rec to w
func WriteMarkdown(w io.Writer, rec *run.Record) error {
	md, err := BuildMarkdown(rec)
	if err != nil {
		return err
	}
	_, err = w.Write(md)
	return err
}

// WriteHTML writes the HTML rendering of the Markdown summary of rec to w
func WriteHTML(w io.Writer, rec *run.Record) error {
	md, err := BuildMarkdown(rec)
	if err != nil {
		return err
	}
	_, err = w.Write(RenderHTML(md, "Battery Test Report "+rec.DUTID().String()))
	return err
}
