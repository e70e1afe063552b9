package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"battcheck/domain/run"
)

// Workbook sheet names
const (
	SummarySheet      = "Summary"
	MeasurementsSheet = "Measurements"
	CapacitySheet     = "Capacity"
)

// WriteWorkbook renders the run as an xlsx workbook with a summary sheet, the
// measurement table plus a voltage/current scatter chart, and the capacity trace
func WriteWorkbook(w io.Writer, rec *run.Record) error {
	f, err := BuildWorkbook(rec)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// BuildWorkbook assembles the workbook in memory; the caller closes it
func BuildWorkbook(rec *run.Record) (*excelize.File, error) {
	if rec == nil || rec.Verdict == nil {
		return nil, fmt.Errorf("report record has no verdict")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, err
	}

	steps := []func(*excelize.File, *run.Record) error{
		writeSummarySheet,
		writeMeasurementsSheet,
		writeCapacitySheet,
	}
	for _, step := range steps {
		if err := step(f, rec); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSummarySheet(f *excelize.File, rec *run.Record) error {
	limits := rec.Limits()
	v := rec.Verdict

	rows := [][]interface{}{
		{"Battery Test Report"},
		{"DUT-ID", rec.DUTID().String()},
		{"Run-ID", rec.RunID().String()},
		{"Minimum Capacity (Ah)", limits.MinCapacity},
		{"Measured Capacity (Ah)", v.Capacity.TotalAh},
		{"Voltage Range (V)", limits.MinVoltage, limits.MaxVoltage},
		{"Current Range (A)", limits.MinCurrent, limits.MaxCurrent},
		{"Tolerance", limits.Tolerance},
	}
	if v.Extremes != nil {
		rows = append(rows,
			[]interface{}{"Measured Voltage (V)", v.Extremes.MinVoltage, v.Extremes.MaxVoltage},
			[]interface{}{"Measured Current (A)", v.Extremes.MinCurrent, v.Extremes.MaxCurrent},
		)
	} else {
		rows = append(rows,
			[]interface{}{"Measured Voltage (V)", "no data"},
			[]interface{}{"Measured Current (A)", "no data"},
		)
	}
	rows = append(rows, []interface{}{"Test Result", v.Status()})
	for _, reason := range v.Reasons {
		rows = append(rows, []interface{}{"Fail Reason", reason})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", "A", 26)
}

func writeMeasurementsSheet(f *excelize.File, rec *run.Record) error {
	if _, err := f.NewSheet(MeasurementsSheet); err != nil {
		return err
	}
	header := []interface{}{"Sample", "Voltage (V)", "Current (A)"}
	if err := f.SetSheetRow(MeasurementsSheet, "A1", &header); err != nil {
		return err
	}

	for i, s := range rec.Samples {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{i, s.Voltage, s.Current}
		if err := f.SetSheetRow(MeasurementsSheet, cell, &row); err != nil {
			return err
		}
	}

	if rec.Samples.IsEmpty() {
		return nil
	}
	return addDischargeChart(f, rec.Samples.Len())
}

func addDischargeChart(f *excelize.File, n int) error {
	last := n + 1
	return f.AddChart(MeasurementsSheet, "E2", &excelize.Chart{
		Type: excelize.Scatter,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$B$1", MeasurementsSheet),
				Categories: fmt.Sprintf("%s!$C$2:$C$%d", MeasurementsSheet, last),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", MeasurementsSheet, last),
				Line:       excelize.ChartLine{Type: excelize.ChartLineNone},
				Marker:     excelize.ChartMarker{Symbol: "circle", Size: 4},
			},
		},
		Title:  []excelize.RichTextRun{{Text: "Voltage vs Current"}},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Current (A)"}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Voltage (V)"}}},
		Legend: excelize.ChartLegend{Position: "none"},
		Dimension: excelize.ChartDimension{
			Width:  640,
			Height: 400,
		},
	})
}

func writeCapacitySheet(f *excelize.File, rec *run.Record) error {
	if _, err := f.NewSheet(CapacitySheet); err != nil {
		return err
	}
	header := []interface{}{"From", "To", "Interval (Ah)", "Cumulative (Ah)"}
	if err := f.SetSheetRow(CapacitySheet, "A1", &header); err != nil {
		return err
	}
	for i, entry := range rec.Verdict.Capacity.Trace {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{entry.From, entry.To, entry.IntervalAh, entry.CumulativeAh}
		if err := f.SetSheetRow(CapacitySheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
