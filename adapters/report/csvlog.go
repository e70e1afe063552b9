package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"battcheck/domain/run"
)

// CSVLogHeader is written once when the log file is created
var CSVLogHeader = []string{
	"run_id", "dut_id", "date", "sample_count", "measured_capacity_ah",
	"min_capacity_ah", "tolerance", "result", "reason_count", "input_hash",
}

// csvLogMu serializes appends so the header check and the first write happen
// as one step
var csvLogMu sync.Mutex

// AppendCSVLog appends one summary row for rec to the CSV log at path. It is
// safe for concurrent use within a process.
func AppendCSVLog(path string, rec *run.Record) error {
	if rec == nil || rec.Verdict == nil || rec.Manifest == nil {
		return fmt.Errorf("report record is incomplete")
	}

	csvLogMu.Lock()
	defer csvLogMu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	needsHeader := false
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		needsHeader = true
	} else if err != nil {
		return fmt.Errorf("failed to stat log file: %w", err)
	} else if info.Size() == 0 {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needsHeader {
		if err := w.Write(CSVLogHeader); err != nil {
			return err
		}
	}
	if err := w.Write(csvLogRow(rec)); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func csvLogRow(rec *run.Record) []string {
	m := rec.Manifest
	date := ""
	if !m.CreatedAt.IsZero() {
		date = m.CreatedAt.Time().Format("2006-01-02T15:04:05Z07:00")
	}
	return []string{
		m.RunID.String(),
		m.DUTID.String(),
		date,
		strconv.Itoa(m.SampleCount),
		strconv.FormatFloat(rec.Verdict.Capacity.TotalAh, 'f', 6, 64),
		strconv.FormatFloat(m.Limits.MinCapacity, 'f', 6, 64),
		strconv.FormatFloat(m.Limits.Tolerance, 'f', 4, 64),
		rec.Verdict.Status(),
		strconv.Itoa(len(rec.Verdict.Reasons)),
		m.InputHash.String(),
	}
}
