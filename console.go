package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"battcheck/adapters/battery"
	"battcheck/adapters/excel"
	"battcheck/adapters/report"
	"battcheck/adapters/textfile"
	"battcheck/app"
	"battcheck/domain/core"
	"battcheck/internal/config"
	"battcheck/internal/errors"
	"battcheck/ports"
)

// ConsoleSession walks an operator through one battery test interactively
type ConsoleSession struct {
	in     *bufio.Reader
	out    io.Writer
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
}

// NewConsoleSession creates a console session reading answers from in
func NewConsoleSession(in io.Reader, out io.Writer, cfg *config.Config, logger *zap.Logger) *ConsoleSession {
	return &ConsoleSession{
		in:     bufio.NewReader(in),
		out:    out,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Run prompts for the test parameters, evaluates the data file and writes the reports
func (s *ConsoleSession) Run(ctx context.Context) error {
	path, err := s.prompt("Path to the measurement data file: ")
	if err != nil {
		return err
	}
	batteryName, err := s.prompt("Battery name: ")
	if err != nil {
		return err
	}
	deviceName, err := s.prompt("Device name: ")
	if err != nil {
		return err
	}
	minCapacity, err := s.promptFloat("Minimum capacity in Ah: ")
	if err != nil {
		return err
	}

	dutID, err := core.NewDUTID(batteryName, deviceName, s.now())
	if err != nil {
		return errors.WithCode(errors.CodeInvalidInput, err)
	}
	fmt.Fprintf(s.out, "Generated DUT-ID: %s\n", dutID)

	source := s.sampleSource()
	samples, err := source.Load(ctx, path)
	if err != nil {
		return err
	}
	if samples.IsEmpty() {
		fmt.Fprintln(s.out, "No measurement data found.")
		return nil
	}

	for _, sample := range samples {
		fmt.Fprintln(s.out, report.FormatSampleLine(sample))
	}

	limits := s.cfg.Limits
	limits.MinCapacity = minCapacity

	formats, err := s.reportFormats()
	if err != nil {
		return err
	}
	sink := report.NewFileSink(s.cfg.Output.Dir, formats, report.WithTrace(true), report.WithLogger(s.logger))
	svc := app.NewTestRunService(source, battery.NewEvaluator(s.cfg.Sampling.IntervalHours()), s.logger, sink).
		WithClock(s.now)

	result, err := svc.Run(ctx, app.TestRunRequest{
		DataFile: path,
		Samples:  samples,
		DUTID:    dutID,
		Limits:   limits,
	})
	if err != nil {
		return err
	}

	rec := result.Record
	fmt.Fprintln(s.out, "Calculating Capacity:")
	for _, entry := range rec.Verdict.Capacity.Trace {
		fmt.Fprintf(s.out, "Current1: %.2f A, Current2: %.2f A, Trapezoid Area: %.5f Ah, Cumulative Capacity: %.5f Ah\n",
			samples[entry.From].Current, samples[entry.To].Current, entry.IntervalAh, entry.CumulativeAh)
	}
	fmt.Fprintf(s.out, "Test Result: %s\n", rec.Verdict.Status())
	for _, reason := range rec.Verdict.Reasons {
		fmt.Fprintf(s.out, "- %s\n", reason)
	}
	for _, artifact := range result.Artifacts {
		fmt.Fprintf(s.out, "Report written: %s\n", artifact)
	}

	if s.cfg.Output.SaveRawData {
		return nil
	}
	answer, err := s.prompt("Save the raw data? (yes/no): ")
	if err != nil {
		return err
	}
	if !isYes(answer) {
		return nil
	}
	paths, err := report.NewFileSink(s.cfg.Output.Dir, []report.Format{report.FormatRaw}).Write(ctx, rec)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(s.out, "Raw data written: %s\n", p)
	}
	return nil
}

func (s *ConsoleSession) sampleSource() ports.SampleSourcePort {
	spreadsheet := excel.NewDataReader(excel.DefaultExcelConfig(), s.logger)
	return app.NewSourceRouter(textfile.NewParser(), map[string]ports.SampleSourcePort{
		".xlsx": spreadsheet,
		".csv":  spreadsheet,
	})
}

func (s *ConsoleSession) reportFormats() ([]report.Format, error) {
	formats := []report.Format{}
	seen := map[report.Format]bool{}
	for _, spec := range s.cfg.Output.Formats {
		parsed, err := report.ParseFormats(spec)
		if err != nil {
			return nil, err
		}
		for _, f := range parsed {
			if !seen[f] {
				seen[f] = true
				formats = append(formats, f)
			}
		}
	}
	if s.cfg.Output.SaveRawData && !seen[report.FormatRaw] {
		formats = append(formats, report.FormatRaw)
	}
	return formats, nil
}

func (s *ConsoleSession) prompt(message string) (string, error) {
	fmt.Fprint(s.out, message)
	line, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("no answer for %q: %w", strings.TrimSpace(message), err))
	}
	return strings.TrimSpace(line), nil
}

// promptFloat asks until a finite, non-negative number is entered
func (s *ConsoleSession) promptFloat(message string) (float64, error) {
	for {
		answer, err := s.prompt(message)
		if err != nil {
			return 0, err
		}
		value, err := strconv.ParseFloat(strings.Replace(answer, ",", ".", 1), 64)
		if err == nil && value >= 0 && !math.IsInf(value, 1) {
			return value, nil
		}
		fmt.Fprintf(s.out, "Please enter a non-negative number, got %q\n", answer)
	}
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "j", "ja":
		return true
	}
	return false
}
