package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"battcheck/adapters/battery"
	"battcheck/adapters/excel"
	"battcheck/adapters/report"
	"battcheck/adapters/textfile"
	"battcheck/app"
	"battcheck/internal/config"
	"battcheck/internal/logging"
	"battcheck/ports"
)

// limitFlags are the overrides shared by evaluate and batch
type limitFlags struct {
	profile     string
	minCapacity float64
	tolerance   float64
	formats     string
	outDir      string
	csvLog      string
	raw         bool
	trace       bool
}

func (f *limitFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.profile, "profile", "", "Limit profile file (.yaml, .yml or .json)")
	cmd.Flags().Float64Var(&f.minCapacity, "min-capacity", 0, "Minimum capacity in Ah (overrides MIN_CAPACITY)")
	cmd.Flags().Float64Var(&f.tolerance, "tolerance", 0, "Fractional tolerance band (overrides TOLERANCE)")
	cmd.Flags().StringVar(&f.formats, "format", "", "Report formats: text,raw,csv,xlsx,markdown,html or all (overrides REPORT_FORMATS)")
	cmd.Flags().StringVar(&f.outDir, "out", "", "Output directory (overrides OUTPUT_DIR)")
	cmd.Flags().StringVar(&f.csvLog, "csv-log", "", "CSV log file (overrides CSV_LOG_FILE)")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "Also save the raw measurement data")
	cmd.Flags().BoolVar(&f.trace, "trace", false, "Include the capacity trace in the text report")
}

// resolveConfig loads the environment, applies the profile and then the flags
func (f *limitFlags) resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := initLogger(cfg); err != nil {
		return nil, err
	}

	if f.profile != "" {
		name, err := config.LoadProfile(cfg, f.profile)
		if err != nil {
			return nil, err
		}
		logger.Info("limit profile applied", zap.String("profile", name), zap.String("path", f.profile))
	}

	if cmd.Flags().Changed("min-capacity") {
		cfg.Limits.MinCapacity = f.minCapacity
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Limits.Tolerance = f.tolerance
	}
	if f.formats != "" {
		cfg.Output.Formats = splitFormats(f.formats)
	}
	if f.outDir != "" {
		cfg.Output.Dir = f.outDir
	}
	if f.csvLog != "" {
		cfg.Output.CSVLogFile = f.csvLog
	}
	if f.raw {
		cfg.Output.SaveRawData = true
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitFormats(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.ToLower(strings.TrimSpace(part)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func initLogger(cfg *config.Config) error {
	l, _, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func reportFormats(cfg *config.Config) ([]report.Format, error) {
	var formats []report.Format
	for _, spec := range cfg.Output.Formats {
		parsed, err := report.ParseFormats(spec)
		if err != nil {
			return nil, err
		}
		formats = appendUnique(formats, parsed...)
	}
	if cfg.Output.SaveRawData {
		formats = appendUnique(formats, report.FormatRaw)
	}
	return formats, nil
}

func appendUnique(formats []report.Format, more ...report.Format) []report.Format {
	for _, m := range more {
		found := false
		for _, f := range formats {
			if f == m {
				found = true
				break
			}
		}
		if !found {
			formats = append(formats, m)
		}
	}
	return formats
}

// buildService wires the sources, the evaluator and the file sink
func buildService(cfg *config.Config, includeTrace bool) (*app.TestRunService, error) {
	formats, err := reportFormats(cfg)
	if err != nil {
		return nil, err
	}

	opts := []report.FileSinkOption{report.WithTrace(includeTrace), report.WithLogger(logger)}
	if cfg.Output.CSVLogFile != "" {
		csvPath := cfg.Output.CSVLogFile
		if !filepath.IsAbs(csvPath) {
			csvPath = filepath.Join(cfg.Output.Dir, csvPath)
		}
		opts = append(opts, report.WithCSVLogPath(csvPath))
	}

	spreadsheet := excel.NewDataReader(excel.DefaultExcelConfig(), logger)
	source := app.NewSourceRouter(textfile.NewParser(), map[string]ports.SampleSourcePort{
		".xlsx": spreadsheet,
		".csv":  spreadsheet,
	})

	var sinks []ports.ReportSinkPort
	if len(formats) > 0 {
		sinks = append(sinks, report.NewFileSink(cfg.Output.Dir, formats, opts...))
	}

	evaluator := battery.NewEvaluator(cfg.Sampling.IntervalHours())
	return app.NewTestRunService(source, evaluator, logger, sinks...), nil
}
