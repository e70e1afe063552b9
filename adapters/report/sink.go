package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"battcheck/domain/run"
	"battcheck/internal/errors"
)

// Format names one report artifact type
type Format string

const (
	FormatText     Format = "text"
	FormatRaw      Format = "raw"
	FormatCSV      Format = "csv"
	FormatXLSX     Format = "xlsx"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// AllFormats lists every supported format in write order
var AllFormats = []Format{FormatText, FormatRaw, FormatCSV, FormatXLSX, FormatMarkdown, FormatHTML}

// DefaultCSVLogName is the shared log file appended to by every run
const DefaultCSVLogName = "test_log.csv"

// ParseFormats parses a comma separated format list. "all" selects every format.
func ParseFormats(s string) ([]Format, error) {
	seen := make(map[Format]bool)
	var formats []Format
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if name == "all" {
			return append([]Format(nil), AllFormats...), nil
		}
		if name == "md" {
			name = string(FormatMarkdown)
		}
		format := Format(name)
		if !isKnownFormat(format) {
			return nil, errors.ConfigInvalid(fmt.Sprintf("unknown report format %q", name))
		}
		if !seen[format] {
			seen[format] = true
			formats = append(formats, format)
		}
	}
	return formats, nil
}

func isKnownFormat(f Format) bool {
	for _, known := range AllFormats {
		if f == known {
			return true
		}
	}
	return false
}

// FileSink writes report artifacts for each run into a directory
type FileSink struct {
	dir          string
	formats      []Format
	csvLogPath   string
	includeTrace bool
	logger       *zap.Logger
}

// FileSinkOption configures a FileSink
type FileSinkOption func(*FileSink)

// WithCSVLogPath overrides the CSV log location
func WithCSVLogPath(path string) FileSinkOption {
	return func(s *FileSink) { s.csvLogPath = path }
}

// WithTrace includes the capacity trace in the text report
func WithTrace(include bool) FileSinkOption {
	return func(s *FileSink) { s.includeTrace = include }
}

// WithLogger sets the sink logger
func WithLogger(logger *zap.Logger) FileSinkOption {
	return func(s *FileSink) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFileSink creates a sink writing formats into dir
func NewFileSink(dir string, formats []Format, opts ...FileSinkOption) *FileSink {
	if dir == "" {
		dir = "."
	}
	s := &FileSink{
		dir:        dir,
		formats:    formats,
		csvLogPath: filepath.Join(dir, DefaultCSVLogName),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Formats returns the formats the sink writes
func (s *FileSink) Formats() []Format {
	return s.formats
}

// Write renders every configured format and returns the written paths
func (s *FileSink) Write(ctx context.Context, rec *run.Record) ([]string, error) {
	if rec == nil || rec.Verdict == nil {
		return nil, errors.InvalidInput("report record has no verdict")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, errors.ReportError("output", err)
	}

	base := rec.ArtifactBase()
	var paths []string
	for _, format := range s.formats {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		path, err := s.writeFormat(format, base, rec)
		if err != nil {
			return paths, errors.ReportError(string(format), err)
		}
		s.logger.Debug("report artifact written",
			zap.String("format", string(format)),
			zap.String("path", path),
			zap.String("run_id", rec.RunID().String()))
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *FileSink) writeFormat(format Format, base string, rec *run.Record) (string, error) {
	switch format {
	case FormatText:
		return s.writeFile(base+"_report.txt", func(w io.Writer) error {
			return WriteText(w, rec, TextOptions{IncludeTrace: s.includeTrace})
		})
	case FormatRaw:
		return s.writeFile(base+"_raw_data.txt", func(w io.Writer) error {
			return WriteRawData(w, rec.Samples)
		})
	case FormatCSV:
		return s.csvLogPath, AppendCSVLog(s.csvLogPath, rec)
	case FormatXLSX:
		return s.writeFile(base+"_report.xlsx", func(w io.Writer) error {
			return WriteWorkbook(w, rec)
		})
	case FormatMarkdown:
		return s.writeFile(base+"_report.md", func(w io.Writer) error {
			return WriteMarkdown(w, rec)
		})
	case FormatHTML:
		return s.writeFile(base+"_report.html", func(w io.Writer) error {
			return WriteHTML(w, rec)
		})
	default:
		return "", fmt.Errorf("unknown report format %q", format)
	}
}

func (s *FileSink) writeFile(name string, render func(io.Writer) error) (string, error) {
	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := render(f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
