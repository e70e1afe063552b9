package textfile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"battcheck/domain/core"
	"battcheck/domain/measurement"
	"battcheck/internal/errors"
)

// ParseStats counts what the parser did with each input line
type ParseStats struct {
	Lines   int `json:"lines"`
	Samples int `json:"samples"`
	Blank   int `json:"blank"`
	Skipped int `json:"skipped"` // lines without exactly two fields
}

// Parser reads two-column "voltage current" measurement files
type Parser struct {
	// Strict rejects lines with a wrong field count instead of skipping them
	Strict bool
}

// NewParser creates a lenient parser: wrong-width lines are skipped
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads whitespace-delimited voltage/current pairs. Non-numeric tokens
// are always an error; lines with a field count other than two are skipped
// unless the parser is strict.
func (p *Parser) Parse(r io.Reader) (measurement.SampleSet, ParseStats, error) {
	var stats ParseStats
	samples := make(measurement.SampleSet, 0)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		stats.Lines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			stats.Blank++
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			if p.Strict {
				return nil, stats, lineError(stats.Lines, fmt.Sprintf("expected 2 fields, got %d", len(fields)))
			}
			stats.Skipped++
			continue
		}

		voltage, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, stats, lineError(stats.Lines, fmt.Sprintf("voltage %q is not a number", fields[0]))
		}
		current, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, stats, lineError(stats.Lines, fmt.Sprintf("current %q is not a number", fields[1]))
		}

		samples = append(samples, measurement.Sample{Voltage: voltage, Current: current})
		stats.Samples++
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, errors.Wrap(err, "failed to read measurement data")
	}

	return samples, stats, nil
}

// Load reads and parses a measurement file from disk
func (p *Parser) Load(ctx context.Context, path string) (measurement.SampleSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WithCode(errors.CodeNotFound, fmt.Errorf("failed to open measurement file: %w", err))
	}
	defer file.Close()

	samples, _, err := p.Parse(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return samples, nil
}

func lineError(line int, reason string) error {
	return errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("%w: line %d: %s", core.ErrMalformedLine, line, reason))
}
