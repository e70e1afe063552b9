package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"battcheck/domain/core"
	"battcheck/domain/measurement"
	"battcheck/internal/errors"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// DataReader handles reading Excel and CSV measurement files
type DataReader struct {
	config ExcelConfig
	logger *zap.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ExcelConfig, logger *zap.Logger) *DataReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataReader{config: config, logger: logger.Named("data_reader")}
}

// fileType maps the extension to "csv" or "xlsx"
func fileType(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		return "csv"
	}
	return "xlsx"
}

// Load reads a spreadsheet and converts its voltage/current columns to samples
func (r *DataReader) Load(ctx context.Context, path string) (measurement.SampleSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := r.ReadData(path)
	if err != nil {
		return nil, err
	}
	return r.ToSamples(data)
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData(path string) (*SheetData, error) {
	kind := fileType(path)
	r.logger.Debug("reading spreadsheet", zap.String("path", path), zap.String("type", kind))

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(kind), path))
	}

	switch kind {
	case "csv":
		return r.readCSVData(path)
	default:
		return r.readExcelData(path)
	}
}

// readExcelData reads the configured (or first) sheet into structured format
func (r *DataReader) readExcelData(path string) (*SheetData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to open Excel file: %w", err))
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read sheet %q: %w", sheet, err))
	}
	r.logger.Debug("sheet read",
		zap.String("sheet", sheet),
		zap.Int("rows", len(rows)),
		zap.Duration("elapsed", time.Since(startTime)))

	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData(path string) (*SheetData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read CSV file: %w", err))
	}
	r.logger.Debug("csv read", zap.Int("rows", len(rows)))

	return r.processRows(rows)
}

// processRows converts raw string rows into SheetData
func (r *DataReader) processRows(rows [][]string) (*SheetData, error) {
	if len(rows) < 1 {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("%w: spreadsheet has no header row", core.ErrMissingColumn))
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]SheetRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := SheetRow{Number: i + 1, Cells: make(map[string]string, len(headers))}
		for j, cell := range rows[i] {
			if j < len(headers) {
				row.Cells[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, row)
	}

	return &SheetData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

// DetectMeasurementColumns finds the voltage and current headers, honouring
// explicitly configured names first
func (r *DataReader) DetectMeasurementColumns(data *SheetData) (voltage, current string, err error) {
	voltage = findColumn(data.Headers, r.config.VoltageColumn, voltageColumnNames)
	if voltage == "" {
		return "", "", errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("%w: voltage", core.ErrMissingColumn))
	}
	current = findColumn(data.Headers, r.config.CurrentColumn, currentColumnNames)
	if current == "" {
		return "", "", errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("%w: current", core.ErrMissingColumn))
	}
	return voltage, current, nil
}

func findColumn(headers []string, explicit string, candidates []string) string {
	if explicit != "" {
		candidates = []string{explicit}
	}
	for _, candidate := range candidates {
		for _, header := range headers {
			if strings.EqualFold(header, candidate) {
				return header
			}
		}
	}
	return ""
}

// ToSamples converts spreadsheet rows into a sample set. Rows with both cells
// empty are skipped; a non-numeric cell is an input error.
func (r *DataReader) ToSamples(data *SheetData) (measurement.SampleSet, error) {
	voltageCol, currentCol, err := r.DetectMeasurementColumns(data)
	if err != nil {
		return nil, err
	}

	samples := make(measurement.SampleSet, 0, len(data.Rows))
	for _, row := range data.Rows {
		if row.IsBlank(voltageCol, currentCol) {
			continue
		}

		rawV, rawI := row.Cell(voltageCol), row.Cell(currentCol)
		rowNum := row.Number
		voltage, err := strconv.ParseFloat(rawV, 64)
		if err != nil {
			return nil, errors.WithCode(errors.CodeInvalidInput,
				fmt.Errorf("%w: row %d: voltage %q is not a number", core.ErrMalformedLine, rowNum, rawV))
		}
		current, err := strconv.ParseFloat(rawI, 64)
		if err != nil {
			return nil, errors.WithCode(errors.CodeInvalidInput,
				fmt.Errorf("%w: row %d: current %q is not a number", core.ErrMalformedLine, rowNum, rawI))
		}
		samples = append(samples, measurement.Sample{Voltage: voltage, Current: current})
	}

	r.logger.Info("spreadsheet converted",
		zap.String("voltage_column", voltageCol),
		zap.String("current_column", currentCol),
		zap.Int("samples", len(samples)))
	return samples, nil
}
