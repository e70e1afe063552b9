package excel

// ExcelConfig holds configuration for spreadsheet measurement sources
type ExcelConfig struct {
	// Sheet to read; empty selects the first sheet of the workbook
	Sheet string `json:"sheet" yaml:"sheet"`
	// Explicit header names; empty enables detection
	VoltageColumn string `json:"voltage_column" yaml:"voltage_column"`
	CurrentColumn string `json:"current_column" yaml:"current_column"`
}

// DefaultExcelConfig returns sensible defaults for spreadsheet processing
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{}
}

// Header names recognised when no explicit column is configured
var (
	voltageColumnNames = []string{"voltage", "voltage_v", "voltage (v)", "u", "v", "spannung"}
	currentColumnNames = []string{"current", "current_a", "current (a)", "i", "a", "strom", "stromstärke"}
)
