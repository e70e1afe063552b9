package excel

// SheetRow is one data row keyed by header name. Number is the 1-based row
// number as shown by spreadsheet tools (the header is row 1).
type SheetRow struct {
	Number int
	Cells  map[string]string
}

// Cell returns the trimmed cell under header, or "" when the row is short
func (r SheetRow) Cell(header string) string {
	return r.Cells[header]
}

// IsBlank reports whether every listed column is empty
func (r SheetRow) IsBlank(headers ...string) bool {
	for _, h := range headers {
		if r.Cells[h] != "" {
			return false
		}
	}
	return true
}

// SheetData is a header row plus the data rows below it
type SheetData struct {
	Headers []string
	Rows    []SheetRow
}
