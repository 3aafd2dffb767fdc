// Package extract converts spreadsheet and word-processing content into
// plain text suitable for a text prompt. Corrupt input is a terminal
// extraction error; there is no partial-extraction fallback.
package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// legacyWorkbookSignature is the CFB container magic that opens every
// pre-OOXML Office file, .xls included.
var legacyWorkbookSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// SpreadsheetToCSV renders spreadsheet content as CSV text. For workbook
// formats only the first sheet is read; subsequent sheets are silently
// ignored. CSV input passes through as-is. Legacy .xls workbooks are
// refused by name rather than failing as corrupt input.
func SpreadsheetToCSV(data []byte, filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "csv" {
		return string(data), nil
	}
	if bytes.HasPrefix(data, legacyWorkbookSignature) {
		return "", fmt.Errorf("legacy .xls workbooks are not supported; save the file as .xlsx or .csv")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("render csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("render csv: %w", err)
	}
	return b.String(), nil
}
