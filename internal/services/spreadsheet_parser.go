package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

const cellSeparator = " | "

// extractCSV returns one chunk per non-empty record.
func extractCSV(filePath string) ([]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var chunks []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if row := joinCells(record); row != "" {
			chunks = append(chunks, row)
		}
	}

	return chunks, nil
}

// extractXLSX returns, per sheet, a "Sheet: <name>" header chunk followed by
// one chunk per non-empty row. Empty sheets are skipped.
func extractXLSX(filePath string) ([]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var chunks []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}

		var sheetRows []string
		for _, row := range rows {
			if line := joinCells(row); line != "" {
				sheetRows = append(sheetRows, line)
			}
		}
		if len(sheetRows) == 0 {
			continue
		}

		chunks = append(chunks, "Sheet: "+sheet)
		chunks = append(chunks, sheetRows...)
	}

	return chunks, nil
}

func joinCells(cells []string) string {
	trimmed := make([]string, 0, len(cells))
	nonEmpty := false
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell != "" {
			nonEmpty = true
		}
		trimmed = append(trimmed, cell)
	}
	if !nonEmpty {
		return ""
	}
	return strings.Join(trimmed, cellSeparator)
}
