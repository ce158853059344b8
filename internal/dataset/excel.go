package dataset

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadExcel reads one sheet of a workbook into a table. When sheetName is
// empty the first sheet containing a recognizable header row is used.
func ReadExcel(filePath, sheetName string) (*Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var rows [][]string
	if sheetName != "" {
		rows, err = f.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
		}
	} else {
		rows, sheetName, err = findDataSheet(f)
		if err != nil {
			return nil, err
		}
	}

	headerRow := findHeaderRow(rows)
	if headerRow == -1 {
		return nil, fmt.Errorf("could not find header row in sheet %s", sheetName)
	}

	slog.Debug("Excel sheet loaded",
		slog.String("file_path", filePath),
		slog.String("sheet_name", sheetName),
		slog.Int("header_row", headerRow),
		slog.Int("total_rows", len(rows)))

	header := make([]string, len(rows[headerRow]))
	for i, cell := range rows[headerRow] {
		header[i] = strings.TrimSpace(cell)
	}

	table := New(header)
	for i := headerRow + 1; i < len(rows); i++ {
		if isBlankRow(rows[i]) {
			continue
		}
		cells := make([]Cell, len(rows[i]))
		for j, raw := range rows[i] {
			cells[j] = ParseCell(raw)
		}
		table.AppendRow(cells)
	}

	return table, nil
}

// findDataSheet scans the workbook for the first sheet whose opening rows
// contain a header-like row.
func findDataSheet(f *excelize.File) ([][]string, string, error) {
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if findHeaderRow(rows) >= 0 {
			return rows, name, nil
		}
	}
	return nil, "", fmt.Errorf("could not find a sheet with tabular data")
}

// findHeaderRow returns the index of the first row that looks like a
// header: at least two non-blank cells, none of them numeric.
func findHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > 20 {
		limit = 20
	}
	for i := 0; i < limit; i++ {
		nonBlank := 0
		numeric := false
		for _, cell := range rows[i] {
			trimmed := strings.TrimSpace(cell)
			if trimmed == "" {
				continue
			}
			nonBlank++
			if _, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", ""), 64); err == nil {
				numeric = true
				break
			}
		}
		if nonBlank >= 2 && !numeric {
			return i
		}
	}
	return -1
}

// isBlankRow reports whether every cell in the row is empty or whitespace.
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
