package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// ReadCSV reads a delimited text file into a table. The first record is
// taken as the header row; every cell is type-inferred.
func ReadCSV(filePath string) (*Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows are padded by AppendRow

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV %s: %w", filePath, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file is empty: %s", filePath)
	}

	header := records[0]
	// Strip a UTF-8 BOM left by Excel exports
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := New(header)
	for _, record := range records[1:] {
		cells := make([]Cell, len(record))
		for i, raw := range record {
			cells[i] = ParseCell(raw)
		}
		table.AppendRow(cells)
	}

	slog.Debug("CSV file loaded",
		slog.String("file_path", filePath),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumColumns()))

	return table, nil
}
