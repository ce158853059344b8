package cleaning

import (
	"log/slog"
	"strings"

	"sheetcli/internal/dataset"
)

// Report summarizes what a cleaning pass removed.
type Report struct {
	BlankRowsDropped    int      `json:"blank_rows_dropped"`
	BlankColumnsDropped []string `json:"blank_columns_dropped"`
	DuplicatesDropped   int      `json:"duplicates_dropped"`
	RenamedColumns      int      `json:"renamed_columns"`
}

// Cleaner applies the standard cleaning sequence to a table.
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a cleaner. A nil logger falls back to slog.Default.
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

// Clean runs the full sequence in a fixed order: trim cells, drop blank
// rows, drop blank columns, normalize headers, de-duplicate rows. The
// input table is modified in place.
func (c *Cleaner) Clean(table *dataset.Table) Report {
	var report Report

	trimCells(table)
	report.BlankRowsDropped = dropBlankRows(table)
	report.BlankColumnsDropped = dropBlankColumns(table)
	report.RenamedColumns = normalizeHeaders(table)
	report.DuplicatesDropped = deduplicateRows(table)

	c.logger.Info("table cleaned",
		slog.Int("blank_rows_dropped", report.BlankRowsDropped),
		slog.Int("blank_columns_dropped", len(report.BlankColumnsDropped)),
		slog.Int("duplicates_dropped", report.DuplicatesDropped),
		slog.Int("rows_remaining", table.NumRows()))

	return report
}

// trimCells re-parses every cell from its trimmed raw text, so stray
// whitespace never affects typing or comparisons.
func trimCells(table *dataset.Table) {
	for i, row := range table.Rows {
		for j, cell := range row {
			trimmed := strings.TrimSpace(cell.Raw)
			if trimmed != cell.Raw {
				table.Rows[i][j] = dataset.ParseCell(trimmed)
			}
		}
	}
}

// dropBlankRows removes rows whose cells are all blank.
func dropBlankRows(table *dataset.Table) int {
	kept := table.Rows[:0]
	dropped := 0
	for _, row := range table.Rows {
		blank := true
		for _, cell := range row {
			if !cell.IsBlank() {
				blank = false
				break
			}
		}
		if blank {
			dropped++
			continue
		}
		kept = append(kept, row)
	}
	table.Rows = kept
	return dropped
}

// dropBlankColumns removes columns with no value in any row and returns
// their names.
func dropBlankColumns(table *dataset.Table) []string {
	var blankIdx []int
	for j := range table.Columns {
		blank := true
		for _, row := range table.Rows {
			if !row[j].IsBlank() {
				blank = false
				break
			}
		}
		if blank {
			blankIdx = append(blankIdx, j)
		}
	}
	if len(blankIdx) == 0 {
		return nil
	}

	drop := make(map[int]bool, len(blankIdx))
	var names []string
	for _, j := range blankIdx {
		drop[j] = true
		names = append(names, table.Columns[j])
	}

	var columns []string
	for j, name := range table.Columns {
		if !drop[j] {
			columns = append(columns, name)
		}
	}
	for i, row := range table.Rows {
		var cells []dataset.Cell
		for j, cell := range row {
			if !drop[j] {
				cells = append(cells, cell)
			}
		}
		table.Rows[i] = cells
	}
	table.Columns = columns
	return names
}

// normalizeHeaders lowercases column names and replaces spaces and dashes
// with underscores; any other non-alphanumeric rune is stripped. Returns
// the number of names that changed.
func normalizeHeaders(table *dataset.Table) int {
	changed := 0
	for i, name := range table.Columns {
		normalized := NormalizeName(name)
		if normalized != name {
			table.Columns[i] = normalized
			changed++
		}
	}
	return changed
}

// NormalizeName converts a column header to snake_case: lowercase, spaces
// and dashes become underscores, everything else non-alphanumeric is
// dropped, runs of underscores collapse.
func NormalizeName(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == ' ', r == '-', r == '_':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// deduplicateRows drops rows identical to an earlier row, comparing raw
// cell text. First occurrence wins.
func deduplicateRows(table *dataset.Table) int {
	seen := make(map[string]bool, len(table.Rows))
	kept := table.Rows[:0]
	dropped := 0
	for i, row := range table.Rows {
		key := strings.Join(table.RowStrings(i), "\x1f")
		if seen[key] {
			dropped++
			continue
		}
		seen[key] = true
		kept = append(kept, row)
	}
	table.Rows = kept
	return dropped
}
