package consolidate

import (
	"fmt"

	"sheetcli/internal/dataset"
)

// Join left-joins right onto left using the named key column, which must
// exist in both tables. Every left row is kept; right columns (minus the
// key) are appended, with name collisions suffixed "_right". Unmatched
// keys leave the appended cells blank. When a key appears more than once
// on the right, the first occurrence wins.
func Join(left, right *dataset.Table, key string) (*dataset.Table, error) {
	leftKey := left.ColumnIndex(key)
	if leftKey < 0 {
		return nil, fmt.Errorf("key column %s not found in left table", key)
	}
	rightKey := right.ColumnIndex(key)
	if rightKey < 0 {
		return nil, fmt.Errorf("key column %s not found in right table", key)
	}

	// Right columns to append, with collision-safe names
	var appendIdx []int
	var appendNames []string
	for j, name := range right.Columns {
		if j == rightKey {
			continue
		}
		if left.ColumnIndex(name) >= 0 {
			name += "_right"
		}
		appendIdx = append(appendIdx, j)
		appendNames = append(appendNames, name)
	}

	// Index the right side by key text, first match wins
	rightRows := make(map[string][]dataset.Cell, right.NumRows())
	for _, row := range right.Rows {
		k := row[rightKey].Raw
		if _, exists := rightRows[k]; !exists {
			rightRows[k] = row
		}
	}

	out := dataset.New(append(append([]string(nil), left.Columns...), appendNames...))
	for _, row := range left.Rows {
		cells := append([]dataset.Cell(nil), row...)
		match, ok := rightRows[row[leftKey].Raw]
		for _, j := range appendIdx {
			if ok {
				cells = append(cells, match[j])
			} else {
				cells = append(cells, dataset.Blank())
			}
		}
		out.AppendRow(cells)
	}

	return out, nil
}
