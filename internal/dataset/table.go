package dataset

import (
	"fmt"
	"time"
)

// Kind identifies the inferred type of a cell value.
type Kind int

const (
	KindBlank Kind = iota
	KindString
	KindNumber
	KindTime
	KindBool
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Cell is a single typed value in a table. Raw always holds the original
// text; the typed fields are only meaningful for the matching Kind.
type Cell struct {
	Kind   Kind
	Raw    string
	Number float64
	Time   time.Time
	Bool   bool
}

// IsBlank reports whether the cell holds no value.
func (c Cell) IsBlank() bool {
	return c.Kind == KindBlank
}

// Blank returns an empty cell.
func Blank() Cell {
	return Cell{Kind: KindBlank}
}

// String returns a string cell.
func String(s string) Cell {
	return Cell{Kind: KindString, Raw: s}
}

// Number returns a numeric cell.
func Number(f float64) Cell {
	return Cell{Kind: KindNumber, Raw: formatNumber(f), Number: f}
}

// Time returns a datetime cell.
func Time(t time.Time) Cell {
	return Cell{Kind: KindTime, Raw: t.Format("2006-01-02"), Time: t}
}

// Bool returns a boolean cell.
func Bool(b bool) Cell {
	return Cell{Kind: KindBool, Raw: fmt.Sprintf("%t", b), Bool: b}
}

// Table is a two-dimensional table with named columns and typed cells.
// Rows are rectangular: every row has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// New creates a table with the given column names. Duplicate names are
// disambiguated with a numeric suffix so lookups stay unambiguous.
func New(columns []string) *Table {
	seen := make(map[string]int, len(columns))
	unique := make([]string, len(columns))
	for i, name := range columns {
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		unique[i] = name
	}
	return &Table{Columns: unique}
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.Columns)
}

// AppendRow adds a row, padding or truncating it to the column count.
func (t *Table) AppendRow(cells []Cell) {
	row := make([]Cell, len(t.Columns))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = Blank()
		}
	}
	t.Rows = append(t.Rows, row)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Column returns all cells of the named column.
func (t *Table) Column(name string) ([]Cell, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("column not found: %s", name)
	}
	cells := make([]Cell, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = row[idx]
	}
	return cells, nil
}

// NumericColumn returns the numeric values of the named column, skipping
// blank and non-numeric cells.
func (t *Table) NumericColumn(name string) ([]float64, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	var values []float64
	for _, cell := range cells {
		if cell.Kind == KindNumber {
			values = append(values, cell.Number)
		}
	}
	return values, nil
}

// AddColumn appends a new column. The cells slice is padded with blanks
// when shorter than the row count.
func (t *Table) AddColumn(name string, cells []Cell) error {
	if t.ColumnIndex(name) >= 0 {
		return fmt.Errorf("column already exists: %s", name)
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		if i < len(cells) {
			t.Rows[i] = append(t.Rows[i], cells[i])
		} else {
			t.Rows[i] = append(t.Rows[i], Blank())
		}
	}
	return nil
}

// RowStrings returns the raw text of every cell in row i.
func (t *Table) RowStrings(i int) []string {
	out := make([]string, len(t.Columns))
	for j, cell := range t.Rows[i] {
		out[j] = cell.Raw
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	clone := &Table{Columns: append([]string(nil), t.Columns...)}
	clone.Rows = make([][]Cell, len(t.Rows))
	for i, row := range t.Rows {
		clone.Rows[i] = append([]Cell(nil), row...)
	}
	return clone
}
