package transform

import (
	"fmt"

	"sheetcli/internal/dataset"
)

// Row is a view of one table row keyed by column name.
type Row struct {
	table *dataset.Table
	cells []dataset.Cell
}

// Cell returns the cell of the named column, or a blank cell when the
// column does not exist.
func (r Row) Cell(column string) dataset.Cell {
	idx := r.table.ColumnIndex(column)
	if idx < 0 {
		return dataset.Blank()
	}
	return r.cells[idx]
}

// Filter returns a new table containing only rows the predicate keeps.
func Filter(table *dataset.Table, keep func(Row) bool) *dataset.Table {
	out := dataset.New(append([]string(nil), table.Columns...))
	for _, cells := range table.Rows {
		if keep(Row{table: table, cells: cells}) {
			out.AppendRow(cells)
		}
	}
	return out
}

// DeriveColumn appends a column computed from each row.
func DeriveColumn(table *dataset.Table, name string, derive func(Row) dataset.Cell) error {
	cells := make([]dataset.Cell, len(table.Rows))
	for i, rowCells := range table.Rows {
		cells[i] = derive(Row{table: table, cells: rowCells})
	}
	return table.AddColumn(name, cells)
}

// AggKind selects the aggregate applied to a numeric column.
type AggKind string

const (
	AggSum   AggKind = "sum"
	AggMean  AggKind = "mean"
	AggCount AggKind = "count"
	AggMin   AggKind = "min"
	AggMax   AggKind = "max"
)

// Aggregation names a numeric column and the aggregate to apply to it.
type Aggregation struct {
	Column string
	Kind   AggKind
}

// OutputName returns the result column name, e.g. "revenue_sum".
func (a Aggregation) OutputName() string {
	return fmt.Sprintf("%s_%s", a.Column, a.Kind)
}

// GroupBy groups rows by the raw text of the key column and applies each
// aggregation over the group's numeric cells. Groups appear in
// first-occurrence order. Count counts all rows in the group regardless
// of cell kind; the other aggregates skip blank and non-numeric cells.
func GroupBy(table *dataset.Table, keyColumn string, aggs ...Aggregation) (*dataset.Table, error) {
	keyIdx := table.ColumnIndex(keyColumn)
	if keyIdx < 0 {
		return nil, fmt.Errorf("group key column not found: %s", keyColumn)
	}

	aggIdx := make([]int, len(aggs))
	for i, agg := range aggs {
		idx := table.ColumnIndex(agg.Column)
		if idx < 0 {
			return nil, fmt.Errorf("aggregate column not found: %s", agg.Column)
		}
		aggIdx[i] = idx
	}

	type group struct {
		key    dataset.Cell
		count  int
		sums   []float64
		counts []int
		mins   []float64
		maxs   []float64
	}

	var order []string
	groups := make(map[string]*group)

	for _, row := range table.Rows {
		key := row[keyIdx].Raw
		g, ok := groups[key]
		if !ok {
			g = &group{
				key:    row[keyIdx],
				sums:   make([]float64, len(aggs)),
				counts: make([]int, len(aggs)),
				mins:   make([]float64, len(aggs)),
				maxs:   make([]float64, len(aggs)),
			}
			groups[key] = g
			order = append(order, key)
		}
		g.count++
		for i, idx := range aggIdx {
			cell := row[idx]
			if cell.Kind != dataset.KindNumber {
				continue
			}
			if g.counts[i] == 0 || cell.Number < g.mins[i] {
				g.mins[i] = cell.Number
			}
			if g.counts[i] == 0 || cell.Number > g.maxs[i] {
				g.maxs[i] = cell.Number
			}
			g.sums[i] += cell.Number
			g.counts[i]++
		}
	}

	columns := []string{keyColumn}
	for _, agg := range aggs {
		columns = append(columns, agg.OutputName())
	}

	out := dataset.New(columns)
	for _, key := range order {
		g := groups[key]
		cells := []dataset.Cell{g.key}
		for i, agg := range aggs {
			cells = append(cells, aggregateCell(agg.Kind, g.count, g.sums[i], g.counts[i], g.mins[i], g.maxs[i]))
		}
		out.AppendRow(cells)
	}
	return out, nil
}

func aggregateCell(kind AggKind, rowCount int, sum float64, numCount int, min, max float64) dataset.Cell {
	switch kind {
	case AggSum:
		return dataset.Number(sum)
	case AggMean:
		if numCount == 0 {
			return dataset.Blank()
		}
		return dataset.Number(sum / float64(numCount))
	case AggCount:
		return dataset.Number(float64(rowCount))
	case AggMin:
		if numCount == 0 {
			return dataset.Blank()
		}
		return dataset.Number(min)
	case AggMax:
		if numCount == 0 {
			return dataset.Blank()
		}
		return dataset.Number(max)
	default:
		return dataset.Blank()
	}
}
