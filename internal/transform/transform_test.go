package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetcli/internal/dataset"
)

func salesTable() *dataset.Table {
	table := dataset.New([]string{"region", "product", "revenue", "units"})
	rows := [][]string{
		{"North", "Widget", "100", "2"},
		{"South", "Widget", "50", "1"},
		{"North", "Gadget", "300", "3"},
		{"South", "Gadget", "150", "2"},
		{"North", "Widget", "200", "4"},
	}
	for _, r := range rows {
		cells := make([]dataset.Cell, len(r))
		for i, v := range r {
			cells[i] = dataset.ParseCell(v)
		}
		table.AppendRow(cells)
	}
	return table
}

func TestFilter(t *testing.T) {
	table := salesTable()

	north := Filter(table, func(r Row) bool {
		return r.Cell("region").Raw == "North"
	})

	assert.Equal(t, 3, north.NumRows())
	assert.Equal(t, 5, table.NumRows(), "input table is untouched")
}

func TestFilterMissingColumnIsBlank(t *testing.T) {
	table := salesTable()

	none := Filter(table, func(r Row) bool {
		return !r.Cell("nope").IsBlank()
	})
	assert.Equal(t, 0, none.NumRows())
}

func TestDeriveColumn(t *testing.T) {
	table := salesTable()

	err := DeriveColumn(table, "unit_price", func(r Row) dataset.Cell {
		units := r.Cell("units").Number
		if units == 0 {
			return dataset.Blank()
		}
		return dataset.Number(r.Cell("revenue").Number / units)
	})
	require.NoError(t, err)

	idx := table.ColumnIndex("unit_price")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, 50.0, table.Rows[0][idx].Number)
}

func TestGroupBy(t *testing.T) {
	table := salesTable()

	grouped, err := GroupBy(table, "region",
		Aggregation{Column: "revenue", Kind: AggSum},
		Aggregation{Column: "revenue", Kind: AggMean},
		Aggregation{Column: "units", Kind: AggCount},
		Aggregation{Column: "revenue", Kind: AggMin},
		Aggregation{Column: "revenue", Kind: AggMax},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "revenue_sum", "revenue_mean", "units_count", "revenue_min", "revenue_max"}, grouped.Columns)
	require.Equal(t, 2, grouped.NumRows())

	// First-appearance order: North before South
	north := grouped.Rows[0]
	assert.Equal(t, "North", north[0].Raw)
	assert.Equal(t, 600.0, north[1].Number)
	assert.Equal(t, 200.0, north[2].Number)
	assert.Equal(t, 3.0, north[3].Number)
	assert.Equal(t, 100.0, north[4].Number)
	assert.Equal(t, 300.0, north[5].Number)

	south := grouped.Rows[1]
	assert.Equal(t, "South", south[0].Raw)
	assert.Equal(t, 200.0, south[1].Number)
}

func TestGroupBySkipsNonNumericCells(t *testing.T) {
	table := dataset.New([]string{"k", "v"})
	table.AppendRow([]dataset.Cell{dataset.String("a"), dataset.Number(10)})
	table.AppendRow([]dataset.Cell{dataset.String("a"), dataset.Blank()})
	table.AppendRow([]dataset.Cell{dataset.String("a"), dataset.String("n/a")})

	grouped, err := GroupBy(table, "k",
		Aggregation{Column: "v", Kind: AggSum},
		Aggregation{Column: "v", Kind: AggMean},
		Aggregation{Column: "v", Kind: AggCount},
	)
	require.NoError(t, err)

	row := grouped.Rows[0]
	assert.Equal(t, 10.0, row[1].Number)
	assert.Equal(t, 10.0, row[2].Number)
	assert.Equal(t, 3.0, row[3].Number, "count includes non-numeric rows")
}

func TestGroupByEmptyAggregateGroup(t *testing.T) {
	table := dataset.New([]string{"k", "v"})
	table.AppendRow([]dataset.Cell{dataset.String("a"), dataset.Blank()})

	grouped, err := GroupBy(table, "k", Aggregation{Column: "v", Kind: AggMean})
	require.NoError(t, err)
	assert.True(t, grouped.Rows[0][1].IsBlank())
}

func TestGroupByMissingColumns(t *testing.T) {
	table := salesTable()

	_, err := GroupBy(table, "nope")
	assert.Error(t, err)

	_, err = GroupBy(table, "region", Aggregation{Column: "nope", Kind: AggSum})
	assert.Error(t, err)
}
