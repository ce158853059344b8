package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeduplicatesColumnNames(t *testing.T) {
	table := New([]string{"name", "value", "value", "value"})
	assert.Equal(t, []string{"name", "value", "value_2", "value_3"}, table.Columns)
}

func TestAppendRowPadsAndTruncates(t *testing.T) {
	table := New([]string{"a", "b", "c"})

	table.AppendRow([]Cell{String("x")})
	require.Equal(t, 1, table.NumRows())
	assert.True(t, table.Rows[0][1].IsBlank())
	assert.True(t, table.Rows[0][2].IsBlank())

	table.AppendRow([]Cell{String("1"), String("2"), String("3"), String("4")})
	assert.Len(t, table.Rows[1], 3)
}

func TestColumnLookup(t *testing.T) {
	table := New([]string{"symbol", "close"})
	table.AppendRow([]Cell{String("AAPL"), Number(187.5)})
	table.AppendRow([]Cell{String("MSFT"), Number(402.1)})

	cells, err := table.Column("close")
	require.NoError(t, err)
	assert.Equal(t, 187.5, cells[0].Number)

	_, err = table.Column("missing")
	assert.Error(t, err)
}

func TestNumericColumnSkipsBlanksAndStrings(t *testing.T) {
	table := New([]string{"v"})
	table.AppendRow([]Cell{Number(1)})
	table.AppendRow([]Cell{Blank()})
	table.AppendRow([]Cell{String("n/a")})
	table.AppendRow([]Cell{Number(3)})

	values, err := table.NumericColumn("v")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, values)
}

func TestAddColumn(t *testing.T) {
	table := New([]string{"a"})
	table.AppendRow([]Cell{String("x")})
	table.AppendRow([]Cell{String("y")})

	err := table.AddColumn("flag", []Cell{Bool(true)})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "flag"}, table.Columns)
	assert.True(t, table.Rows[0][1].Bool)
	assert.True(t, table.Rows[1][1].IsBlank())

	assert.Error(t, table.AddColumn("flag", nil))
}

func TestCloneIsIndependent(t *testing.T) {
	table := New([]string{"a"})
	table.AppendRow([]Cell{String("x")})

	clone := table.Clone()
	clone.Rows[0][0] = String("changed")
	clone.Columns[0] = "renamed"

	assert.Equal(t, "x", table.Rows[0][0].Raw)
	assert.Equal(t, "a", table.Columns[0])
}

func TestParseCellInference(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind Kind
	}{
		{name: "blank", raw: "   ", kind: KindBlank},
		{name: "bool true", raw: "true", kind: KindBool},
		{name: "bool mixed case", raw: "False", kind: KindBool},
		{name: "integer", raw: "42", kind: KindNumber},
		{name: "decimal", raw: "3.14", kind: KindNumber},
		{name: "thousands separator", raw: "1,234,567", kind: KindNumber},
		{name: "negative", raw: "-12.5", kind: KindNumber},
		{name: "iso date", raw: "2024-03-15", kind: KindTime},
		{name: "us date", raw: "03/15/2024", kind: KindTime},
		{name: "datetime", raw: "2024-03-15 10:30:00", kind: KindTime},
		{name: "plain text", raw: "hello", kind: KindString},
		{name: "alphanumeric code", raw: "CUST-001", kind: KindString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := ParseCell(tt.raw)
			assert.Equal(t, tt.kind, cell.Kind, "ParseCell(%q)", tt.raw)
		})
	}
}

func TestParseCellValues(t *testing.T) {
	cell := ParseCell("1,234.5")
	assert.Equal(t, 1234.5, cell.Number)

	cell = ParseCell("2024-03-15")
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), cell.Time)

	cell = ParseCell("  padded  ")
	assert.Equal(t, "padded", cell.Raw)
}
