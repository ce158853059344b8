package exporter

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sheetcli/internal/dataset"
)

func reportTable() *dataset.Table {
	table := dataset.New([]string{"region", "revenue", "as_of", "flagged"})
	table.AppendRow([]dataset.Cell{
		dataset.String("North"),
		dataset.Number(1234.5),
		dataset.Time(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
		dataset.Bool(false),
	})
	table.AppendRow([]dataset.Cell{
		dataset.String("South"),
		dataset.Number(987),
		dataset.Time(time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)),
		dataset.Bool(true),
	})
	return table
}

func TestWriteTableRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	table := reportTable()

	err := NewExcelWriter(nil).WriteTable(path, "Summary", table, DefaultSheetStyle())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"region", "revenue", "as_of", "flagged"}, rows[0])
	assert.Equal(t, "North", rows[1][0])

	// Numeric cell carries the two-decimal thousands format
	value, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "1,234.50", value)

	// Date cell renders with the ISO date format
	value, err = f.GetCellValue("Summary", "C2")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", value)
}

func TestWriteTableFreezesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	err := NewExcelWriter(nil).WriteTable(path, "Data", reportTable(), DefaultSheetStyle())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	panes, err := f.GetPanes("Data")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
}

func TestAddSheetToExistingWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	w := NewExcelWriter(nil)
	require.NoError(t, w.AddSheet(f, "First", reportTable(), DefaultSheetStyle()))
	require.NoError(t, w.AddSheet(f, "Second", reportTable(), SheetStyle{}))

	idx, err := f.GetSheetIndex("Second")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, idx, 0)
}

func TestWriteTableEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	table := dataset.New([]string{"a", "b"})

	err := NewExcelWriter(nil).WriteTable(path, "Sheet1", table, DefaultSheetStyle())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
