package chart

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"sheetcli/internal/dataset"
)

// Type selects the chart rendered into the sheet.
type Type string

const (
	TypeBar  Type = "bar"
	TypeLine Type = "line"
	TypePie  Type = "pie"
)

// ParseType validates a chart type name.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeBar, TypeLine, TypePie:
		return Type(s), nil
	default:
		return "", fmt.Errorf("unknown chart type: %s (want bar, line, or pie)", s)
	}
}

// Spec describes a chart over a table already written to a sheet with
// the table's header in row 1.
type Spec struct {
	Type           Type
	Title          string
	CategoryColumn string   // column providing category labels
	SeriesColumns  []string // numeric columns plotted as series; pie uses the first only
	Cell           string   // top-left anchor, e.g. "F2"
}

// Builder adds charts to workbook sheets.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a chart builder. A nil logger falls back to
// slog.Default.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger}
}

// AddToSheet renders the chart described by spec onto the sheet holding
// table. The table must have been written with its header in row 1.
func (b *Builder) AddToSheet(f *excelize.File, sheetName string, table *dataset.Table, spec Spec) error {
	if table.NumRows() == 0 {
		return fmt.Errorf("cannot chart an empty table")
	}
	if len(spec.SeriesColumns) == 0 {
		return fmt.Errorf("chart needs at least one series column")
	}

	catIdx := table.ColumnIndex(spec.CategoryColumn)
	if catIdx < 0 {
		return fmt.Errorf("category column not found: %s", spec.CategoryColumn)
	}

	seriesColumns := spec.SeriesColumns
	if spec.Type == TypePie {
		seriesColumns = seriesColumns[:1]
	}

	categories, err := columnRange(sheetName, catIdx, table.NumRows())
	if err != nil {
		return err
	}

	var series []excelize.ChartSeries
	for _, name := range seriesColumns {
		idx := table.ColumnIndex(name)
		if idx < 0 {
			return fmt.Errorf("series column not found: %s", name)
		}
		values, err := columnRange(sheetName, idx, table.NumRows())
		if err != nil {
			return err
		}
		nameCell, err := excelize.CoordinatesToCellName(idx+1, 1, true)
		if err != nil {
			return err
		}
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!%s", sheetName, nameCell),
			Categories: categories,
			Values:     values,
		})
	}

	anchor := spec.Cell
	if anchor == "" {
		// Default anchor: two columns right of the table
		col, err := excelize.ColumnNumberToName(table.NumColumns() + 2)
		if err != nil {
			return err
		}
		anchor = col + "2"
	}

	chart := &excelize.Chart{
		Type:   chartType(spec.Type),
		Series: series,
		Title:  []excelize.RichTextRun{{Text: spec.Title}},
		Legend: excelize.ChartLegend{Position: "bottom"},
	}
	if err := f.AddChart(sheetName, anchor, chart); err != nil {
		return fmt.Errorf("failed to add chart: %w", err)
	}

	b.logger.Debug("chart added",
		slog.String("sheet_name", sheetName),
		slog.String("chart_type", string(spec.Type)),
		slog.String("anchor", anchor),
		slog.Int("series_count", len(series)))

	return nil
}

// columnRange builds the absolute A1 range of a data column, rows 2..n+1.
func columnRange(sheetName string, colIdx, numRows int) (string, error) {
	first, err := excelize.CoordinatesToCellName(colIdx+1, 2, true)
	if err != nil {
		return "", err
	}
	last, err := excelize.CoordinatesToCellName(colIdx+1, numRows+1, true)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s!%s:%s", sheetName, first, last), nil
}

func chartType(t Type) excelize.ChartType {
	switch t {
	case TypeLine:
		return excelize.Line
	case TypePie:
		return excelize.Pie
	default:
		return excelize.Col
	}
}
