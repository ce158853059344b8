package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"sheetcli/internal/dataset"
)

// Column width bounds for the auto-sizer, in Excel width units.
const (
	minColumnWidth = 10
	maxColumnWidth = 50
)

// SheetStyle configures the look of a written sheet.
type SheetStyle struct {
	HeaderFontColor string // hex RGB, e.g. "FFFFFF"
	HeaderFillColor string // hex RGB, e.g. "1F4E78"
	NumberFormat    string // number format for numeric cells
	DateFormat      string // number format for datetime cells
	FreezeHeader    bool
	AutoWidth       bool
}

// DefaultSheetStyle is the standard report look: bold white-on-navy
// header, two-decimal numbers, ISO dates, frozen header row.
func DefaultSheetStyle() SheetStyle {
	return SheetStyle{
		HeaderFontColor: "FFFFFF",
		HeaderFillColor: "1F4E78",
		NumberFormat:    "#,##0.00",
		DateFormat:      "yyyy-mm-dd",
		FreezeHeader:    true,
		AutoWidth:       true,
	}
}

// ExcelWriter writes tables into styled xlsx workbooks.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates an Excel writer. A nil logger falls back to
// slog.Default.
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger}
}

// WriteTable writes the table to a new workbook at filePath with a
// single styled sheet.
func (w *ExcelWriter) WriteTable(filePath, sheetName string, table *dataset.Table, style SheetStyle) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := w.AddSheet(f, sheetName, table, style); err != nil {
		return err
	}
	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("workbook written",
		slog.String("file_path", filePath),
		slog.String("sheet_name", sheetName),
		slog.Int("rows", table.NumRows()))

	return nil
}

// AddSheet writes the table into a sheet of an existing workbook,
// creating the sheet when needed.
func (w *ExcelWriter) AddSheet(f *excelize.File, sheetName string, table *dataset.Table, style SheetStyle) error {
	if idx, err := f.GetSheetIndex(sheetName); err != nil {
		return fmt.Errorf("invalid sheet name %s: %w", sheetName, err)
	} else if idx < 0 {
		if _, err := f.NewSheet(sheetName); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheetName, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: style.HeaderFontColor},
		Fill: excelize.Fill{Type: "pattern", Color: []string{style.HeaderFillColor}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	numberFormat := style.NumberFormat
	if numberFormat == "" {
		numberFormat = "#,##0.00"
	}
	numberStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numberFormat})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}

	dateFormat := style.DateFormat
	if dateFormat == "" {
		dateFormat = "yyyy-mm-dd"
	}
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}

	// Header row
	for j, name := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return err
		}
	}
	if len(table.Columns) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, 1)
		last, _ := excelize.CoordinatesToCellName(len(table.Columns), 1)
		if err := f.SetCellStyle(sheetName, first, last, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	// Data rows, typed by cell kind
	for i, row := range table.Rows {
		for j, c := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			switch c.Kind {
			case dataset.KindNumber:
				if err := f.SetCellValue(sheetName, cell, c.Number); err != nil {
					return err
				}
				if err := f.SetCellStyle(sheetName, cell, cell, numberStyle); err != nil {
					return err
				}
			case dataset.KindTime:
				if err := f.SetCellValue(sheetName, cell, c.Time); err != nil {
					return err
				}
				if err := f.SetCellStyle(sheetName, cell, cell, dateStyle); err != nil {
					return err
				}
			case dataset.KindBool:
				if err := f.SetCellValue(sheetName, cell, c.Bool); err != nil {
					return err
				}
			case dataset.KindBlank:
				// leave the cell empty
			default:
				if err := f.SetCellValue(sheetName, cell, c.Raw); err != nil {
					return err
				}
			}
		}
	}

	if style.AutoWidth {
		if err := autoSizeColumns(f, sheetName, table); err != nil {
			return err
		}
	}

	if style.FreezeHeader {
		if err := f.SetPanes(sheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("failed to freeze header pane: %w", err)
		}
	}

	return nil
}

// autoSizeColumns widens each column to its longest raw value, clamped
// to sane bounds.
func autoSizeColumns(f *excelize.File, sheetName string, table *dataset.Table) error {
	for j, name := range table.Columns {
		width := len(name)
		for _, row := range table.Rows {
			if l := len(row[j].Raw); l > width {
				width = l
			}
		}
		width += 2
		if width < minColumnWidth {
			width = minColumnWidth
		}
		if width > maxColumnWidth {
			width = maxColumnWidth
		}

		col, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, col, col, float64(width)); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return nil
}
