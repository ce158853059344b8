package cleaning

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"sheetcli/internal/dataset"
)

// iqrMultiplier is the textbook fence width: 1.5 times the
// interquartile range beyond Q1 and Q3.
const iqrMultiplier = 1.5

// minOutlierSamples is the smallest numeric sample for which quartiles
// are meaningful enough to flag anything.
const minOutlierSamples = 4

// Bounds is the interquartile-range fence for a numeric column.
type Bounds struct {
	Q1    float64
	Q3    float64
	IQR   float64
	Lower float64
	Upper float64
}

// Contains reports whether v lies inside the fence.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// OutlierBounds computes the IQR fence for the named numeric column.
// Blank and non-numeric cells are ignored.
func OutlierBounds(table *dataset.Table, column string) (Bounds, error) {
	values, err := table.NumericColumn(column)
	if err != nil {
		return Bounds{}, err
	}
	if len(values) < minOutlierSamples {
		return Bounds{}, fmt.Errorf("column %s has %d numeric values, need at least %d", column, len(values), minOutlierSamples)
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	iqr := q3 - q1

	return Bounds{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - iqrMultiplier*iqr,
		Upper: q3 + iqrMultiplier*iqr,
	}, nil
}

// FlagOutliers appends a bool column "<column>_outlier" marking every
// numeric cell outside the IQR fence. Blank and non-numeric cells are
// never flagged. When the column has too few numeric values the table is
// left unchanged and zero is returned.
func FlagOutliers(table *dataset.Table, column string) (int, error) {
	idx := table.ColumnIndex(column)
	if idx < 0 {
		return 0, fmt.Errorf("column not found: %s", column)
	}

	bounds, err := OutlierBounds(table, column)
	if err != nil {
		return 0, nil // too few samples: nothing to flag
	}

	flagged := 0
	flags := make([]dataset.Cell, len(table.Rows))
	for i, row := range table.Rows {
		cell := row[idx]
		if cell.Kind == dataset.KindNumber && !bounds.Contains(cell.Number) {
			flags[i] = dataset.Bool(true)
			flagged++
		} else {
			flags[i] = dataset.Bool(false)
		}
	}

	if err := table.AddColumn(column+"_outlier", flags); err != nil {
		return 0, err
	}
	return flagged, nil
}
