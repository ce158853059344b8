package consolidate

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"sheetcli/internal/cleaning"
	"sheetcli/internal/dataset"
	"sheetcli/internal/files"
)

// SourceColumn is the name of the provenance column appended to every
// consolidated table.
const SourceColumn = "source_file"

// defaultReadConcurrency bounds how many input files are parsed at once.
const defaultReadConcurrency = 4

// FileSummary describes one consolidated input file.
type FileSummary struct {
	Name    string
	Rows    int
	Columns int
}

// Result is the outcome of a consolidation run.
type Result struct {
	Table             *dataset.Table
	Files             []FileSummary
	DuplicatesDropped int
}

// Consolidator merges every tabular file in a directory into one table.
type Consolidator struct {
	discovery   *files.Discovery
	logger      *slog.Logger
	concurrency int
}

// NewConsolidator creates a consolidator rooted at basePath.
func NewConsolidator(basePath string, logger *slog.Logger) *Consolidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consolidator{
		discovery:   files.NewDiscovery(basePath),
		logger:      logger,
		concurrency: defaultReadConcurrency,
	}
}

// ConsolidateDir reads every .xlsx/.xls/.csv file under dir in parallel
// and merges them. Column names are normalized and the union of all
// columns is kept; cells missing from a file stay blank. A source_file
// column records provenance. Duplicate rows (ignoring source_file) are
// dropped, first occurrence wins.
func (c *Consolidator) ConsolidateDir(ctx context.Context, dir string) (*Result, error) {
	found, err := c.discovery.FindTabularFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("no tabular files found in %s", dir)
	}

	c.logger.Info("consolidating directory",
		slog.String("dir", dir),
		slog.Int("file_count", len(found)))

	tables := make([]*dataset.Table, len(found))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, file := range found {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			table, err := readFile(file.Path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file.Name, err)
			}
			mu.Lock()
			tables[i] = table
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := merge(found, tables)

	c.logger.Info("consolidation complete",
		slog.Int("file_count", len(found)),
		slog.Int("rows", result.Table.NumRows()),
		slog.Int("columns", result.Table.NumColumns()),
		slog.Int("duplicates_dropped", result.DuplicatesDropped))

	return result, nil
}

// readFile picks the reader by extension.
func readFile(path string) (*dataset.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return dataset.ReadCSV(path)
	case ".xlsx", ".xls":
		return dataset.ReadExcel(path, "")
	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
}

// merge aligns columns by normalized name and concatenates rows in file
// order, then de-duplicates.
func merge(found []files.FileInfo, tables []*dataset.Table) *Result {
	// Union of normalized column names, first-appearance order
	var columns []string
	seen := make(map[string]bool)
	for _, table := range tables {
		for _, name := range table.Columns {
			normalized := cleaning.NormalizeName(name)
			if !seen[normalized] {
				seen[normalized] = true
				columns = append(columns, normalized)
			}
		}
	}

	out := dataset.New(append(columns, SourceColumn))
	result := &Result{Table: out}

	index := make(map[string]int, len(columns))
	for i, name := range out.Columns {
		index[name] = i
	}

	dupes := make(map[string]bool)
	for fi, table := range tables {
		result.Files = append(result.Files, FileSummary{
			Name:    found[fi].Name,
			Rows:    table.NumRows(),
			Columns: table.NumColumns(),
		})

		// Per-file mapping from source column position to output position
		colMap := make([]int, len(table.Columns))
		for j, name := range table.Columns {
			colMap[j] = index[cleaning.NormalizeName(name)]
		}

		for _, row := range table.Rows {
			cells := make([]dataset.Cell, len(out.Columns))
			for j := range cells {
				cells[j] = dataset.Blank()
			}
			for j, cell := range row {
				cells[colMap[j]] = cell
			}

			key := rowKey(cells[:len(cells)-1])
			if dupes[key] {
				result.DuplicatesDropped++
				continue
			}
			dupes[key] = true

			cells[len(cells)-1] = dataset.String(found[fi].Name)
			out.AppendRow(cells)
		}
	}

	return result
}

// rowKey builds the de-duplication key from raw cell text.
func rowKey(cells []dataset.Cell) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = cell.Raw
	}
	return strings.Join(parts, "\x1f")
}
