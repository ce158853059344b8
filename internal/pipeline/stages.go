package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"sheetcli/internal/chart"
	"sheetcli/internal/cleaning"
	"sheetcli/internal/config"
	"sheetcli/internal/consolidate"
	"sheetcli/internal/dataset"
	"sheetcli/internal/exporter"
	"sheetcli/internal/notify"
	"sheetcli/internal/transform"
)

// Stage identifiers for the built-in pipeline.
const (
	StageIDExtract   = "extract"
	StageIDTransform = "transform"
	StageIDLoad      = "load"
	StageIDNotify    = "notify"
)

// DataSheetName is the sheet holding the full consolidated table in the
// generated report.
const DataSheetName = "Data"

// DefaultStages builds the standard extract, transform, load, notify
// sequence from configuration.
func DefaultStages(cfg *config.Config, paths *config.Paths, logger *slog.Logger) []Stage {
	return []Stage{
		NewExtractStage(paths.InputDir, logger),
		NewTransformStage(cfg.Pipeline, logger),
		NewLoadStage(cfg.Pipeline, paths, logger),
		NewNotifyStage(cfg.Mail, notify.NewMailer(cfg.Mail, logger), logger),
	}
}

// ExtractStage consolidates every tabular file in the input directory
// into the shared table.
type ExtractStage struct {
	inputDir string
	logger   *slog.Logger
}

// NewExtractStage creates the extract stage over inputDir.
func NewExtractStage(inputDir string, logger *slog.Logger) *ExtractStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStage{inputDir: inputDir, logger: logger}
}

func (s *ExtractStage) ID() string   { return StageIDExtract }
func (s *ExtractStage) Name() string { return "Extract input files" }

// Validate checks that an input directory is configured.
func (s *ExtractStage) Validate(state *State) error {
	if s.inputDir == "" {
		return fmt.Errorf("input directory not configured")
	}
	return nil
}

// Execute consolidates the input directory into state's table.
func (s *ExtractStage) Execute(ctx context.Context, state *State) error {
	consolidator := consolidate.NewConsolidator(s.inputDir, s.logger)
	result, err := consolidator.ConsolidateDir(ctx, "")
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}
	state.SetTable(result.Table)
	return nil
}

// TransformStage cleans the extracted table, joins in the optional
// lookup file, flags outliers on the value column, and aggregates into
// the summary table.
type TransformStage struct {
	cfg    config.PipelineConfig
	logger *slog.Logger
}

// NewTransformStage creates the transform stage.
func NewTransformStage(cfg config.PipelineConfig, logger *slog.Logger) *TransformStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransformStage{cfg: cfg, logger: logger}
}

func (s *TransformStage) ID() string   { return StageIDTransform }
func (s *TransformStage) Name() string { return "Clean and aggregate" }

// Validate checks that the extract stage produced a table.
func (s *TransformStage) Validate(state *State) error {
	if state.Table() == nil {
		return fmt.Errorf("no table to transform")
	}
	return nil
}

// Execute runs the transformation over the shared table.
func (s *TransformStage) Execute(ctx context.Context, state *State) error {
	table := state.Table()

	report := cleaning.NewCleaner(s.logger).Clean(table)
	s.logger.Info("table cleaned",
		slog.Int("blank_rows_dropped", report.BlankRowsDropped),
		slog.Int("duplicates_dropped", report.DuplicatesDropped))

	if s.cfg.LookupFile != "" {
		joined, err := s.joinLookup(table)
		if err != nil {
			return err
		}
		table = joined
		state.SetTable(table)
	}

	if s.cfg.GroupColumn != "" {
		// Rows without a group key would aggregate into a blank bucket
		keep := transform.Filter(table, func(r transform.Row) bool {
			return strings.TrimSpace(r.Cell(s.cfg.GroupColumn).Raw) != ""
		})
		table = keep
		state.SetTable(table)
	}

	if s.cfg.ValueColumn != "" {
		flagged, err := cleaning.FlagOutliers(table, s.cfg.ValueColumn)
		if err != nil {
			return fmt.Errorf("outlier flagging failed: %w", err)
		}
		if flagged > 0 {
			s.logger.Warn("outliers flagged",
				slog.String("column", s.cfg.ValueColumn),
				slog.Int("count", flagged))
		}
	}

	if s.cfg.GroupColumn != "" && s.cfg.ValueColumn != "" {
		summary, err := transform.GroupBy(table, s.cfg.GroupColumn,
			transform.Aggregation{Column: s.cfg.ValueColumn, Kind: transform.AggSum},
			transform.Aggregation{Column: s.cfg.ValueColumn, Kind: transform.AggMean},
			transform.Aggregation{Column: s.cfg.ValueColumn, Kind: transform.AggCount},
		)
		if err != nil {
			return fmt.Errorf("aggregation failed: %w", err)
		}
		state.SetSummary(summary)
	}

	return nil
}

// joinLookup reads the lookup file and left-joins it onto table.
func (s *TransformStage) joinLookup(table *dataset.Table) (*dataset.Table, error) {
	lookup, err := readLookup(s.cfg.LookupFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup file: %w", err)
	}
	cleaning.NewCleaner(s.logger).Clean(lookup)

	joined, err := consolidate.Join(table, lookup, s.cfg.JoinKey)
	if err != nil {
		return nil, fmt.Errorf("lookup join failed: %w", err)
	}
	return joined, nil
}

func readLookup(path string) (*dataset.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return dataset.ReadCSV(path)
	case ".xlsx", ".xls":
		return dataset.ReadExcel(path, "")
	default:
		return nil, fmt.Errorf("unsupported lookup file type: %s", path)
	}
}

// LoadStage writes the styled report workbook and a CSV copy of the
// consolidated data into the output directory.
type LoadStage struct {
	cfg    config.PipelineConfig
	paths  *config.Paths
	logger *slog.Logger
}

// NewLoadStage creates the load stage.
func NewLoadStage(cfg config.PipelineConfig, paths *config.Paths, logger *slog.Logger) *LoadStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStage{cfg: cfg, paths: paths, logger: logger}
}

func (s *LoadStage) ID() string   { return StageIDLoad }
func (s *LoadStage) Name() string { return "Write report" }

// Validate checks that there is data to write.
func (s *LoadStage) Validate(state *State) error {
	if state.Table() == nil {
		return fmt.Errorf("no table to write")
	}
	return nil
}

// Execute writes the workbook and CSV copy and records their paths.
func (s *LoadStage) Execute(ctx context.Context, state *State) error {
	table := state.Table()
	summary := state.Summary()

	f := excelize.NewFile()
	defer f.Close()

	writer := exporter.NewExcelWriter(s.logger)
	style := exporter.DefaultSheetStyle()

	if err := writer.AddSheet(f, DataSheetName, table, style); err != nil {
		return fmt.Errorf("failed to write data sheet: %w", err)
	}

	if summary != nil && summary.NumRows() > 0 {
		if err := writer.AddSheet(f, s.cfg.SheetName, summary, style); err != nil {
			return fmt.Errorf("failed to write summary sheet: %w", err)
		}
		if err := s.addChart(f, summary); err != nil {
			return err
		}
	}

	if s.cfg.SheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}

	reportPath := s.paths.GetOutputPath(s.cfg.ReportName)
	if err := f.SaveAs(reportPath); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	state.SetValue(KeyReportPath, reportPath)

	csvName := strings.TrimSuffix(s.cfg.ReportName, filepath.Ext(s.cfg.ReportName)) + ".csv"
	csvPath := s.paths.GetOutputPath(csvName)
	if err := exporter.NewCSVWriter().WriteTable(csvPath, table); err != nil {
		return fmt.Errorf("failed to write csv copy: %w", err)
	}
	state.SetValue(KeyCSVPath, csvPath)

	s.logger.Info("report written",
		slog.String("report_path", reportPath),
		slog.String("csv_path", csvPath),
		slog.Int("rows", table.NumRows()))

	return nil
}

// addChart charts the summary's aggregate columns against its key.
func (s *LoadStage) addChart(f *excelize.File, summary *dataset.Table) error {
	chartType, err := chart.ParseType(s.cfg.ChartType)
	if err != nil {
		return err
	}
	spec := chart.Spec{
		Type:           chartType,
		Title:          fmt.Sprintf("%s by %s", s.cfg.ValueColumn, s.cfg.GroupColumn),
		CategoryColumn: summary.Columns[0],
		SeriesColumns:  summary.Columns[1:],
	}
	if err := chart.NewBuilder(s.logger).AddToSheet(f, s.cfg.SheetName, summary, spec); err != nil {
		return fmt.Errorf("failed to add summary chart: %w", err)
	}
	return nil
}

// NotifyStage mails the finished report. The stage skips itself when
// mail is not configured; skipping does not fail the run.
type NotifyStage struct {
	cfg    config.MailConfig
	mailer *notify.Mailer
	logger *slog.Logger
}

// NewNotifyStage creates the notify stage.
func NewNotifyStage(cfg config.MailConfig, mailer *notify.Mailer, logger *slog.Logger) *NotifyStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotifyStage{cfg: cfg, mailer: mailer, logger: logger}
}

func (s *NotifyStage) ID() string   { return StageIDNotify }
func (s *NotifyStage) Name() string { return "Send notification" }

func (s *NotifyStage) Validate(state *State) error { return nil }

// Execute sends the report mail, or marks the stage skipped when mail
// is not configured.
func (s *NotifyStage) Execute(ctx context.Context, state *State) error {
	if !s.cfg.Enabled() {
		state.StageState(s.ID(), s.Name()).Skip("mail not configured")
		s.logger.Info("notification skipped", slog.String("reason", "mail not configured"))
		return nil
	}

	table := state.Table()
	body := fmt.Sprintf("Pipeline run %s finished.\n\nRows processed: %d\nReport: %s\n",
		state.RunID, table.NumRows(), state.Value(KeyReportPath))

	msg := notify.Message{
		Subject:    s.cfg.Subject,
		Body:       body,
		Attachment: state.Value(KeyReportPath),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("notification failed: %w", err)
	}
	return nil
}
