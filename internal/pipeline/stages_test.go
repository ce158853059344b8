package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sheetcli/internal/config"
	"sheetcli/internal/dataset"
	"sheetcli/internal/notify"
)

func stateTable(t *testing.T) *dataset.Table {
	t.Helper()
	table := dataset.New([]string{"region", "amount"})
	table.AppendRow([]dataset.Cell{dataset.String("north"), dataset.Number(100)})
	return table
}

type fakeMailClient struct {
	sent []*mail.SGMailV3
}

func (f *fakeMailClient) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	return &rest.Response{StatusCode: 202}, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// pipelineDirs sets up input/output dirs with two overlapping CSVs.
func pipelineDirs(t *testing.T) (inputDir, outputDir string) {
	t.Helper()
	base := t.TempDir()
	inputDir = filepath.Join(base, "input")
	outputDir = filepath.Join(base, "output")
	require.NoError(t, os.MkdirAll(inputDir, 0755))
	require.NoError(t, os.MkdirAll(outputDir, 0755))

	writeFile(t, filepath.Join(inputDir, "jan.csv"),
		"Region,Amount\nnorth,100\nsouth,50\n")
	writeFile(t, filepath.Join(inputDir, "feb.csv"),
		"Region,Amount\nnorth,200\neast,25\n")
	return inputDir, outputDir
}

func pipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		GroupColumn: "region",
		ValueColumn: "amount",
		ReportName:  "report.xlsx",
		SheetName:   "Summary",
		ChartType:   "bar",
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	inputDir, outputDir := pipelineDirs(t)
	pipeCfg := pipelineConfig()
	paths := &config.Paths{BaseDir: outputDir, InputDir: inputDir, OutputDir: outputDir}

	stages := []Stage{
		NewExtractStage(inputDir, nil),
		NewTransformStage(pipeCfg, nil),
		NewLoadStage(pipeCfg, paths, nil),
		NewNotifyStage(config.MailConfig{}, nil, nil),
	}

	state, err := NewRunner(nil).Run(context.Background(), stages)
	require.NoError(t, err)

	table := state.Table()
	require.NotNil(t, table)
	assert.Equal(t, 4, table.NumRows())
	assert.Contains(t, table.Columns, "source_file")

	summary := state.Summary()
	require.NotNil(t, summary)
	assert.Equal(t, []string{"region", "amount_sum", "amount_mean", "amount_count"}, summary.Columns)
	assert.Equal(t, 3, summary.NumRows())
	// feb.csv sorts before jan.csv, so north appears first with 200+100
	assert.Equal(t, "north", summary.Rows[0][0].Raw)
	assert.Equal(t, 300.0, summary.Rows[0][1].Number)

	reportPath := state.Value(KeyReportPath)
	require.FileExists(t, reportPath)
	f, err := excelize.OpenFile(reportPath)
	require.NoError(t, err)
	defer f.Close()
	assert.ElementsMatch(t, []string{DataSheetName, "Summary"}, f.GetSheetList())

	require.FileExists(t, state.Value(KeyCSVPath))

	// Mail is not configured, so notify must skip rather than fail
	states := state.StageStates()
	require.Len(t, states, 4)
	assert.Equal(t, StageStatusSkipped, states[3].CurrentStatus())
	for _, stageState := range states[:3] {
		assert.Equal(t, StageStatusCompleted, stageState.CurrentStatus())
	}
}

func TestLoadStageKeepsSummaryOnDefaultSheetName(t *testing.T) {
	outputDir := t.TempDir()
	pipeCfg := pipelineConfig()
	pipeCfg.SheetName = "Sheet1"
	paths := &config.Paths{BaseDir: outputDir, InputDir: outputDir, OutputDir: outputDir}

	state := NewState()
	state.SetTable(stateTable(t))
	summary := dataset.New([]string{"region", "amount_sum"})
	summary.AppendRow([]dataset.Cell{dataset.String("north"), dataset.Number(100)})
	state.SetSummary(summary)

	stage := NewLoadStage(pipeCfg, paths, nil)
	require.NoError(t, stage.Execute(context.Background(), state))

	f, err := excelize.OpenFile(state.Value(KeyReportPath))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{DataSheetName, "Sheet1"}, f.GetSheetList())
	value, err := f.GetCellValue("Sheet1", "A2")
	require.NoError(t, err)
	assert.Equal(t, "north", value)
}

func TestTransformStageJoinsLookup(t *testing.T) {
	inputDir, _ := pipelineDirs(t)
	lookupPath := filepath.Join(inputDir, "..", "regions.csv")
	writeFile(t, lookupPath,
		"Region,Manager\nnorth,alice\nsouth,bob\n")

	pipeCfg := pipelineConfig()
	pipeCfg.LookupFile = lookupPath
	pipeCfg.JoinKey = "region"

	stages := []Stage{
		NewExtractStage(inputDir, nil),
		NewTransformStage(pipeCfg, nil),
	}
	state, err := NewRunner(nil).Run(context.Background(), stages)
	require.NoError(t, err)

	table := state.Table()
	assert.Contains(t, table.Columns, "manager")

	managerIdx := table.ColumnIndex("manager")
	regionIdx := table.ColumnIndex("region")
	byRegion := make(map[string]string)
	for _, row := range table.Rows {
		byRegion[row[regionIdx].Raw] = row[managerIdx].Raw
	}
	assert.Equal(t, "alice", byRegion["north"])
	assert.Equal(t, "bob", byRegion["south"])
	assert.Empty(t, byRegion["east"]) // unmatched keys stay blank
}

func TestExtractStageEmptyDirFails(t *testing.T) {
	stages := []Stage{NewExtractStage(t.TempDir(), nil)}
	_, err := NewRunner(nil).Run(context.Background(), stages)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStageFailed)
}

func TestNotifyStageSendsReport(t *testing.T) {
	mailCfg := config.MailConfig{
		APIKey:   "SG.test",
		From:     "reports@example.com",
		FromName: "reports",
		To:       []string{"team@example.com"},
		Subject:  "Data pipeline report",
	}
	client := &fakeMailClient{}
	mailer := notify.NewMailerWithClient(mailCfg, client, nil)

	reportPath := filepath.Join(t.TempDir(), "report.xlsx")
	writeFile(t, reportPath, "workbook bytes")

	state := NewState()
	state.SetValue(KeyReportPath, reportPath)
	table := stateTable(t)
	state.SetTable(table)

	stage := NewNotifyStage(mailCfg, mailer, nil)
	require.NoError(t, stage.Execute(context.Background(), state))

	require.Len(t, client.sent, 1)
	email := client.sent[0]
	assert.Equal(t, "Data pipeline report", email.Subject)
	require.Len(t, email.Attachments, 1)
	assert.Equal(t, "report.xlsx", email.Attachments[0].Filename)
	assert.Contains(t, email.Content[0].Value, state.RunID)
}

func TestNotifyStageSkipsWhenDisabled(t *testing.T) {
	state := NewState()
	stage := NewNotifyStage(config.MailConfig{}, nil, nil)
	require.NoError(t, stage.Execute(context.Background(), state))
	assert.Equal(t, StageStatusSkipped, state.StageStates()[0].CurrentStatus())
}
