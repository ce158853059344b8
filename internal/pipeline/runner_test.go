package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStage struct {
	id          string
	validateErr error
	execErr     error
	executed    *[]string
}

func (s *fakeStage) ID() string   { return s.id }
func (s *fakeStage) Name() string { return "Fake " + s.id }

func (s *fakeStage) Validate(state *State) error { return s.validateErr }

func (s *fakeStage) Execute(ctx context.Context, state *State) error {
	if s.executed != nil {
		*s.executed = append(*s.executed, s.id)
	}
	return s.execErr
}

func TestRunnerRunsStagesInOrder(t *testing.T) {
	var executed []string
	stages := []Stage{
		&fakeStage{id: "first", executed: &executed},
		&fakeStage{id: "second", executed: &executed},
		&fakeStage{id: "third", executed: &executed},
	}

	state, err := NewRunner(nil).Run(context.Background(), stages)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, executed)
	assert.NotEmpty(t, state.RunID)

	for _, stageState := range state.StageStates() {
		assert.Equal(t, StageStatusCompleted, stageState.CurrentStatus())
	}
}

func TestRunnerStopsOnFirstFailure(t *testing.T) {
	var executed []string
	boom := fmt.Errorf("boom")
	stages := []Stage{
		&fakeStage{id: "first", executed: &executed},
		&fakeStage{id: "second", executed: &executed, execErr: boom},
		&fakeStage{id: "third", executed: &executed},
	}

	state, err := NewRunner(nil).Run(context.Background(), stages)
	require.Error(t, err)
	assert.Equal(t, []string{"first", "second"}, executed)

	assert.ErrorIs(t, err, ErrStageFailed)
	assert.ErrorIs(t, err, boom)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "second", stageErr.StageID)

	states := state.StageStates()
	require.Len(t, states, 2)
	assert.Equal(t, StageStatusCompleted, states[0].CurrentStatus())
	assert.Equal(t, StageStatusFailed, states[1].CurrentStatus())
}

func TestRunnerValidationFailureSkipsExecute(t *testing.T) {
	var executed []string
	stages := []Stage{
		&fakeStage{id: "first", executed: &executed, validateErr: errors.New("not ready")},
	}

	state, err := NewRunner(nil).Run(context.Background(), stages)
	require.Error(t, err)
	assert.Empty(t, executed)
	assert.Equal(t, StageStatusFailed, state.StageStates()[0].CurrentStatus())
}

func TestRunnerNoStages(t *testing.T) {
	_, err := NewRunner(nil).Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoStages)
}

func TestRunnerCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var executed []string
	stages := []Stage{&fakeStage{id: "first", executed: &executed}}

	state, err := NewRunner(nil).Run(ctx, stages)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, executed)
	assert.Equal(t, StageStatusSkipped, state.StageStates()[0].CurrentStatus())
}

func TestStateValues(t *testing.T) {
	state := NewState()
	assert.Empty(t, state.Value("missing"))

	state.SetValue(KeyReportPath, "/tmp/report.xlsx")
	assert.Equal(t, "/tmp/report.xlsx", state.Value(KeyReportPath))
}
