package pipeline

import (
	"context"
	"log/slog"
)

// Runner executes stages in order over a shared state.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a runner. A nil logger falls back to slog.Default.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// Run executes the stages sequentially and returns the final state.
// The first stage failure ends the run: the error is logged with the
// run ID and returned wrapped as a StageError. Stages may mark
// themselves skipped, which does not end the run.
func (r *Runner) Run(ctx context.Context, stages []Stage) (*State, error) {
	if len(stages) == 0 {
		return nil, ErrNoStages
	}

	state := NewState()

	r.logger.Info("pipeline run started",
		slog.String("run_id", state.RunID),
		slog.Int("stage_count", len(stages)))

	for _, stage := range stages {
		stageState := state.StageState(stage.ID(), stage.Name())

		if err := ctx.Err(); err != nil {
			stageState.Skip("run canceled")
			return state, &StageError{StageID: stage.ID(), Err: err}
		}

		if err := stage.Validate(state); err != nil {
			stageState.Fail(err)
			r.logger.Error("stage validation failed",
				slog.String("run_id", state.RunID),
				slog.String("stage_id", stage.ID()),
				slog.String("error", err.Error()))
			return state, &StageError{StageID: stage.ID(), Err: err}
		}

		stageState.Start()
		r.logger.Info("stage started",
			slog.String("run_id", state.RunID),
			slog.String("stage_id", stage.ID()),
			slog.String("stage_name", stage.Name()))

		if err := stage.Execute(ctx, state); err != nil {
			stageState.Fail(err)
			r.logger.Error("stage failed",
				slog.String("run_id", state.RunID),
				slog.String("stage_id", stage.ID()),
				slog.String("error", err.Error()))
			return state, &StageError{StageID: stage.ID(), Err: err}
		}

		// A stage may have marked itself skipped during Execute
		if stageState.CurrentStatus() == StageStatusActive {
			stageState.Complete()
		}
		r.logger.Info("stage finished",
			slog.String("run_id", state.RunID),
			slog.String("stage_id", stage.ID()),
			slog.String("status", string(stageState.CurrentStatus())),
			slog.Duration("duration", stageState.Duration()))
	}

	r.logger.Info("pipeline run completed", slog.String("run_id", state.RunID))
	return state, nil
}
