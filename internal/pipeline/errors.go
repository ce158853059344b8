package pipeline

import (
	"errors"
	"fmt"
)

// ErrStageFailed marks any error returned from a pipeline run whose
// cause was a stage failure.
var ErrStageFailed = errors.New("stage failed")

// ErrNoStages is returned when a run is started with nothing to do.
var ErrNoStages = errors.New("no stages to run")

// StageError carries which stage failed and why.
type StageError struct {
	StageID string
	Err     error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.StageID, e.Err)
}

// Unwrap exposes the underlying cause and the ErrStageFailed sentinel.
func (e *StageError) Unwrap() []error {
	return []error{ErrStageFailed, e.Err}
}
