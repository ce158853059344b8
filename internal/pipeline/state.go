package pipeline

import (
	"sync"

	"github.com/google/uuid"

	"sheetcli/internal/dataset"
)

// Well-known state value keys.
const (
	KeyReportPath = "report_path"
	KeyCSVPath    = "csv_path"
)

// State is the shared run state passed between stages. The extract
// stage fills Table; transform may replace it and set Summary; load
// records the written file paths as values for notify.
type State struct {
	RunID string

	mu      sync.RWMutex
	table   *dataset.Table
	summary *dataset.Table
	values  map[string]string
	stages  map[string]*StageState
	order   []string
}

// NewState creates a run state with a fresh run ID.
func NewState() *State {
	return &State{
		RunID:  uuid.NewString(),
		values: make(map[string]string),
		stages: make(map[string]*StageState),
	}
}

// Table returns the shared table, which may be nil before extract.
func (s *State) Table() *dataset.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// SetTable replaces the shared table.
func (s *State) SetTable(table *dataset.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = table
}

// Summary returns the aggregated table, which may be nil.
func (s *State) Summary() *dataset.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// SetSummary replaces the aggregated table.
func (s *State) SetSummary(table *dataset.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = table
}

// Value returns a named run value.
func (s *State) Value(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// SetValue stores a named run value.
func (s *State) SetValue(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// StageState returns the runtime state of a stage, registering it on
// first use.
func (s *State) StageState(id, name string) *StageState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.stages[id]; ok {
		return existing
	}
	stage := NewStageState(id, name)
	s.stages[id] = stage
	s.order = append(s.order, id)
	return stage
}

// StageStates returns every registered stage state in registration
// order.
func (s *State) StageStates() []*StageState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*StageState, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.stages[id])
	}
	return out
}
