package runlog

import "time"

// RunStatus is the coarse lifecycle state derived from the event sequence.
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// ActionStats counts calls for one action name.
type ActionStats struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// RunState is derived entirely by folding over the event sequence. It is a
// cache, never a source of truth: two folds over the same events yield
// identical states.
type RunState struct {
	Status      RunStatus              `json:"status"`
	Task        string                 `json:"task,omitempty"`
	StartedAt   time.Time              `json:"started_at,omitempty"`
	EndedAt     time.Time              `json:"ended_at,omitempty"`
	Iterations  int                    `json:"iterations"`
	Duration    time.Duration          `json:"duration"`
	ActionCalls map[string]ActionStats `json:"action_calls,omitempty"`
	Variables   map[string]string      `json:"variables,omitempty"`
	Errors      []string               `json:"errors,omitempty"`
	Result      string                 `json:"result,omitempty"`
	Success     bool                   `json:"success"`
}

// TotalCalls returns the number of completed action calls across all names.
func (s RunState) TotalCalls() int {
	n := 0
	for _, st := range s.ActionCalls {
		n += st.Total
	}
	return n
}

// Summary is the read-only view consumed by evaluation over repeated runs.
type Summary struct {
	Status     RunStatus     `json:"status"`
	Success    bool          `json:"success"`
	Iterations int           `json:"iterations"`
	Duration   time.Duration `json:"duration"`
	Calls      int           `json:"calls"`
	Errors     int           `json:"errors"`
}

// Summary collapses a RunState into its evaluation view.
func (s RunState) Summary() Summary {
	return Summary{
		Status:     s.Status,
		Success:    s.Success,
		Iterations: s.Iterations,
		Duration:   s.Duration,
		Calls:      s.TotalCalls(),
		Errors:     len(s.Errors),
	}
}

// Derive folds an event sequence into a RunState. The fold is pure and
// deterministic, and matches exhaustively over every event kind.
func Derive(events []Event) RunState {
	state := RunState{
		Status:      StatusRunning,
		ActionCalls: make(map[string]ActionStats),
		Variables:   make(map[string]string),
	}

	for _, e := range events {
		switch e.Kind {
		case EventRunStarted:
			if e.RunStarted != nil {
				state.Task = e.RunStarted.Task
				state.StartedAt = e.Timestamp
			}

		case EventActionInvoked:
			// Counted on completion, when the success flag is known.

		case EventActionCompleted:
			if e.ActionCompleted != nil {
				st := state.ActionCalls[e.ActionCompleted.Name]
				st.Total++
				if e.ActionCompleted.Success {
					st.Succeeded++
				} else {
					st.Failed++
				}
				state.ActionCalls[e.ActionCompleted.Name] = st
			}

		case EventVariableChanged:
			if e.VariableChanged != nil {
				state.Variables[e.VariableChanged.Key] = e.VariableChanged.NewValue
			}

		case EventRunCompleted:
			if e.RunCompleted != nil {
				state.EndedAt = e.Timestamp
				state.Iterations = e.RunCompleted.Iterations
				state.Duration = e.RunCompleted.Duration
				state.Result = e.RunCompleted.Result
				state.Success = e.RunCompleted.Success
				if e.RunCompleted.Success {
					state.Status = StatusCompleted
				} else {
					state.Status = StatusFailed
				}
			}

		case EventErrorOccurred:
			if e.ErrorOccurred != nil {
				state.Errors = append(state.Errors, e.ErrorOccurred.Message)
				if !e.ErrorOccurred.Recoverable {
					state.Status = StatusFailed
					state.EndedAt = e.Timestamp
				}
			}
		}
	}

	return state
}
