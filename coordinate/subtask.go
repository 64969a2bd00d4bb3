package coordinate

import (
	"encoding/json"
	"time"
)

// Subtask kinds understood by the stock product-research coordinator. Each
// kind maps 1:1 to one registered action and its worker.
const (
	KindSearch  = "search"
	KindReviews = "reviews"
	KindCompare = "compare"
)

// Subtask is one decomposed unit of a parent task, executed by exactly one
// worker.
type Subtask struct {
	ID          string                 `json:"id"`
	ParentID    string                 `json:"parent_id"`
	Kind        string                 `json:"kind"`
	Description string                 `json:"description,omitempty"`
	Params      map[string]interface{} `json:"params,omitempty"`
}

// WorkerOutcome is the result of executing one Subtask. Failure is data,
// never an error: a failed subtask carries Success=false and an explanatory
// Output.
type WorkerOutcome struct {
	SubtaskID string          `json:"subtask_id"`
	Kind      string          `json:"kind"`
	Success   bool            `json:"success"`
	Output    string          `json:"output"`
	Data      json.RawMessage `json:"data,omitempty"`
	Duration  time.Duration   `json:"duration"`
}

// Result aggregates all worker outcomes for one coordinated task. Success is
// true iff every subtask succeeded.
//
// Degraded marks a result whose recommendation could not be established from
// the outcomes (for example, identifier extraction found nothing). A
// degraded result is still returned, never silently replaced with a default.
type Result struct {
	TaskID         string          `json:"task_id"`
	Success        bool            `json:"success"`
	Summary        string          `json:"summary"`
	Outcomes       []WorkerOutcome `json:"outcomes"`
	Duration       time.Duration   `json:"duration"`
	Recommendation string          `json:"recommendation,omitempty"`
	Degraded       bool            `json:"degraded,omitempty"`
}
