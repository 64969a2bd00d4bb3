package coordinate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/martinemde/runloop/agentloop"
	"github.com/martinemde/runloop/runlog"
)

// Worker executes exactly one subtask per call through the action registry.
// It is stateless and has no delegation capability: a worker can neither
// spawn other workers nor reach the coordinator, which keeps delegation one
// level deep.
type Worker struct {
	kind     string
	registry *agentloop.Registry
	log      *runlog.Log
}

// NewWorker creates a Worker for one subtask kind. The log may be nil; then
// no events are recorded.
func NewWorker(kind string, registry *agentloop.Registry, log *runlog.Log) *Worker {
	return &Worker{kind: kind, registry: registry, log: log}
}

// Kind returns the subtask kind this worker serves.
func (w *Worker) Kind() string { return w.kind }

// Execute runs the subtask's action with its parameters, wrapped with
// timing. It never returns an error: action failures are reported in the
// outcome's success flag and output text.
func (w *Worker) Execute(ctx context.Context, subtask Subtask) WorkerOutcome {
	start := time.Now()

	arguments, err := json.Marshal(subtask.Params)
	if err != nil {
		arguments = []byte("{}")
	}

	if w.log != nil {
		w.log.Append(runlog.NewActionInvoked(subtask.ID, w.kind, arguments))
	}

	action := w.registry.Get(w.kind)
	if action == nil {
		msg := fmt.Sprintf("no action registered for kind %q", w.kind)
		return w.complete(subtask, WorkerOutcome{
			SubtaskID: subtask.ID,
			Kind:      w.kind,
			Success:   false,
			Output:    msg,
			Duration:  time.Since(start),
		})
	}

	outcome, err := action.Execute(ctx, arguments)
	if err != nil {
		return w.complete(subtask, WorkerOutcome{
			SubtaskID: subtask.ID,
			Kind:      w.kind,
			Success:   false,
			Output:    fmt.Sprintf("action error (%s): %v", w.kind, err),
			Duration:  time.Since(start),
		})
	}

	return w.complete(subtask, WorkerOutcome{
		SubtaskID: subtask.ID,
		Kind:      w.kind,
		Success:   true,
		Output:    outcome.Text,
		Duration:  time.Since(start),
	})
}

// complete records the action_completed event and returns the outcome.
func (w *Worker) complete(subtask Subtask, outcome WorkerOutcome) WorkerOutcome {
	if w.log != nil {
		w.log.Append(runlog.NewActionCompleted(subtask.ID, w.kind, outcome.Output, outcome.Success, outcome.Duration))
	}
	return outcome
}
