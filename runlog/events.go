package runlog

import (
	"encoding/json"
	"time"
)

// EventKind discriminates between event variants.
type EventKind string

const (
	EventRunStarted      EventKind = "run_started"
	EventActionInvoked   EventKind = "action_invoked"
	EventActionCompleted EventKind = "action_completed"
	EventVariableChanged EventKind = "variable_changed"
	EventRunCompleted    EventKind = "run_completed"
	EventErrorOccurred   EventKind = "error_occurred"
)

// Event is a single immutable fact about a run. Exactly one payload field is
// set, matching Kind. The timestamp is assigned by Log.Append, never by the
// caller.
type Event struct {
	Kind      EventKind `json:"kind"`
	Timestamp time.Time `json:"timestamp"`

	RunStarted      *RunStartedEvent      `json:"run_started,omitempty"`
	ActionInvoked   *ActionInvokedEvent   `json:"action_invoked,omitempty"`
	ActionCompleted *ActionCompletedEvent `json:"action_completed,omitempty"`
	VariableChanged *VariableChangedEvent `json:"variable_changed,omitempty"`
	RunCompleted    *RunCompletedEvent    `json:"run_completed,omitempty"`
	ErrorOccurred   *ErrorOccurredEvent   `json:"error_occurred,omitempty"`
}

// RunStartedEvent marks the beginning of a run.
type RunStartedEvent struct {
	Task    string   `json:"task"`
	Actions []string `json:"actions,omitempty"`
}

// ActionInvokedEvent records the dispatch of one action request.
type ActionInvokedEvent struct {
	RequestID string          `json:"request_id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ActionCompletedEvent records the outcome of one action request.
type ActionCompletedEvent struct {
	RequestID string        `json:"request_id"`
	Name      string        `json:"name"`
	Result    string        `json:"result"`
	Success   bool          `json:"success"`
	Duration  time.Duration `json:"duration"`
}

// VariableChangedEvent records a scratch-variable update.
type VariableChangedEvent struct {
	Key      string `json:"key"`
	OldValue string `json:"old_value,omitempty"`
	NewValue string `json:"new_value"`
}

// RunCompletedEvent marks the end of a run, successful or not.
type RunCompletedEvent struct {
	Result     string        `json:"result"`
	Success    bool          `json:"success"`
	Iterations int           `json:"iterations"`
	Duration   time.Duration `json:"duration"`
}

// ErrorOccurredEvent records a failure. Recoverable errors do not affect the
// derived run status; a non-recoverable error marks the run failed.
type ErrorOccurredEvent struct {
	Message     string `json:"message"`
	Recoverable bool   `json:"recoverable"`
}

// NewRunStarted creates a run_started Event.
func NewRunStarted(task string, actions []string) Event {
	return Event{
		Kind:       EventRunStarted,
		RunStarted: &RunStartedEvent{Task: task, Actions: actions},
	}
}

// NewActionInvoked creates an action_invoked Event.
func NewActionInvoked(requestID, name string, arguments json.RawMessage) Event {
	return Event{
		Kind:          EventActionInvoked,
		ActionInvoked: &ActionInvokedEvent{RequestID: requestID, Name: name, Arguments: arguments},
	}
}

// NewActionCompleted creates an action_completed Event.
func NewActionCompleted(requestID, name, result string, success bool, duration time.Duration) Event {
	return Event{
		Kind: EventActionCompleted,
		ActionCompleted: &ActionCompletedEvent{
			RequestID: requestID,
			Name:      name,
			Result:    result,
			Success:   success,
			Duration:  duration,
		},
	}
}

// NewVariableChanged creates a variable_changed Event.
func NewVariableChanged(key, oldValue, newValue string) Event {
	return Event{
		Kind:            EventVariableChanged,
		VariableChanged: &VariableChangedEvent{Key: key, OldValue: oldValue, NewValue: newValue},
	}
}

// NewRunCompleted creates a run_completed Event.
func NewRunCompleted(result string, success bool, iterations int, duration time.Duration) Event {
	return Event{
		Kind: EventRunCompleted,
		RunCompleted: &RunCompletedEvent{
			Result:     result,
			Success:    success,
			Iterations: iterations,
			Duration:   duration,
		},
	}
}

// NewErrorOccurred creates an error_occurred Event.
func NewErrorOccurred(message string, recoverable bool) Event {
	return Event{
		Kind:          EventErrorOccurred,
		ErrorOccurred: &ErrorOccurredEvent{Message: message, Recoverable: recoverable},
	}
}
