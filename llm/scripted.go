package llm

import (
	"context"
	"fmt"
	"sync"
)

// ScriptedBackend plays back a fixed sequence of responses, one per Invoke
// call. It is selected by explicit construction, never by ambient process
// state, and is the standard double for engine and coordinator tests and for
// offline scenario runs.
//
// A scripted step with Done=true is converted into a request for the named
// terminator action, demonstrating how backends that only speak a done flag
// are adapted to the terminator protocol.
type ScriptedBackend struct {
	mu         sync.Mutex
	steps      []*Response
	next       int
	terminator string

	// Invocations records the message history seen by each Invoke call, for
	// test assertions.
	Invocations [][]Message
}

// NewScriptedBackend creates a ScriptedBackend that returns the given
// responses in order. Invoking past the last step returns a
// ConfigurationError.
func NewScriptedBackend(steps ...*Response) *ScriptedBackend {
	return &ScriptedBackend{steps: steps, terminator: "done"}
}

// SetTerminator changes the action name substituted for Done-flagged steps.
func (s *ScriptedBackend) SetTerminator(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terminator = name
}

// Name returns "scripted".
func (s *ScriptedBackend) Name() string { return "scripted" }

// Invoke returns the next scripted response.
func (s *ScriptedBackend) Invoke(ctx context.Context, messages []Message, catalog []ActionDefinition) (*Response, error) {
	select {
	case <-ctx.Done():
		return nil, &AbortError{BackendError: BackendError{Message: "scripted invoke cancelled", Cause: ctx.Err()}}
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]Message, len(messages))
	copy(history, messages)
	s.Invocations = append(s.Invocations, history)

	if s.next >= len(s.steps) {
		return nil, &ConfigurationError{BackendError: BackendError{
			Message: fmt.Sprintf("scripted backend exhausted after %d steps", len(s.steps)),
		}}
	}

	step := s.steps[s.next]
	s.next++

	if step.Done && len(step.ActionRequests) == 0 {
		// Adapt the done flag to the terminator action protocol.
		args := []byte(fmt.Sprintf("%q", step.Content))
		return &Response{
			ActionRequests: []ActionRequest{{
				ID:        fmt.Sprintf("call_script_%d", s.next),
				Name:      s.terminator,
				Arguments: args,
			}},
			Usage: step.Usage,
		}, nil
	}

	return step, nil
}
