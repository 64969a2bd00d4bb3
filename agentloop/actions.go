package agentloop

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/martinemde/runloop/llm"
)

// Outcome is the result of executing one action. Terminate is set only by
// the distinguished terminator action; it ends the run with Text as the
// final result. Every other action returns a plain Ok outcome.
type Outcome struct {
	Text      string
	Terminate bool
}

// ActionExecutor runs one action with the backend-supplied arguments. An
// error return reports a recoverable execution failure; it never aborts the
// run.
type ActionExecutor func(ctx context.Context, arguments json.RawMessage) (Outcome, error)

// Action is a named, schema-described operation the decision backend may
// request.
type Action struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
	Execute     ActionExecutor
}

// Definition returns the catalog entry for the action.
func (a Action) Definition() llm.ActionDefinition {
	return llm.ActionDefinition{
		Name:        a.Name,
		Description: a.Description,
		Parameters:  a.Parameters,
	}
}

// Registry manages action registration and lookup. It is supplied by the
// caller; the engine and workers only look up and execute.
type Registry struct {
	actions map[string]*Action
	mu      sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]*Action)}
}

// Register adds or replaces an action in the registry.
func (r *Registry) Register(action Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[action.Name] = &action
}

// Unregister removes an action from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.actions, name)
}

// Get returns a registered action by name, or nil if not found.
func (r *Registry) Get(name string) *Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.actions[name]
}

// Names returns the sorted names of all registered actions.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns the action catalog for sending to the backend, sorted
// by name.
func (r *Registry) Definitions() []llm.ActionDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]llm.ActionDefinition, 0, len(r.actions))
	for _, action := range r.actions {
		defs = append(defs, action.Definition())
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Count returns the number of registered actions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}

// NewTerminator builds the distinguished action that ends a run. Its
// arguments are passed through verbatim as the final result text, so a
// backend that calls it with a JSON payload produces a JSON result.
func NewTerminator(name string) Action {
	return Action{
		Name:        name,
		Description: "Signal that the task is complete. Call this with the final result; no further actions run after it.",
		Parameters: map[string]interface{}{
			"type":                 "object",
			"additionalProperties": true,
		},
		Execute: func(ctx context.Context, arguments json.RawMessage) (Outcome, error) {
			return Outcome{Text: string(arguments), Terminate: true}, nil
		},
	}
}

// ParseArguments unmarshals action arguments into a map for validation and
// access.
func ParseArguments(raw json.RawMessage) (map[string]interface{}, error) {
	var args map[string]interface{}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("invalid action arguments: %w", err)
	}
	return args, nil
}

// GetStringArg extracts a string argument from parsed arguments.
func GetStringArg(args map[string]interface{}, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetIntArg extracts an integer argument from parsed arguments.
func GetIntArg(args map[string]interface{}, key string) (int, bool) {
	v, ok := args[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

// GetBoolArg extracts a boolean argument from parsed arguments.
func GetBoolArg(args map[string]interface{}, key string) (bool, bool) {
	v, ok := args[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}
