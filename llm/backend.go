package llm

import "context"

// Backend is the decision-making interface the iteration engine and
// coordinator consume. Given the conversation so far and the catalog of
// available actions, it returns either natural-language content or a set of
// action requests (or both).
type Backend interface {
	// Name returns the backend identifier (e.g. "openai", "anthropic",
	// "scripted").
	Name() string

	// Invoke sends the conversation and catalog and blocks until a response
	// or error arrives.
	Invoke(ctx context.Context, messages []Message, catalog []ActionDefinition) (*Response, error)
}

// Closer is implemented by backends that hold resources.
type Closer interface {
	Close() error
}
