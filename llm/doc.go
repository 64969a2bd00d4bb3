// Package llm defines the decision-backend interface consumed by the
// iteration engine and delegation coordinator, plus the adapters that
// implement it.
//
// A Backend receives the conversation history and the catalog of available
// actions, and returns either natural-language content or action requests.
// The package ships two implementations:
//
//   - GollmBackend wraps the gollm library (github.com/teilomillet/gollm)
//     for real providers (OpenAI, Anthropic, and others gollm supports).
//   - ScriptedBackend plays back a fixed response sequence for tests and
//     offline scenario runs.
//
// Backend errors form a typed hierarchy with IsRetryable classification.
// RetryBackend decorates any Backend with exponential-backoff retries; the
// engine itself never retries, so retry policy is always an explicit caller
// decision:
//
//	backend, _ := llm.NewGollmBackend("openai", os.Getenv("OPENAI_API_KEY"))
//	engineBackend := llm.WithRetry(backend, llm.DefaultRetryPolicy())
package llm
