package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/teilomillet/gollm"
)

// GollmBackend wraps a gollm.LLM instance and implements Backend. It
// translates between the conversation/catalog types and gollm's prompt API.
type GollmBackend struct {
	provider string
	llm      gollm.LLM
	model    string
}

// GollmOption configures a GollmBackend.
type GollmOption func(*gollmConfig)

type gollmConfig struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	extraOpts   []gollm.ConfigOption
}

// WithAPIKey sets the API key for the backend.
func WithAPIKey(key string) GollmOption {
	return func(c *gollmConfig) {
		c.apiKey = key
	}
}

// WithModel sets the model for the backend.
func WithModel(model string) GollmOption {
	return func(c *gollmConfig) {
		c.model = model
	}
}

// WithMaxTokens sets the default max tokens.
func WithMaxTokens(n int) GollmOption {
	return func(c *gollmConfig) {
		c.maxTokens = n
	}
}

// WithTemperature sets the default temperature.
func WithTemperature(t float64) GollmOption {
	return func(c *gollmConfig) {
		c.temperature = t
	}
}

// WithGollmOptions adds extra gollm configuration options.
func WithGollmOptions(opts ...gollm.ConfigOption) GollmOption {
	return func(c *gollmConfig) {
		c.extraOpts = append(c.extraOpts, opts...)
	}
}

// NewGollmBackend creates a GollmBackend for the given provider. If apiKey is
// empty, gollm reads it from environment variables.
func NewGollmBackend(provider string, apiKey string, opts ...GollmOption) (*GollmBackend, error) {
	cfg := &gollmConfig{
		apiKey:      apiKey,
		maxTokens:   4096,
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	model := cfg.model
	if model == "" {
		switch provider {
		case "anthropic":
			model = "claude-sonnet-4-5-20250514"
		default:
			model = "gpt-4o-mini"
		}
	}

	gollmOpts := []gollm.ConfigOption{
		gollm.SetProvider(provider),
		gollm.SetModel(model),
		gollm.SetMaxTokens(cfg.maxTokens),
		gollm.SetTemperature(cfg.temperature),
		gollm.SetMaxRetries(0), // Retry lives in RetryBackend.
		gollm.SetLogLevel(gollm.LogLevelWarn),
	}
	if cfg.apiKey != "" {
		gollmOpts = append(gollmOpts, gollm.SetAPIKey(cfg.apiKey))
	}
	gollmOpts = append(gollmOpts, cfg.extraOpts...)

	llm, err := gollm.NewLLM(gollmOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gollm LLM for provider %s: %w", provider, err)
	}

	return &GollmBackend{provider: provider, llm: llm, model: model}, nil
}

// NewGollmBackendFromLLM wraps an existing gollm.LLM instance.
func NewGollmBackendFromLLM(provider string, llm gollm.LLM) *GollmBackend {
	return &GollmBackend{provider: provider, llm: llm}
}

// Name returns the provider identifier.
func (b *GollmBackend) Name() string {
	return b.provider
}

// Invoke sends the conversation and action catalog to the model and
// translates the generated text back into a Response.
func (b *GollmBackend) Invoke(ctx context.Context, messages []Message, catalog []ActionDefinition) (*Response, error) {
	prompt := b.translate(messages, catalog)

	text, err := b.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, b.translateError(err)
	}

	return b.buildResponse(text), nil
}

// translate converts the conversation into a gollm Prompt.
func (b *GollmBackend) translate(messages []Message, catalog []ActionDefinition) *gollm.Prompt {
	var systemPrompt string
	var userParts []string

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			systemPrompt += msg.Content + "\n"
		case RoleUser:
			userParts = append(userParts, msg.Content)
		case RoleAssistant:
			if msg.Content != "" {
				userParts = append(userParts, "[Assistant]: "+msg.Content)
			}
			for _, req := range msg.ActionRequests {
				userParts = append(userParts,
					fmt.Sprintf("[Action Requested] %s(%s) id=%s", req.Name, string(req.Arguments), req.ID))
			}
		case RoleActionResult:
			prefix := "[Action Result]"
			if msg.IsError {
				prefix = "[Action Error]"
			}
			userParts = append(userParts, fmt.Sprintf("%s %s: %s", prefix, msg.ActionRequestID, msg.Content))
		}
	}

	promptText := strings.Join(userParts, "\n")
	if promptText == "" {
		promptText = "Hello"
	}

	promptOpts := []gollm.PromptOption{}
	if systemPrompt != "" {
		promptOpts = append(promptOpts, gollm.WithSystemPrompt(strings.TrimSpace(systemPrompt), gollm.CacheTypeEphemeral))
	}

	if len(catalog) > 0 {
		tools := make([]gollm.Tool, 0, len(catalog))
		for _, def := range catalog {
			tools = append(tools, gollm.Tool{
				Type: "function",
				Function: gollm.Function{
					Name:        def.Name,
					Description: def.Description,
					Parameters:  def.Parameters,
				},
			})
		}
		promptOpts = append(promptOpts, gollm.WithTools(tools))
		promptOpts = append(promptOpts, gollm.WithToolChoice("auto"))
	}

	return gollm.NewPrompt(promptText, promptOpts...)
}

// buildResponse constructs a Response from the generated text, extracting any
// embedded action-request JSON.
func (b *GollmBackend) buildResponse(text string) *Response {
	requests := b.parseActionRequests(text)
	content := b.stripActionJSON(text, requests)

	return &Response{
		Content:        content,
		ActionRequests: requests,
		Usage: Usage{
			// gollm does not expose detailed usage; estimate from length.
			OutputTokens: len(text) / 4,
			TotalTokens:  len(text) / 4,
		},
	}
}

// parseActionRequests extracts action requests embedded in the response text.
// gollm may return tool calls as JSON in the generated text.
func (b *GollmBackend) parseActionRequests(text string) []ActionRequest {
	start := strings.Index(text, `{"tool_calls"`)
	if start == -1 {
		start = strings.Index(text, `[{"name"`)
	}
	if start == -1 {
		return nil
	}

	var rawCalls []struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal([]byte(text[start:]), &rawCalls); err != nil {
		return nil
	}

	var requests []ActionRequest
	for _, rc := range rawCalls {
		requests = append(requests, ActionRequest{
			ID:        "call_" + uuid.New().String()[:8],
			Name:      rc.Name,
			Arguments: rc.Arguments,
		})
	}
	return requests
}

// stripActionJSON removes parsed action-request JSON from the text.
func (b *GollmBackend) stripActionJSON(text string, requests []ActionRequest) string {
	if len(requests) == 0 {
		return text
	}
	result := text
	for _, pattern := range []string{`{"tool_calls"`, `[{"name"`} {
		if idx := strings.Index(result, pattern); idx != -1 {
			result = strings.TrimSpace(result[:idx])
		}
	}
	return result
}

// translateError converts a gollm error into the backend error hierarchy.
func (b *GollmBackend) translateError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	msgLower := strings.ToLower(msg)

	switch {
	case strings.Contains(msgLower, "401") || strings.Contains(msgLower, "unauthorized") || strings.Contains(msgLower, "invalid api key"):
		return &AuthenticationError{ProviderError: ProviderError{
			BackendError: BackendError{Message: msg, Cause: err}, Provider: b.provider, StatusCode: 401,
		}}
	case strings.Contains(msgLower, "403") || strings.Contains(msgLower, "forbidden"):
		return &AccessDeniedError{ProviderError: ProviderError{
			BackendError: BackendError{Message: msg, Cause: err}, Provider: b.provider, StatusCode: 403,
		}}
	case strings.Contains(msgLower, "429") || strings.Contains(msgLower, "rate limit"):
		return &RateLimitError{ProviderError: ProviderError{
			BackendError: BackendError{Message: msg, Cause: err}, Provider: b.provider, StatusCode: 429, Retryable: true,
		}}
	case strings.Contains(msgLower, "context length") || strings.Contains(msgLower, "too many tokens"):
		return &ContextLengthError{ProviderError: ProviderError{
			BackendError: BackendError{Message: msg, Cause: err}, Provider: b.provider, StatusCode: 413,
		}}
	case strings.Contains(msgLower, "500") || strings.Contains(msgLower, "internal server"):
		return &ServerError{ProviderError: ProviderError{
			BackendError: BackendError{Message: msg, Cause: err}, Provider: b.provider, StatusCode: 500, Retryable: true,
		}}
	case strings.Contains(msgLower, "timeout"):
		return &RequestTimeoutError{BackendError: BackendError{Message: msg, Cause: err}}
	default:
		return &ProviderError{
			BackendError: BackendError{Message: msg, Cause: err},
			Provider:     b.provider,
			Retryable:    true,
		}
	}
}
