package llm

import "encoding/json"

// Role identifies who produced a message in a conversation.
type Role string

const (
	RoleSystem       Role = "system"
	RoleUser         Role = "user"
	RoleAssistant    Role = "assistant"
	RoleActionResult Role = "action_result"
)

// ActionRequest is a backend-issued instruction to run one action. Only the
// decision backend produces these.
type ActionRequest struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ActionDefinition is the catalog entry describing one action to the backend.
type ActionDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

// Message is one turn of the conversation supplied to the backend.
//
// An action_result message must never appear without a preceding assistant
// message carrying the matching request ID; callers append the assistant
// message with all its requests before any of the results.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// ActionRequests are set on assistant messages only, in the order the
	// backend emitted them.
	ActionRequests []ActionRequest `json:"action_requests,omitempty"`

	// ActionRequestID links an action_result message to the request it
	// answers.
	ActionRequestID string `json:"action_request_id,omitempty"`
	IsError         bool   `json:"is_error,omitempty"`
}

// SystemMessage creates a system Message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage creates a user Message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates an assistant Message carrying zero or more action
// requests.
func AssistantMessage(content string, requests ...ActionRequest) Message {
	return Message{Role: RoleAssistant, Content: content, ActionRequests: requests}
}

// ActionResultMessage creates an action_result Message answering requestID.
func ActionResultMessage(requestID, content string, isError bool) Message {
	return Message{
		Role:            RoleActionResult,
		Content:         content,
		ActionRequestID: requestID,
		IsError:         isError,
	}
}

// Usage tracks token consumption reported by a backend.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Add returns a new Usage that is the sum of u and other.
func (u Usage) Add(other Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
		TotalTokens:  u.TotalTokens + other.TotalTokens,
	}
}

// Response is what a backend returns for one Invoke call: natural-language
// content, zero or more action requests, or both.
//
// Done is advisory. The iteration engine terminates on the distinguished
// terminator action, not on this flag; backends that only signal completion
// via Done must be adapted to request the terminator instead.
type Response struct {
	Content        string          `json:"content,omitempty"`
	ActionRequests []ActionRequest `json:"action_requests,omitempty"`
	Done           bool            `json:"done,omitempty"`
	Usage          Usage           `json:"usage"`
}
