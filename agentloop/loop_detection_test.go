package agentloop

import (
	"testing"

	"github.com/martinemde/runloop/llm"
)

func assistantWithRequest(name, args string) llm.Message {
	return llm.AssistantMessage("", llm.ActionRequest{ID: "x", Name: name, Arguments: []byte(args)})
}

func TestDetectLoopRepeatedCall(t *testing.T) {
	var history []llm.Message
	for i := 0; i < 6; i++ {
		history = append(history, assistantWithRequest("search", `{"query":"laptop"}`))
	}

	if !DetectLoop(history, 6) {
		t.Error("expected single-call repetition to be detected")
	}
}

func TestDetectLoopAlternatingPattern(t *testing.T) {
	var history []llm.Message
	for i := 0; i < 3; i++ {
		history = append(history, assistantWithRequest("search", `{"query":"a"}`))
		history = append(history, assistantWithRequest("reviews", `{"item_id":"laptop-001"}`))
	}

	if !DetectLoop(history, 6) {
		t.Error("expected length-2 pattern to be detected")
	}
}

func TestDetectLoopDistinctCalls(t *testing.T) {
	history := []llm.Message{
		assistantWithRequest("search", `{"query":"a"}`),
		assistantWithRequest("search", `{"query":"b"}`),
		assistantWithRequest("search", `{"query":"c"}`),
		assistantWithRequest("search", `{"query":"d"}`),
		assistantWithRequest("search", `{"query":"e"}`),
		assistantWithRequest("search", `{"query":"f"}`),
	}

	if DetectLoop(history, 6) {
		t.Error("distinct arguments must not trigger detection")
	}
}

func TestDetectLoopInsufficientHistory(t *testing.T) {
	history := []llm.Message{assistantWithRequest("search", `{}`)}
	if DetectLoop(history, 6) {
		t.Error("short history must not trigger detection")
	}
}
