package llm

import (
	"context"
	"strings"
	"testing"
)

func TestScriptedBackendPlaysStepsInOrder(t *testing.T) {
	backend := NewScriptedBackend(
		&Response{Content: "step one"},
		&Response{ActionRequests: []ActionRequest{{ID: "call_1", Name: "search"}}},
	)

	first, err := backend.Invoke(context.Background(), []Message{UserMessage("hi")}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Content != "step one" {
		t.Errorf("unexpected first step: %+v", first)
	}

	second, err := backend.Invoke(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second.ActionRequests) != 1 || second.ActionRequests[0].Name != "search" {
		t.Errorf("unexpected second step: %+v", second)
	}
}

func TestScriptedBackendExhaustion(t *testing.T) {
	backend := NewScriptedBackend(&Response{Content: "only"})

	if _, err := backend.Invoke(context.Background(), nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := backend.Invoke(context.Background(), nil, nil)
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if _, ok := err.(*ConfigurationError); !ok {
		t.Errorf("expected ConfigurationError, got %T", err)
	}
	if IsRetryable(err) {
		t.Error("exhaustion must not be retryable")
	}
}

func TestScriptedBackendAdaptsDoneFlag(t *testing.T) {
	backend := NewScriptedBackend(&Response{Content: "final answer", Done: true})

	resp, err := backend.Invoke(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.ActionRequests) != 1 {
		t.Fatalf("done flag should become one terminator request, got %+v", resp)
	}
	req := resp.ActionRequests[0]
	if req.Name != "done" {
		t.Errorf("expected terminator action, got %q", req.Name)
	}
	if !strings.Contains(string(req.Arguments), "final answer") {
		t.Errorf("terminator arguments missing content: %s", req.Arguments)
	}
}

func TestScriptedBackendRecordsInvocations(t *testing.T) {
	backend := NewScriptedBackend(&Response{Content: "ok"})

	messages := []Message{SystemMessage("sys"), UserMessage("task")}
	if _, err := backend.Invoke(context.Background(), messages, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(backend.Invocations) != 1 {
		t.Fatalf("expected 1 recorded invocation, got %d", len(backend.Invocations))
	}
	if backend.Invocations[0][1].Content != "task" {
		t.Errorf("unexpected recorded history: %+v", backend.Invocations[0])
	}
}
