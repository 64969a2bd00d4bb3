package agentloop

import (
	"context"
	"encoding/json"
	"testing"
)

func TestRegistryRegisterGet(t *testing.T) {
	registry := NewRegistry()
	registry.Register(Action{Name: "search", Description: "Search."})

	if got := registry.Get("search"); got == nil {
		t.Fatal("expected registered action")
	}
	if got := registry.Get("absent"); got != nil {
		t.Errorf("expected nil for unregistered action, got %+v", got)
	}
	if registry.Count() != 1 {
		t.Errorf("expected count 1, got %d", registry.Count())
	}

	registry.Unregister("search")
	if registry.Get("search") != nil {
		t.Error("action still present after unregister")
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"reviews", "done", "search", "compare"} {
		registry.Register(Action{Name: name})
	}

	names := registry.Names()
	want := []string{"compare", "done", "reviews", "search"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestRegistryDefinitions(t *testing.T) {
	registry := NewRegistry()
	registry.Register(Action{Name: "search", Description: "Search the catalog."})
	registry.Register(NewTerminator("done"))

	defs := registry.Definitions()
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}
	if defs[0].Name != "done" || defs[1].Name != "search" {
		t.Errorf("definitions not sorted by name: %v", defs)
	}
}

func TestTerminatorPassesArgumentsThrough(t *testing.T) {
	done := NewTerminator("done")

	payload := `{"recommendation":"laptop-001","confidence":0.85}`
	outcome, err := done.Execute(context.Background(), json.RawMessage(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Terminate {
		t.Error("terminator outcome must carry the terminate tag")
	}
	if outcome.Text != payload {
		t.Errorf("expected payload pass-through, got %q", outcome.Text)
	}
}

func TestArgumentHelpers(t *testing.T) {
	args, err := ParseArguments(json.RawMessage(`{"query":"laptop","limit":5,"strict":true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s, ok := GetStringArg(args, "query"); !ok || s != "laptop" {
		t.Errorf("GetStringArg = %q, %v", s, ok)
	}
	if n, ok := GetIntArg(args, "limit"); !ok || n != 5 {
		t.Errorf("GetIntArg = %d, %v", n, ok)
	}
	if b, ok := GetBoolArg(args, "strict"); !ok || !b {
		t.Errorf("GetBoolArg = %v, %v", b, ok)
	}
	if _, ok := GetStringArg(args, "missing"); ok {
		t.Error("expected missing key to report !ok")
	}

	if _, err := ParseArguments(json.RawMessage(`not json`)); err == nil {
		t.Error("expected error for invalid arguments")
	}
}
