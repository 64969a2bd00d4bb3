package agentloop

import (
	"strings"
	"testing"
)

func TestTruncateOutputShortPassThrough(t *testing.T) {
	out := TruncateOutput("short", 100, TruncateHeadTail)
	if out != "short" {
		t.Errorf("short output must pass through, got %q", out)
	}
}

func TestTruncateOutputHeadTail(t *testing.T) {
	input := strings.Repeat("a", 500) + strings.Repeat("z", 500)
	out := TruncateOutput(input, 100, TruncateHeadTail)

	if !strings.Contains(out, "truncated") {
		t.Error("expected truncation warning")
	}
	if !strings.HasPrefix(out, strings.Repeat("a", 50)) {
		t.Error("head not preserved")
	}
	if !strings.HasSuffix(out, strings.Repeat("z", 50)) {
		t.Error("tail not preserved")
	}
}

func TestTruncateOutputTail(t *testing.T) {
	input := strings.Repeat("a", 500) + strings.Repeat("z", 100)
	out := TruncateOutput(input, 100, TruncateTail)

	if !strings.HasSuffix(out, strings.Repeat("z", 100)) {
		t.Error("tail not preserved")
	}
	if !strings.Contains(out, "First 500 characters were removed") {
		t.Errorf("unexpected warning text: %q", out[:80])
	}
}

func TestTruncateLines(t *testing.T) {
	input := strings.TrimSuffix(strings.Repeat("line\n", 100), "\n")
	out := TruncateLines(input, 10)

	if !strings.Contains(out, "90 lines omitted") {
		t.Errorf("expected omission marker, got %q", out)
	}
}

func TestTruncateActionOutputPerActionLimit(t *testing.T) {
	input := strings.Repeat("x", 1000)
	out := TruncateActionOutput(input, "search", map[string]int{"search": 100}, nil)
	if len(out) >= 1000 {
		t.Error("per-action char limit not applied")
	}

	// No limit configured falls back to the default, which this fits under.
	out = TruncateActionOutput(input, "other", nil, nil)
	if out != input {
		t.Error("output under the default limit must pass through")
	}
}
