package anyllm

import (
	"context"
	"strings"
	"testing"

	anyllmlib "github.com/mozilla-ai/any-llm-go"

	"github.com/langvoice/langvoice-go/pkg/langvoice"
	"github.com/langvoice/langvoice-go/pkg/tools"
	"github.com/langvoice/langvoice-go/pkg/tools/mock"
)

func newTestAdapter(t *testing.T) (*Adapter, *mock.Client) {
	t.Helper()
	mc := &mock.Client{
		Languages: []langvoice.Language{{ID: "french", Name: "French"}},
	}
	tk, err := tools.NewToolkit(mc)
	if err != nil {
		t.Fatalf("NewToolkit: %v", err)
	}
	a, err := NewAdapter(tk)
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}
	return a, mc
}

func TestTools_FunctionFormat(t *testing.T) {
	a, _ := newTestAdapter(t)

	ts := a.Tools()
	if len(ts) != 4 {
		t.Fatalf("expected 4 tools, got %d", len(ts))
	}
	for _, tool := range ts {
		if tool.Type != "function" {
			t.Errorf("tool %q: expected type function, got %q", tool.Function.Name, tool.Type)
		}
		if tool.Function.Name == "" || tool.Function.Description == "" {
			t.Errorf("tool missing name or description: %+v", tool.Function)
		}
		if tool.Function.Parameters["type"] != "object" {
			t.Errorf("tool %q: parameters schema not forwarded", tool.Function.Name)
		}
	}
	if ts[0].Function.Name != tools.ToolTextToSpeech {
		t.Errorf("expected %q first, got %q", tools.ToolTextToSpeech, ts[0].Function.Name)
	}
}

func TestExecute_ProducesToolReply(t *testing.T) {
	a, mc := newTestAdapter(t)

	msg, err := a.Execute(context.Background(), anyllmlib.ToolCall{
		ID:   "tc-1",
		Type: "function",
		Function: anyllmlib.FunctionCall{
			Name:      tools.ToolTextToSpeech,
			Arguments: `{"text":"Bonjour","language":"french"}`,
		},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if msg.Role != "tool" || msg.ToolCallID != "tc-1" {
		t.Errorf("unexpected reply envelope: role=%q id=%q", msg.Role, msg.ToolCallID)
	}
	content, ok := msg.Content.(string)
	if !ok {
		t.Fatalf("expected string content, got %T", msg.Content)
	}
	if !strings.Contains(content, `"success":true`) {
		t.Errorf("expected success content, got %s", content)
	}
	if len(mc.GenerateCalls) != 1 || mc.GenerateCalls[0].Language != "french" {
		t.Errorf("client not invoked as expected: %+v", mc.GenerateCalls)
	}
}

func TestExecuteCalls_PreservesOrder(t *testing.T) {
	a, _ := newTestAdapter(t)

	calls := []anyllmlib.ToolCall{
		{ID: "tc-1", Function: anyllmlib.FunctionCall{Name: tools.ToolListLanguages, Arguments: "{}"}},
		{ID: "tc-2", Function: anyllmlib.FunctionCall{Name: tools.ToolTextToSpeech, Arguments: `{"text":"hi"}`}},
	}
	msgs, err := a.ExecuteCalls(context.Background(), calls)
	if err != nil {
		t.Fatalf("ExecuteCalls: %v", err)
	}
	if len(msgs) != 2 || msgs[0].ToolCallID != "tc-1" || msgs[1].ToolCallID != "tc-2" {
		t.Errorf("reply order wrong: %+v", msgs)
	}
	listing, ok := msgs[0].Content.(string)
	if !ok {
		t.Fatalf("expected string content, got %T", msgs[0].Content)
	}
	if !strings.Contains(listing, "french") {
		t.Errorf("expected language listing, got %s", listing)
	}
}

func TestExecute_UnknownTool(t *testing.T) {
	a, _ := newTestAdapter(t)
	_, err := a.Execute(context.Background(), anyllmlib.ToolCall{
		ID:       "tc-1",
		Function: anyllmlib.FunctionCall{Name: "bogus"},
	})
	if err == nil {
		t.Fatal("expected error for unknown tool")
	}
}
