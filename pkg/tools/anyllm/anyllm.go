// Package anyllm adapts the LangVoice toolkit to the unified tool format of
// github.com/mozilla-ai/any-llm-go, so the same tools work against OpenAI,
// Anthropic, Gemini, Ollama and every other backend any-llm supports.
package anyllm

import (
	"context"
	"fmt"

	anyllmlib "github.com/mozilla-ai/any-llm-go"

	"github.com/langvoice/langvoice-go/pkg/tools"
)

// Adapter converts toolkit descriptors into any-llm tools and routes tool
// calls back through the toolkit. Safe for concurrent use.
type Adapter struct {
	toolkit *tools.Toolkit
}

// NewAdapter creates an Adapter over tk.
func NewAdapter(tk *tools.Toolkit) (*Adapter, error) {
	if tk == nil {
		return nil, fmt.Errorf("anyllm: toolkit must not be nil")
	}
	return &Adapter{toolkit: tk}, nil
}

// Tools returns the toolkit's descriptors in any-llm's tool format, ready
// for CompletionParams.Tools.
func (a *Adapter) Tools() []anyllmlib.Tool {
	defs := a.toolkit.Definitions()
	out := make([]anyllmlib.Tool, 0, len(defs))
	for _, d := range defs {
		out = append(out, anyllmlib.Tool{
			Type: "function",
			Function: anyllmlib.Function{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.Parameters,
			},
		})
	}
	return out
}

// Execute runs a single tool call against the toolkit and returns the
// role-"tool" reply message to append to the conversation.
func (a *Adapter) Execute(ctx context.Context, tc anyllmlib.ToolCall) (anyllmlib.Message, error) {
	res, err := a.toolkit.Dispatch(ctx, tc.Function.Name, tc.Function.Arguments)
	if err != nil {
		return anyllmlib.Message{}, fmt.Errorf("anyllm: tool %q: %w", tc.Function.Name, err)
	}
	return anyllmlib.Message{
		Role:       "tool",
		Content:    res.Content,
		ToolCallID: tc.ID,
	}, nil
}

// ExecuteCalls runs every tool call from an assistant turn, preserving
// order, and returns the corresponding tool reply messages.
func (a *Adapter) ExecuteCalls(ctx context.Context, calls []anyllmlib.ToolCall) ([]anyllmlib.Message, error) {
	out := make([]anyllmlib.Message, 0, len(calls))
	for _, tc := range calls {
		msg, err := a.Execute(ctx, tc)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}
