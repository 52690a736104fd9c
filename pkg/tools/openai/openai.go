// Package openai adapts the LangVoice toolkit to the OpenAI function-calling
// API using github.com/openai/openai-go.
//
// Typical usage inside a chat loop:
//
//	adapter := openai.NewAdapter(toolkit)
//	params := oai.ChatCompletionNewParams{
//	    Model:    shared.ChatModelGPT4o,
//	    Messages: messages,
//	    Tools:    adapter.Tools(),
//	}
//	resp, _ := client.Chat.Completions.New(ctx, params)
//	replies, _ := adapter.ExecuteCalls(ctx, resp.Choices[0].Message.ToolCalls)
//	messages = append(messages, replies...)
package openai

import (
	"context"
	"fmt"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/langvoice/langvoice-go/pkg/tools"
)

// Adapter converts toolkit descriptors into OpenAI tool params and routes
// tool calls back through the toolkit. Safe for concurrent use.
type Adapter struct {
	toolkit *tools.Toolkit
}

// NewAdapter creates an Adapter over tk.
func NewAdapter(tk *tools.Toolkit) (*Adapter, error) {
	if tk == nil {
		return nil, fmt.Errorf("openai: toolkit must not be nil")
	}
	return &Adapter{toolkit: tk}, nil
}

// Tools returns the toolkit's descriptors as OpenAI chat-completion tool
// params, ready for ChatCompletionNewParams.Tools.
func (a *Adapter) Tools() []oai.ChatCompletionToolParam {
	defs := a.toolkit.Definitions()
	out := make([]oai.ChatCompletionToolParam, 0, len(defs))
	for _, d := range defs {
		out = append(out, oai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        d.Name,
				Description: param.NewOpt(d.Description),
				Parameters:  shared.FunctionParameters(d.Parameters),
			},
		})
	}
	return out
}

// Execute runs a single tool call against the toolkit and returns the tool
// reply message to append to the conversation. Application-level failures
// are embedded in the reply content (the model reads them); a Go error is
// returned only for tool names the toolkit does not know.
func (a *Adapter) Execute(ctx context.Context, tc oai.ChatCompletionMessageToolCall) (oai.ChatCompletionMessageParamUnion, error) {
	res, err := a.toolkit.Dispatch(ctx, tc.Function.Name, tc.Function.Arguments)
	if err != nil {
		return oai.ChatCompletionMessageParamUnion{}, fmt.Errorf("openai: tool %q: %w", tc.Function.Name, err)
	}
	return oai.ToolMessage(res.Content, tc.ID), nil
}

// ExecuteCalls runs every tool call from an assistant message, preserving
// order, and returns the corresponding tool reply messages.
func (a *Adapter) ExecuteCalls(ctx context.Context, calls []oai.ChatCompletionMessageToolCall) ([]oai.ChatCompletionMessageParamUnion, error) {
	out := make([]oai.ChatCompletionMessageParamUnion, 0, len(calls))
	for _, tc := range calls {
		msg, err := a.Execute(ctx, tc)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}
