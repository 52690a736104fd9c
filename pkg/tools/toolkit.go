// Package tools converts the LangVoice client surface into named,
// schema-described tools that LLM function calling can invoke.
//
// [Toolkit] is framework-agnostic: [Toolkit.Definitions] yields the static
// tool descriptors and [Toolkit.Dispatch] routes a tool name plus
// JSON-encoded arguments to the matching client call. The subpackages adapt
// these to specific runtimes (openai-go tool params, any-llm tools, an MCP
// server).
//
// Dispatch results are JSON objects so they can be inserted into an LLM
// conversation verbatim. Application-level failures (bad arguments, API
// errors) are reported inside the result with "success": false rather than
// as Go errors — the calling model is expected to read and react to them.
package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/langvoice/langvoice-go/pkg/langvoice"
)

// Tool names exposed to agent frameworks.
const (
	ToolTextToSpeech  = "langvoice_text_to_speech"
	ToolMultiVoice    = "langvoice_multi_voice_speech"
	ToolListVoices    = "langvoice_list_voices"
	ToolListLanguages = "langvoice_list_languages"
)

// API is the client surface the toolkit depends on. Both [langvoice.Client]
// and test fakes satisfy it.
type API interface {
	Generate(ctx context.Context, req langvoice.GenerateRequest) (*langvoice.GenerateResponse, error)
	GenerateMultiVoice(ctx context.Context, req langvoice.MultiVoiceRequest) (*langvoice.GenerateResponse, error)
	ListVoices(ctx context.Context) ([]langvoice.Voice, error)
	ListLanguages(ctx context.Context) ([]langvoice.Language, error)
}

// Definition describes one tool: its name, what it does, and the JSON
// Schema of its parameters. Definitions are static — generated once per
// toolkit and identical across calls.
type Definition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Result is the outcome of a single dispatch. Content is a JSON object
// string ready for insertion into an LLM context window; IsError mirrors the
// embedded "success" flag for callers that need it without re-parsing.
type Result struct {
	Content string
	IsError bool
}

// Option is a functional option for configuring a [Toolkit].
type Option func(*Toolkit)

// WithAudioDir makes the toolkit write every synthesised MP3 into dir with a
// timestamped filename, reporting the path in the result as "saved_path".
// Useful for agents whose runtime cannot handle base64 audio payloads.
func WithAudioDir(dir string) Option {
	return func(tk *Toolkit) {
		tk.audioDir = dir
	}
}

// WithMetrics records per-tool dispatch counts into the given instrument
// set. Disabled by default.
func WithMetrics(m *langvoice.Metrics) Option {
	return func(tk *Toolkit) {
		tk.metrics = m
	}
}

// Toolkit maps tool names onto LangVoice client calls. It holds no state
// across dispatches beyond the client itself and is safe for concurrent use.
type Toolkit struct {
	client   API
	audioDir string
	metrics  *langvoice.Metrics
}

// NewToolkit creates a Toolkit over client.
func NewToolkit(client API, opts ...Option) (*Toolkit, error) {
	if client == nil {
		return nil, fmt.Errorf("tools: client must not be nil")
	}
	tk := &Toolkit{client: client}
	for _, o := range opts {
		o(tk)
	}
	return tk, nil
}

// Dispatch executes the named tool with JSON-encoded args and returns its
// result. args must be a JSON object; "" and "{}" are valid for
// parameter-less tools.
//
// A Go error is returned only for an unknown tool name — a caller-side
// wiring bug. Everything the remote API can get wrong (auth, rate limits,
// validation) lands inside the Result with IsError set, so the driving model
// sees the failure and can adjust.
func (tk *Toolkit) Dispatch(ctx context.Context, name, args string) (*Result, error) {
	var res *Result
	switch name {
	case ToolTextToSpeech:
		res = tk.textToSpeech(ctx, args)
	case ToolMultiVoice:
		res = tk.multiVoice(ctx, args)
	case ToolListVoices:
		res = tk.listVoices(ctx)
	case ToolListLanguages:
		res = tk.listLanguages(ctx)
	default:
		return nil, fmt.Errorf("tools: unknown tool %q", name)
	}

	status := "ok"
	if res.IsError {
		status = "error"
	}
	tk.metrics.RecordToolCall(ctx, name, status)
	return res, nil
}

// ---- tool implementations ----

type ttsArgs struct {
	Text     string  `json:"text"`
	Voice    string  `json:"voice"`
	Language string  `json:"language"`
	Speed    float64 `json:"speed"`
}

func (tk *Toolkit) textToSpeech(ctx context.Context, args string) *Result {
	var a ttsArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return errorResult(err)
	}

	resp, err := tk.client.Generate(ctx, langvoice.GenerateRequest{
		Text:     a.Text,
		Voice:    a.Voice,
		Language: a.Language,
		Speed:    a.Speed,
	})
	if err != nil {
		return errorResult(err)
	}
	return tk.audioResult(ctx, resp)
}

type multiVoiceArgs struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Speed    float64 `json:"speed"`
}

func (tk *Toolkit) multiVoice(ctx context.Context, args string) *Result {
	var a multiVoiceArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return errorResult(err)
	}

	resp, err := tk.client.GenerateMultiVoice(ctx, langvoice.MultiVoiceRequest{
		Text:     a.Text,
		Language: a.Language,
		Speed:    a.Speed,
	})
	if err != nil {
		return errorResult(err)
	}
	return tk.audioResult(ctx, resp)
}

func (tk *Toolkit) listVoices(ctx context.Context) *Result {
	voices, err := tk.client.ListVoices(ctx)
	if err != nil {
		return errorResult(err)
	}

	type entry struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Gender string `json:"gender,omitempty"`
	}
	out := make([]entry, 0, len(voices))
	for _, v := range voices {
		out = append(out, entry{ID: v.ID, Name: v.Name, Gender: v.Gender})
	}
	return okResult(map[string]any{"voices": out})
}

func (tk *Toolkit) listLanguages(ctx context.Context) *Result {
	langs, err := tk.client.ListLanguages(ctx)
	if err != nil {
		return errorResult(err)
	}

	type entry struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	out := make([]entry, 0, len(langs))
	for _, l := range langs {
		out = append(out, entry{ID: l.ID, Name: l.Name})
	}
	return okResult(map[string]any{"languages": out})
}

// audioResult encodes a generation response, saving the audio to disk first
// when an audio directory is configured.
func (tk *Toolkit) audioResult(ctx context.Context, resp *langvoice.GenerateResponse) *Result {
	fields := map[string]any{
		"audio_base64":         base64.StdEncoding.EncodeToString(resp.AudioData),
		"duration":             resp.Duration,
		"generation_time":      resp.GenerationTime,
		"characters_processed": resp.CharactersProcessed,
	}

	if tk.audioDir != "" {
		path, err := tk.saveAudio(resp.AudioData)
		if err != nil {
			return errorResult(err)
		}
		fields["saved_path"] = path
	}
	return okResult(fields)
}

func (tk *Toolkit) saveAudio(audio []byte) (string, error) {
	if err := os.MkdirAll(tk.audioDir, 0o755); err != nil {
		return "", fmt.Errorf("tools: create audio dir: %w", err)
	}
	name := fmt.Sprintf("langvoice_%s.mp3", time.Now().UTC().Format("20060102T150405.000000000"))
	path := filepath.Join(tk.audioDir, name)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("tools: save audio: %w", err)
	}
	return path, nil
}

// ---- result helpers ----

func unmarshalArgs(args string, into any) error {
	if args == "" || args == "{}" {
		return nil
	}
	if err := json.Unmarshal([]byte(args), into); err != nil {
		return fmt.Errorf("tools: invalid arguments JSON: %w", err)
	}
	return nil
}

func okResult(fields map[string]any) *Result {
	fields["success"] = true
	data, err := json.Marshal(fields)
	if err != nil {
		return errorResult(err)
	}
	return &Result{Content: string(data)}
}

func errorResult(err error) *Result {
	data, _ := json.Marshal(map[string]any{
		"success": false,
		"error":   err.Error(),
	})
	return &Result{Content: string(data), IsError: true}
}
