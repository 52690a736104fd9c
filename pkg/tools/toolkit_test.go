package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/langvoice/langvoice-go/pkg/langvoice"
)

// fakeClient implements API with canned responses.
type fakeClient struct {
	lastGenerate   *langvoice.GenerateRequest
	lastMultiVoice *langvoice.MultiVoiceRequest
	err            error
}

func (f *fakeClient) Generate(_ context.Context, req langvoice.GenerateRequest) (*langvoice.GenerateResponse, error) {
	f.lastGenerate = &req
	if f.err != nil {
		return nil, f.err
	}
	return &langvoice.GenerateResponse{
		AudioData:           []byte("fake-audio"),
		Duration:            1.5,
		CharactersProcessed: len(req.Text),
	}, nil
}

func (f *fakeClient) GenerateMultiVoice(_ context.Context, req langvoice.MultiVoiceRequest) (*langvoice.GenerateResponse, error) {
	f.lastMultiVoice = &req
	if f.err != nil {
		return nil, f.err
	}
	return &langvoice.GenerateResponse{AudioData: []byte("multi-audio"), Duration: 3.0}, nil
}

func (f *fakeClient) ListVoices(context.Context) ([]langvoice.Voice, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []langvoice.Voice{
		{ID: "heart", Name: "Heart", Gender: "female"},
		{ID: "michael", Name: "Michael", Gender: "male"},
	}, nil
}

func (f *fakeClient) ListLanguages(context.Context) ([]langvoice.Language, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []langvoice.Language{{ID: "french", Name: "French"}}, nil
}

func newTestToolkit(t *testing.T, opts ...Option) (*Toolkit, *fakeClient) {
	t.Helper()
	fc := &fakeClient{}
	tk, err := NewToolkit(fc, opts...)
	if err != nil {
		t.Fatalf("NewToolkit: %v", err)
	}
	return tk, fc
}

func decodeResult(t *testing.T, res *Result) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(res.Content), &m); err != nil {
		t.Fatalf("result is not valid JSON: %v\n%s", err, res.Content)
	}
	return m
}

// ---- definitions ----

func TestDefinitions_StaticShape(t *testing.T) {
	tk, _ := newTestToolkit(t)
	defs := tk.Definitions()

	wantNames := []string{ToolTextToSpeech, ToolMultiVoice, ToolListVoices, ToolListLanguages}
	if len(defs) != len(wantNames) {
		t.Fatalf("expected %d tools, got %d", len(wantNames), len(defs))
	}
	for i, want := range wantNames {
		if defs[i].Name != want {
			t.Errorf("tool %d: expected %q, got %q", i, want, defs[i].Name)
		}
		if defs[i].Description == "" {
			t.Errorf("tool %q has no description", defs[i].Name)
		}
		if defs[i].Parameters["type"] != "object" {
			t.Errorf("tool %q: parameters must be an object schema", defs[i].Name)
		}
	}

	// The TTS schema must require text and enumerate the documented voices.
	tts := defs[0].Parameters
	req, _ := tts["required"].([]any)
	if len(req) != 1 || req[0] != "text" {
		t.Errorf("expected required [text], got %v", req)
	}
	props := tts["properties"].(map[string]any)
	voiceEnum := props["voice"].(map[string]any)["enum"].([]any)
	if len(voiceEnum) != len(langvoice.AllVoices()) {
		t.Errorf("expected %d voices in enum, got %d", len(langvoice.AllVoices()), len(voiceEnum))
	}
}

func TestDefinitions_CopiesAreIndependent(t *testing.T) {
	tk, _ := newTestToolkit(t)
	first := tk.Definitions()
	first[0].Parameters["type"] = "mutated"

	second := tk.Definitions()
	if second[0].Parameters["type"] != "object" {
		t.Error("mutating one returned schema must not affect later calls")
	}
}

// ---- dispatch ----

func TestDispatch_TextToSpeech_MatchesDirectCall(t *testing.T) {
	tk, fc := newTestToolkit(t)

	res, err := tk.Dispatch(context.Background(), ToolTextToSpeech,
		`{"text":"Hello","voice":"michael","language":"british_english","speed":1.5}`)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", res.Content)
	}

	// Arguments must be forwarded verbatim to the client.
	if fc.lastGenerate.Text != "Hello" || fc.lastGenerate.Voice != "michael" ||
		fc.lastGenerate.Language != "british_english" || fc.lastGenerate.Speed != 1.5 {
		t.Errorf("arguments not forwarded: %+v", fc.lastGenerate)
	}

	m := decodeResult(t, res)
	if m["success"] != true {
		t.Error("expected success true")
	}

	direct, err := fc.Generate(context.Background(), *fc.lastGenerate)
	if err != nil {
		t.Fatalf("direct call: %v", err)
	}
	if m["audio_base64"] != base64.StdEncoding.EncodeToString(direct.AudioData) {
		t.Error("dispatched audio differs from direct client call")
	}
	if m["duration"] != direct.Duration {
		t.Errorf("dispatched duration %v differs from direct %v", m["duration"], direct.Duration)
	}
}

func TestDispatch_MultiVoice_PassesMarkersThrough(t *testing.T) {
	tk, fc := newTestToolkit(t)
	const marked = "[heart] Hello! [michael] Hi there!"

	argsJSON, _ := json.Marshal(map[string]any{"text": marked})
	res, err := tk.Dispatch(context.Background(), ToolMultiVoice, string(argsJSON))
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", res.Content)
	}
	if fc.lastMultiVoice.Text != marked {
		t.Errorf("marker text modified: %q", fc.lastMultiVoice.Text)
	}
}

func TestDispatch_ListTools_AcceptEmptyArgs(t *testing.T) {
	tk, _ := newTestToolkit(t)

	for _, args := range []string{"", "{}"} {
		res, err := tk.Dispatch(context.Background(), ToolListVoices, args)
		if err != nil {
			t.Fatalf("Dispatch(%q): %v", args, err)
		}
		m := decodeResult(t, res)
		voices := m["voices"].([]any)
		if len(voices) != 2 {
			t.Fatalf("expected 2 voices, got %d", len(voices))
		}
		first := voices[0].(map[string]any)
		if first["id"] != "heart" {
			t.Errorf("expected heart first, got %v", first["id"])
		}
	}

	res, err := tk.Dispatch(context.Background(), ToolListLanguages, "")
	if err != nil {
		t.Fatalf("Dispatch languages: %v", err)
	}
	m := decodeResult(t, res)
	langs := m["languages"].([]any)
	if len(langs) != 1 || langs[0].(map[string]any)["id"] != "french" {
		t.Errorf("unexpected languages %v", langs)
	}
}

func TestDispatch_UnknownTool(t *testing.T) {
	tk, _ := newTestToolkit(t)
	if _, err := tk.Dispatch(context.Background(), "nonexistent_tool", "{}"); err == nil {
		t.Fatal("expected error for unknown tool")
	}
}

func TestDispatch_InvalidArgsJSON(t *testing.T) {
	tk, _ := newTestToolkit(t)
	res, err := tk.Dispatch(context.Background(), ToolTextToSpeech, `{"text":`)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error result for malformed arguments")
	}
	m := decodeResult(t, res)
	if m["success"] != false {
		t.Error("expected success false")
	}
}

func TestDispatch_APIErrorBecomesErrorResult(t *testing.T) {
	tk, fc := newTestToolkit(t)
	fc.err = errors.New("rate limit exceeded")

	res, err := tk.Dispatch(context.Background(), ToolTextToSpeech, `{"text":"hi"}`)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error result")
	}
	m := decodeResult(t, res)
	if !strings.Contains(m["error"].(string), "rate limit") {
		t.Errorf("expected error message, got %v", m["error"])
	}
}

// ---- audio saving ----

func TestDispatch_SavesAudioWhenConfigured(t *testing.T) {
	dir := t.TempDir()
	tk, _ := newTestToolkit(t, WithAudioDir(dir))

	res, err := tk.Dispatch(context.Background(), ToolTextToSpeech, `{"text":"hi"}`)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	m := decodeResult(t, res)

	path, ok := m["saved_path"].(string)
	if !ok || path == "" {
		t.Fatalf("expected saved_path in result, got %v", m["saved_path"])
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved audio: %v", err)
	}
	if string(data) != "fake-audio" {
		t.Errorf("saved audio mismatch: %q", data)
	}
	if !strings.HasSuffix(path, ".mp3") {
		t.Errorf("expected .mp3 suffix, got %q", path)
	}
}

func TestNewToolkit_RequiresClient(t *testing.T) {
	if _, err := NewToolkit(nil); err == nil {
		t.Fatal("expected error for nil client")
	}
}
