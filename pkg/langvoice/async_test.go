package langvoice

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func openAsyncAPI(t *testing.T, handler http.HandlerFunc, opts ...AsyncOption) *AsyncClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append(opts, WithClientOptions(WithBaseURL(srv.URL)))
	a, err := OpenAsync("test-key", opts...)
	if err != nil {
		t.Fatalf("OpenAsync: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAsyncGenerate_ResolvesFuture(t *testing.T) {
	a := openAsyncAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Audio-Duration", "2.0")
		w.Write([]byte("audio"))
	})

	call := a.Generate(context.Background(), GenerateRequest{Text: "hi"})
	resp, err := call.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if string(resp.AudioData) != "audio" || resp.Duration != 2.0 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestAsyncWait_IsRepeatable(t *testing.T) {
	a := openAsyncAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio"))
	})

	call := a.TextToSpeech(context.Background(), "hi", "", "", 0)
	first, err1 := call.Wait(context.Background())
	second, err2 := call.Wait(context.Background())
	if err1 != nil || err2 != nil {
		t.Fatalf("Wait errors: %v, %v", err1, err2)
	}
	if string(first) != string(second) {
		t.Error("repeated Wait must return the same value")
	}
}

func TestAsyncWait_HonoursContext(t *testing.T) {
	release := make(chan struct{})
	a := openAsyncAPI(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte("audio"))
	})
	defer close(release)

	call := a.Generate(context.Background(), GenerateRequest{Text: "hi"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := call.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error from Wait, got %v", err)
	}
}

func TestAsync_ManyConcurrentCalls(t *testing.T) {
	var peak, current atomic.Int64
	a := openAsyncAPI(t, func(w http.ResponseWriter, r *http.Request) {
		n := current.Add(1)
		defer current.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		w.Write([]byte("audio"))
	}, WithMaxInFlight(4))

	ctx := context.Background()
	calls := make([]*Call[*GenerateResponse], 0, 16)
	for range 16 {
		calls = append(calls, a.Generate(ctx, GenerateRequest{Text: "hi"}))
	}

	results, err := Results(ctx, calls...)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(results) != 16 {
		t.Fatalf("expected 16 results, got %d", len(results))
	}
	for i, r := range results {
		if r == nil || len(r.AudioData) == 0 {
			t.Errorf("call %d: missing audio", i)
		}
	}
	if p := peak.Load(); p > 4 {
		t.Errorf("in-flight bound exceeded: peak %d > 4", p)
	}
}

func TestAsyncClose_RejectsNewCalls(t *testing.T) {
	a := openAsyncAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio"))
	})

	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Close is idempotent.
	if err := a.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	call := a.Generate(context.Background(), GenerateRequest{Text: "hi"})
	if _, err := call.Wait(context.Background()); err == nil || !strings.Contains(err.Error(), "closed") {
		t.Errorf("expected closed-client error, got %v", err)
	}
}

func TestAsyncCatalogues(t *testing.T) {
	a := openAsyncAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tts/voices":
			w.Write([]byte(`{"voices":[{"id":"heart","name":"Heart"}]}`))
		case "/tts/languages":
			w.Write([]byte(`{"languages":[{"id":"french","name":"French"}]}`))
		default:
			http.NotFound(w, r)
		}
	})

	ctx := context.Background()
	voicesCall := a.ListVoices(ctx)
	langsCall := a.ListLanguages(ctx)

	voices, err := voicesCall.Wait(ctx)
	if err != nil || len(voices) != 1 || voices[0].ID != "heart" {
		t.Errorf("ListVoices: %v %+v", err, voices)
	}
	langs, err := langsCall.Wait(ctx)
	if err != nil || len(langs) != 1 || langs[0].ID != "french" {
		t.Errorf("ListLanguages: %v %+v", err, langs)
	}
}
