// Package langvoice is a Go client for the LangVoice text-to-speech HTTP API.
//
// The API synthesises MP3 audio from text in a single request/response
// exchange — there is no streaming protocol, no retry loop, and no local
// audio processing. [Client] is the synchronous entry point; [AsyncClient]
// offers the same surface with non-blocking calls and a scoped connection
// pool.
//
// Authentication uses an API key sent in the X-API-Key header. The key is
// passed to [New] or read from the LANGVOICE_API_KEY environment variable.
//
// Typical usage:
//
//	client, err := langvoice.New("lv-...")
//	if err != nil { ... }
//	resp, err := client.Generate(ctx, langvoice.GenerateRequest{
//	    Text:  "Hello world!",
//	    Voice: "heart",
//	})
//	if err != nil { ... }
//	os.WriteFile("hello.mp3", resp.AudioData, 0o644)
//
// Failures are categorised by HTTP status into the sentinel errors
// [ErrAuthentication], [ErrRateLimited], [ErrValidation], [ErrNotFound] and
// [ErrServer]; no recovery is attempted locally.
package langvoice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the production LangVoice API endpoint.
	DefaultBaseURL = "https://www.langvoice.pro/api"

	// DefaultVoice is the voice used when a request leaves Voice empty.
	DefaultVoice = "heart"

	// DefaultLanguage is the language used when a request leaves Language empty.
	DefaultLanguage = "american_english"

	// DefaultTimeout is the per-request timeout applied when no
	// [WithTimeout] option is given.
	DefaultTimeout = 60 * time.Second

	// MaxTextLength is the maximum accepted input length in characters.
	MaxTextLength = 5000

	// MinSpeed and MaxSpeed bound the speech rate.
	MinSpeed = 0.5
	MaxSpeed = 2.0
)

// API endpoint paths, relative to the base URL.
const (
	generateEndpoint   = "/tts/generate"
	multiVoiceEndpoint = "/tts/multi-voice-text"
	voicesEndpoint     = "/tts/voices"
	languagesEndpoint  = "/tts/languages"
)

// envAPIKey is the environment variable consulted when no key is passed to [New].
const envAPIKey = "LANGVOICE_API_KEY"

// Metadata response headers set by the generation endpoints.
const (
	headerAudioDuration       = "X-Audio-Duration"
	headerGenerationTime      = "X-Generation-Time"
	headerCharactersProcessed = "X-Characters-Processed"
)

// Option is a functional option for configuring a [Client].
type Option func(*Client)

// WithBaseURL overrides the default API base URL. Trailing slashes are
// trimmed. Useful for staging environments and tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the per-request HTTP timeout. Defaults to 60 s.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely. The client's
// Timeout is left untouched; combine with [WithTimeout] if needed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit throttles outgoing requests to at most rps requests per
// second with the given burst. Calls beyond the limit block until a slot is
// available or the context is cancelled. Disabled by default.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics records request counts, latencies and synthesised-audio volume
// into the given instrument set. See [NewMetrics]. Disabled by default.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// Client is a synchronous LangVoice API client. It is safe for concurrent
// use; each call is an independent request/response exchange.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *Metrics
}

// New creates a Client authenticated with apiKey. An empty apiKey falls back
// to the LANGVOICE_API_KEY environment variable; if neither is set, New
// returns [ErrAuthentication].
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv(envAPIKey)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: pass an API key or set %s", ErrAuthentication, envAPIKey)
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Generate synthesises req.Text in a single voice and returns the audio with
// its generation metadata.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	req = req.withDefaults()
	if err := req.validate(); err != nil {
		return nil, err
	}
	return c.generate(ctx, generateEndpoint, req)
}

// GenerateMultiVoice synthesises marker-annotated text where different
// segments are rendered in different voices. The bracket syntax is
// interpreted entirely by the API; req.Text is forwarded unmodified.
func (c *Client) GenerateMultiVoice(ctx context.Context, req MultiVoiceRequest) (*GenerateResponse, error) {
	req = req.withDefaults()
	if err := req.validate(); err != nil {
		return nil, err
	}
	return c.generate(ctx, multiVoiceEndpoint, req)
}

// TextToSpeech is a convenience wrapper around [Client.Generate] that
// returns only the MP3 bytes. Zero values for voice, language and speed
// select the defaults.
func (c *Client) TextToSpeech(ctx context.Context, text, voice, language string, speed float64) ([]byte, error) {
	resp, err := c.Generate(ctx, GenerateRequest{Text: text, Voice: voice, Language: language, Speed: speed})
	if err != nil {
		return nil, err
	}
	return resp.AudioData, nil
}

// ListVoices returns the current voice catalogue in the API's order.
func (c *Client) ListVoices(ctx context.Context) ([]Voice, error) {
	var env voicesEnvelope
	if err := c.getJSON(ctx, voicesEndpoint, &env); err != nil {
		return nil, err
	}
	return env.Voices, nil
}

// ListLanguages returns the supported languages in the API's order.
func (c *Client) ListLanguages(ctx context.Context) ([]Language, error) {
	var env languagesEnvelope
	if err := c.getJSON(ctx, languagesEndpoint, &env); err != nil {
		return nil, err
	}
	return env.Languages, nil
}

// ---- request execution ----

// generate POSTs body to path and decodes the binary audio response.
func (c *Client) generate(ctx context.Context, path string, body any) (*GenerateResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("langvoice: read audio body: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("langvoice: API returned empty audio for %s", path)
	}
	c.metrics.recordAudio(ctx, path, len(audio))

	return &GenerateResponse{
		AudioData:           audio,
		Duration:            parseFloatHeader(resp.Header.Get(headerAudioDuration)),
		GenerationTime:      parseFloatHeader(resp.Header.Get(headerGenerationTime)),
		CharactersProcessed: parseIntHeader(resp.Header.Get(headerCharactersProcessed)),
	}, nil
}

// getJSON GETs path and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("langvoice: decode %s response: %w", path, err)
	}
	return nil
}

// do builds and executes an authenticated request against path. Non-2xx
// statuses are converted into [*Error]. The caller owns the response body.
func (c *Client) do(ctx context.Context, method, path string, body any) (resp *http.Response, err error) {
	ctx, span := startSpan(ctx, method, path)
	defer func() { endSpan(span, err) }()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("langvoice: rate limiter: %w", err)
		}
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("langvoice: encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("langvoice: build request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err = c.httpClient.Do(req)
	if err != nil {
		c.metrics.recordRequest(ctx, path, "network_error", time.Since(start))
		return nil, fmt.Errorf("langvoice: %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		c.metrics.recordRequest(ctx, path, strconv.Itoa(resp.StatusCode), time.Since(start))
		return nil, decodeError(resp)
	}

	c.metrics.recordRequest(ctx, path, "ok", time.Since(start))
	return resp, nil
}

// decodeError converts a non-2xx response into an [*Error], preferring the
// structured {"error": ...} body over raw text.
func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	msg := ""
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Error != "" {
		msg = env.Error
	} else {
		msg = strings.TrimSpace(string(data))
	}
	return &Error{StatusCode: resp.StatusCode, Message: msg}
}

// ---- validation ----

func (r GenerateRequest) withDefaults() GenerateRequest {
	if r.Voice == "" {
		r.Voice = DefaultVoice
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	if r.Speed == 0 {
		r.Speed = 1.0
	}
	return r
}

func (r GenerateRequest) validate() error {
	return validateText(r.Text, r.Speed)
}

func (r MultiVoiceRequest) withDefaults() MultiVoiceRequest {
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	if r.Speed == 0 {
		r.Speed = 1.0
	}
	return r
}

func (r MultiVoiceRequest) validate() error {
	return validateText(r.Text, r.Speed)
}

// validateText enforces presence-level checks only; semantic validation
// (voice existence, marker syntax) is the API's responsibility.
func validateText(text string, speed float64) error {
	if text == "" {
		return fmt.Errorf("%w: text must not be empty", ErrValidation)
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return fmt.Errorf("%w: text exceeds %d characters", ErrValidation, MaxTextLength)
	}
	if speed < MinSpeed || speed > MaxSpeed {
		return fmt.Errorf("%w: speed %.2f is out of range [%.1f, %.1f]", ErrValidation, speed, MinSpeed, MaxSpeed)
	}
	return nil
}

// ---- header parsing ----

// parseFloatHeader parses a float header value, tolerating a trailing unit
// suffix ("1.52s"). Returns 0 when absent or malformed.
func parseFloatHeader(v string) float64 {
	v = strings.TrimSuffix(strings.TrimSpace(v), "s")
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// parseIntHeader parses an integer header value. Returns 0 when absent or
// malformed.
func parseIntHeader(v string) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
