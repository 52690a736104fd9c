package langvoice

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/sync/semaphore"
)

// defaultMaxInFlight bounds concurrent requests per AsyncClient when no
// [WithMaxInFlight] option is given.
const defaultMaxInFlight = 16

// AsyncOption is a functional option for configuring an [AsyncClient].
type AsyncOption func(*AsyncClient)

// WithMaxInFlight bounds how many requests an AsyncClient may have
// outstanding at once. Additional calls queue until a slot frees up.
// Defaults to 16.
func WithMaxInFlight(n int64) AsyncOption {
	return func(a *AsyncClient) {
		if n > 0 {
			a.sem = semaphore.NewWeighted(n)
		}
	}
}

// WithClientOptions forwards [Option] values to the underlying [Client]
// (base URL, timeout, rate limit, metrics, ...).
func WithClientOptions(opts ...Option) AsyncOption {
	return func(a *AsyncClient) {
		a.clientOpts = append(a.clientOpts, opts...)
	}
}

// AsyncClient is the non-blocking variant of [Client]. Every method returns
// immediately with a [*Call] future; many calls may be in flight
// concurrently, bounded by a weighted semaphore. Calls are otherwise
// independent — there is no shared mutable state between them.
//
// An AsyncClient is a scoped resource: [OpenAsync] allocates a dedicated
// connection pool, and [AsyncClient.Close] releases its idle connections.
// After Close, new calls fail; calls already in flight run to completion.
type AsyncClient struct {
	client     *Client
	transport  *http.Transport
	sem        *semaphore.Weighted
	clientOpts []Option

	closed chan struct{}
}

// Call is a single-assignment future for an in-flight API call.
type Call[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Done returns a channel that is closed once the call has completed.
func (c *Call[T]) Done() <-chan struct{} { return c.done }

// Wait blocks until the call completes or ctx is cancelled, and returns the
// result. Wait may be called any number of times; after completion it always
// returns the same values.
func (c *Call[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-c.done:
		return c.val, c.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OpenAsync creates an AsyncClient authenticated with apiKey. The same key
// resolution rules as [New] apply.
func OpenAsync(apiKey string, opts ...AsyncOption) (*AsyncClient, error) {
	a := &AsyncClient{
		sem:    semaphore.NewWeighted(defaultMaxInFlight),
		closed: make(chan struct{}),
	}
	for _, o := range opts {
		o(a)
	}

	// Dedicated pool so Close can release connections without touching the
	// process-wide default transport.
	a.transport = http.DefaultTransport.(*http.Transport).Clone()
	hc := &http.Client{Transport: a.transport, Timeout: DefaultTimeout}

	clientOpts := append([]Option{WithHTTPClient(hc)}, a.clientOpts...)
	client, err := New(apiKey, clientOpts...)
	if err != nil {
		return nil, err
	}
	a.client = client
	return a, nil
}

// Close releases the client's idle connections. It does not interrupt calls
// already in flight.
func (a *AsyncClient) Close() error {
	select {
	case <-a.closed:
		return nil
	default:
	}
	close(a.closed)
	a.transport.CloseIdleConnections()
	return nil
}

// Generate starts a single-voice synthesis call and returns its future.
func (a *AsyncClient) Generate(ctx context.Context, req GenerateRequest) *Call[*GenerateResponse] {
	return start(a, ctx, func(ctx context.Context) (*GenerateResponse, error) {
		return a.client.Generate(ctx, req)
	})
}

// GenerateMultiVoice starts a multi-voice synthesis call and returns its future.
func (a *AsyncClient) GenerateMultiVoice(ctx context.Context, req MultiVoiceRequest) *Call[*GenerateResponse] {
	return start(a, ctx, func(ctx context.Context) (*GenerateResponse, error) {
		return a.client.GenerateMultiVoice(ctx, req)
	})
}

// TextToSpeech starts a convenience synthesis call returning only MP3 bytes.
func (a *AsyncClient) TextToSpeech(ctx context.Context, text, voice, language string, speed float64) *Call[[]byte] {
	return start(a, ctx, func(ctx context.Context) ([]byte, error) {
		return a.client.TextToSpeech(ctx, text, voice, language, speed)
	})
}

// ListVoices starts a voice catalogue fetch and returns its future.
func (a *AsyncClient) ListVoices(ctx context.Context) *Call[[]Voice] {
	return start(a, ctx, func(ctx context.Context) ([]Voice, error) {
		return a.client.ListVoices(ctx)
	})
}

// ListLanguages starts a language catalogue fetch and returns its future.
func (a *AsyncClient) ListLanguages(ctx context.Context) *Call[[]Language] {
	return start(a, ctx, func(ctx context.Context) ([]Language, error) {
		return a.client.ListLanguages(ctx)
	})
}

// start runs fn on its own goroutine, gated by the in-flight semaphore, and
// resolves the returned future exactly once.
func start[T any](a *AsyncClient, ctx context.Context, fn func(context.Context) (T, error)) *Call[T] {
	call := &Call[T]{done: make(chan struct{})}

	select {
	case <-a.closed:
		call.err = fmt.Errorf("langvoice: async client is closed")
		close(call.done)
		return call
	default:
	}

	go func() {
		defer close(call.done)

		if err := a.sem.Acquire(ctx, 1); err != nil {
			call.err = fmt.Errorf("langvoice: acquire request slot: %w", err)
			return
		}
		defer a.sem.Release(1)

		call.val, call.err = fn(ctx)
	}()
	return call
}

// Results collects the outcomes of several homogeneous futures, preserving
// order. It waits for every call; the first non-nil error (by argument
// order) is returned alongside the partial results.
func Results[T any](ctx context.Context, calls ...*Call[T]) ([]T, error) {
	out := make([]T, len(calls))
	var firstErr error
	for i, c := range calls {
		v, err := c.Wait(ctx)
		out[i] = v
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return out, firstErr
}
