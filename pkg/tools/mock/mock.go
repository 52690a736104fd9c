// Package mock provides a test double for the tools.API client interface.
//
// Use Client to feed canned responses to the toolkit and framework adapters
// and to verify which requests reached the client.
//
// Example:
//
//	c := &mock.Client{
//	    GenerateResult: &langvoice.GenerateResponse{AudioData: []byte("audio")},
//	    Voices:         []langvoice.Voice{{ID: "heart", Name: "Heart"}},
//	}
//	tk, _ := tools.NewToolkit(c)
package mock

import (
	"context"
	"sync"

	"github.com/langvoice/langvoice-go/pkg/langvoice"
)

// Client is a mock implementation of tools.API.
type Client struct {
	mu sync.Mutex

	// --- Configurable responses ---

	// GenerateResult is returned from Generate and GenerateMultiVoice when
	// Err is nil. When nil, a response with AudioData "mock-audio" is used.
	GenerateResult *langvoice.GenerateResponse

	// Voices is returned from ListVoices.
	Voices []langvoice.Voice

	// Languages is returned from ListLanguages.
	Languages []langvoice.Language

	// Err, if non-nil, is returned from every call.
	Err error

	// --- Recorded calls ---

	// GenerateCalls holds every request passed to Generate.
	GenerateCalls []langvoice.GenerateRequest

	// MultiVoiceCalls holds every request passed to GenerateMultiVoice.
	MultiVoiceCalls []langvoice.MultiVoiceRequest
}

// Generate implements tools.API.
func (c *Client) Generate(_ context.Context, req langvoice.GenerateRequest) (*langvoice.GenerateResponse, error) {
	c.mu.Lock()
	c.GenerateCalls = append(c.GenerateCalls, req)
	c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}
	return c.generateResult(), nil
}

// GenerateMultiVoice implements tools.API.
func (c *Client) GenerateMultiVoice(_ context.Context, req langvoice.MultiVoiceRequest) (*langvoice.GenerateResponse, error) {
	c.mu.Lock()
	c.MultiVoiceCalls = append(c.MultiVoiceCalls, req)
	c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}
	return c.generateResult(), nil
}

// ListVoices implements tools.API.
func (c *Client) ListVoices(context.Context) ([]langvoice.Voice, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Voices, nil
}

// ListLanguages implements tools.API.
func (c *Client) ListLanguages(context.Context) ([]langvoice.Language, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Languages, nil
}

func (c *Client) generateResult() *langvoice.GenerateResponse {
	if c.GenerateResult != nil {
		return c.GenerateResult
	}
	return &langvoice.GenerateResponse{AudioData: []byte("mock-audio"), Duration: 1.0}
}
