package langvoice

import (
	"fmt"
	"os"
)

// Voice is a single entry from the LangVoice voice catalogue.
type Voice struct {
	// ID is the voice identifier used in synthesis requests (e.g., "heart").
	ID string `json:"id"`

	// Name is the human-readable voice name.
	Name string `json:"name"`

	// Gender is the voice gender as reported by the API ("female", "male").
	// May be empty.
	Gender string `json:"gender,omitempty"`

	// Language is the language code this voice belongs to. May be empty.
	Language string `json:"language,omitempty"`

	// Description is free-form voice metadata. May be empty.
	Description string `json:"description,omitempty"`
}

// Language is a single entry from the LangVoice language catalogue.
type Language struct {
	// ID is the language code used in synthesis requests
	// (e.g., "american_english").
	ID string `json:"id"`

	// Name is the human-readable language name.
	Name string `json:"name"`

	// Voices lists the voice IDs available for this language. May be nil.
	Voices []string `json:"voices,omitempty"`
}

// GenerateRequest describes a single-voice synthesis request.
type GenerateRequest struct {
	// Text is the text to synthesise. Must be non-empty and at most
	// MaxTextLength characters.
	Text string `json:"text"`

	// Voice is the voice ID. Defaults to DefaultVoice when empty.
	Voice string `json:"voice"`

	// Language is the language code. Defaults to DefaultLanguage when empty.
	Language string `json:"language"`

	// Speed is the speech rate in [MinSpeed, MaxSpeed]. Defaults to 1.0
	// when zero.
	Speed float64 `json:"speed"`
}

// MultiVoiceRequest describes a multi-voice synthesis request. Text carries
// bracketed voice markers (e.g., "[heart] Hello [michael] Hi there") which
// are forwarded to the API verbatim; the client performs no parsing of the
// bracket syntax.
type MultiVoiceRequest struct {
	// Text is the marker-annotated text to synthesise.
	Text string `json:"text"`

	// Language is the language code applied to all voices.
	Language string `json:"language"`

	// Speed is the speech rate in [MinSpeed, MaxSpeed].
	Speed float64 `json:"speed"`
}

// GenerateResponse holds the synthesised audio and the generation metadata
// the API reports via response headers. Values are immutable once returned.
type GenerateResponse struct {
	// AudioData is the MP3-encoded audio. Non-empty on success.
	AudioData []byte

	// Duration is the audio length in seconds, or 0 if not reported.
	Duration float64

	// GenerationTime is the server-side synthesis time in seconds, or 0 if
	// not reported.
	GenerationTime float64

	// CharactersProcessed is the number of input characters billed, or 0 if
	// not reported.
	CharactersProcessed int
}

// Save writes the MP3 audio to path with 0644 permissions.
func (r *GenerateResponse) Save(path string) error {
	if err := os.WriteFile(path, r.AudioData, 0o644); err != nil {
		return fmt.Errorf("langvoice: save audio: %w", err)
	}
	return nil
}

// voicesEnvelope is the JSON body of GET /tts/voices.
type voicesEnvelope struct {
	Voices []Voice `json:"voices"`
}

// languagesEnvelope is the JSON body of GET /tts/languages.
type languagesEnvelope struct {
	Languages []Language `json:"languages"`
}

// errorEnvelope is the JSON body the API returns on failures.
type errorEnvelope struct {
	Error string `json:"error"`
}
