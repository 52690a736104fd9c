package tools

import "github.com/langvoice/langvoice-go/pkg/langvoice"

// Definitions returns the descriptors for all four LangVoice tools, in a
// fixed order. Parameter schemas follow the JSON Schema subset understood by
// LLM function-calling APIs.
func (tk *Toolkit) Definitions() []Definition {
	return []Definition{
		{
			Name:        ToolTextToSpeech,
			Description: "Convert text to natural-sounding speech audio using the LangVoice TTS API.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{
						"type":        "string",
						"description": "The text to convert to speech. Maximum 5000 characters.",
					},
					"voice": map[string]any{
						"type":        "string",
						"description": "Voice ID (e.g., 'heart', 'michael', 'emma').",
						"enum":        voiceEnum(),
						"default":     "heart",
					},
					"language": map[string]any{
						"type":        "string",
						"description": "Language code.",
						"enum":        languageEnum(),
						"default":     "american_english",
					},
					"speed": map[string]any{
						"type":        "number",
						"description": "Speech speed from 0.5 (slow) to 2.0 (fast).",
						"minimum":     0.5,
						"maximum":     2.0,
						"default":     1.0,
					},
				},
				"required": []any{"text"},
			},
		},
		{
			Name:        ToolMultiVoice,
			Description: "Generate speech with multiple voices using bracket notation. Use [voice_name] to switch voices.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{
						"type":        "string",
						"description": "Text with voice markers. Example: '[heart] Hello! [michael] Hi there!'",
					},
					"language": map[string]any{
						"type":        "string",
						"description": "Language code for all voices.",
						"default":     "american_english",
					},
					"speed": map[string]any{
						"type":        "number",
						"description": "Speech speed from 0.5 to 2.0.",
						"default":     1.0,
					},
				},
				"required": []any{"text"},
			},
		},
		{
			Name:        ToolListVoices,
			Description: "Get a list of all available voices for text-to-speech generation.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
				"required":   []any{},
			},
		},
		{
			Name:        ToolListLanguages,
			Description: "Get a list of all supported languages for text-to-speech generation.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
				"required":   []any{},
			},
		},
	}
}

// voiceEnum and languageEnum rebuild the enum slices on each call so a
// returned schema can be mutated by callers without corrupting later ones.

func voiceEnum() []any {
	return toAnySlice(langvoice.AllVoices())
}

func languageEnum() []any {
	return toAnySlice(langvoice.Languages)
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
