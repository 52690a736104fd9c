// Package config provides the configuration schema and loader for the
// langvoice command-line tool.
package config

// LogLevel controls log verbosity for the CLI.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for the langvoice CLI.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader],
// then overlaid with environment variables via [ApplyEnv].
type Config struct {
	// APIKey authenticates against the LangVoice API. The LANGVOICE_API_KEY
	// environment variable takes precedence over this field so keys can be
	// kept out of config files.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the production API endpoint. Empty means the default.
	BaseURL string `yaml:"base_url"`

	// TimeoutSeconds is the per-request HTTP timeout. Zero means the default.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	Defaults  DefaultsConfig  `yaml:"defaults"`
	Output    OutputConfig    `yaml:"output"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// DefaultsConfig sets the synthesis parameters used when a command does not
// specify them explicitly.
type DefaultsConfig struct {
	Voice    string  `yaml:"voice"`
	Language string  `yaml:"language"`
	Speed    float64 `yaml:"speed"`
}

// OutputConfig controls where synthesised audio is written.
type OutputConfig struct {
	// Dir is the directory audio files are saved to. Empty means the
	// current working directory.
	Dir string `yaml:"dir"`
}

// TelemetryConfig toggles OpenTelemetry metric and trace export.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled"`
}
