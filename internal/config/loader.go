package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/langvoice/langvoice-go/pkg/langvoice"
)

// Environment variables overlaid onto the file config by [ApplyEnv].
const (
	envAPIKey  = "LANGVOICE_API_KEY"
	envBaseURL = "LANGVOICE_BASE_URL"
	envTimeout = "LANGVOICE_TIMEOUT_SECONDS"
)

// Load reads the YAML configuration file at path, applies environment
// overrides and returns a validated [Config]. A missing file is not an
// error: every field has a usable default and the API key can come from
// the environment alone.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := &Config{}
		ApplyEnv(cfg)
		if err := Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies environment overrides
// and validates the result. Useful in tests where configs are constructed
// from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	ApplyEnv(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables onto cfg. Set variables win over
// file values so secrets and per-invocation overrides stay out of config
// files.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(envAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv(envBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(envTimeout); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			slog.Warn("ignoring invalid timeout override", "var", envTimeout, "value", v)
		} else {
			cfg.TimeoutSeconds = n
		}
	}
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	if cfg.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("timeout_seconds %d must not be negative", cfg.TimeoutSeconds))
	}
	if s := cfg.Defaults.Speed; s != 0 && (s < langvoice.MinSpeed || s > langvoice.MaxSpeed) {
		errs = append(errs, fmt.Errorf("defaults.speed %.2f is out of range [%.1f, %.1f]", s, langvoice.MinSpeed, langvoice.MaxSpeed))
	}

	// Catalogue checks are warnings only: the local catalogue can lag the
	// API, which remains the authority on valid names.
	warnUnknownVoice(cfg.Defaults.Voice)
	warnUnknownLanguage(cfg.Defaults.Language)

	return errors.Join(errs...)
}

func warnUnknownVoice(name string) {
	if name == "" {
		return
	}
	if slices.Contains(langvoice.AllVoices(), name) {
		return
	}
	slog.Warn("defaults.voice not in the known catalogue — may be a typo or a newly added voice", "voice", name)
}

func warnUnknownLanguage(name string) {
	if name == "" {
		return
	}
	if slices.Contains(langvoice.Languages, name) {
		return
	}
	slog.Warn("defaults.language not in the known catalogue — may be a typo or a newly added language", "language", name)
}
