// Command langvoice is a command-line client for the LangVoice
// text-to-speech API. It can synthesise speech directly or serve the
// API as agent tools over MCP stdio.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/langvoice/langvoice-go/internal/config"
	"github.com/langvoice/langvoice-go/internal/observe"
	"github.com/langvoice/langvoice-go/pkg/langvoice"
	"github.com/langvoice/langvoice-go/pkg/tools"
	"github.com/langvoice/langvoice-go/pkg/tools/mcpserver"
)

const usage = `Usage: langvoice [-config path] <command> [flags] [args]

Commands:
  say        synthesise text in a single voice
  multi      synthesise [voice] marker-annotated text in multiple voices
  voices     print the voice catalogue
  languages  print the supported languages
  mcp        serve the toolkit to MCP clients over stdio
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// ── Global flags ──────────────────────────────────────────────────────────
	global := flag.NewFlagSet("langvoice", flag.ExitOnError)
	global.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		global.PrintDefaults()
	}
	configPath := global.String("config", "langvoice.yaml", "path to the YAML configuration file")
	global.Parse(args)

	if global.NArg() == 0 {
		global.Usage()
		return 2
	}
	command, rest := global.Arg(0), global.Args()[1:]

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "langvoice: %v\n", err)
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	slog.SetDefault(newLogger(cfg.LogLevel))

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry (optional) ──────────────────────────────────────────────────
	var clientOpts []langvoice.Option
	if cfg.Telemetry.Enabled {
		shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{})
		if err != nil {
			slog.Error("failed to initialise telemetry", "err", err)
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Warn("telemetry shutdown error", "err", err)
			}
		}()
		metrics, err := langvoice.NewMetrics(nil)
		if err != nil {
			slog.Error("failed to create metrics", "err", err)
			return 1
		}
		clientOpts = append(clientOpts, langvoice.WithMetrics(metrics))
	}

	// ── API client ────────────────────────────────────────────────────────────
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, langvoice.WithBaseURL(cfg.BaseURL))
	}
	if cfg.TimeoutSeconds > 0 {
		clientOpts = append(clientOpts, langvoice.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	}
	client, err := langvoice.New(cfg.APIKey, clientOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "langvoice: %v\n", err)
		return 1
	}

	switch command {
	case "say":
		err = runSay(ctx, client, cfg, rest)
	case "multi":
		err = runMulti(ctx, client, cfg, rest)
	case "voices":
		err = runVoices(ctx, client)
	case "languages":
		err = runLanguages(ctx, client)
	case "mcp":
		err = runMCP(ctx, client, cfg)
	default:
		fmt.Fprintf(os.Stderr, "langvoice: unknown command %q\n\n%s", command, usage)
		return 2
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "langvoice: %v\n", err)
		return 1
	}
	return 0
}

// ── Commands ──────────────────────────────────────────────────────────────────

func runSay(ctx context.Context, client *langvoice.Client, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("say", flag.ExitOnError)
	voice := fs.String("voice", cfg.Defaults.Voice, "voice to speak in")
	language := fs.String("language", cfg.Defaults.Language, "language of the text")
	speed := fs.Float64("speed", cfg.Defaults.Speed, "speech rate (0.5-2.0, 0 means default)")
	out := fs.String("o", "", "output file (default is derived from the text)")
	fs.Parse(args)

	text := strings.Join(fs.Args(), " ")
	if text == "" {
		return errors.New("say: no text given")
	}

	resp, err := client.Generate(ctx, langvoice.GenerateRequest{
		Text:     text,
		Voice:    resolveVoice(*voice),
		Language: resolveLanguage(*language),
		Speed:    *speed,
	})
	if err != nil {
		return err
	}
	return writeAudio(cfg, *out, text, resp)
}

func runMulti(ctx context.Context, client *langvoice.Client, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("multi", flag.ExitOnError)
	language := fs.String("language", cfg.Defaults.Language, "language of the text")
	speed := fs.Float64("speed", cfg.Defaults.Speed, "speech rate (0.5-2.0, 0 means default)")
	out := fs.String("o", "", "output file (default is derived from the text)")
	fs.Parse(args)

	text := strings.Join(fs.Args(), " ")
	if text == "" {
		return errors.New("multi: no text given")
	}

	resp, err := client.GenerateMultiVoice(ctx, langvoice.MultiVoiceRequest{
		Text:     text,
		Language: resolveLanguage(*language),
		Speed:    *speed,
	})
	if err != nil {
		return err
	}
	return writeAudio(cfg, *out, text, resp)
}

func runVoices(ctx context.Context, client *langvoice.Client) error {
	voices, err := client.ListVoices(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		slog.Warn("voice listing unavailable, falling back to the built-in catalogue", "err", err)
		for _, id := range langvoice.AllVoices() {
			fmt.Println(id)
		}
		return nil
	}
	for _, v := range voices {
		fmt.Printf("%-10s  %-7s  %-18s  %s\n", v.ID, v.Gender, v.Language, v.Description)
	}
	return nil
}

func runLanguages(ctx context.Context, client *langvoice.Client) error {
	languages, err := client.ListLanguages(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		slog.Warn("language listing unavailable, falling back to the built-in catalogue", "err", err)
		for _, id := range langvoice.Languages {
			fmt.Println(id)
		}
		return nil
	}
	for _, l := range languages {
		fmt.Printf("%-22s  %s\n", l.ID, l.Name)
	}
	return nil
}

func runMCP(ctx context.Context, client *langvoice.Client, cfg *config.Config) error {
	var opts []tools.Option
	if cfg.Output.Dir != "" {
		opts = append(opts, tools.WithAudioDir(cfg.Output.Dir))
	}
	toolkit, err := tools.NewToolkit(client, opts...)
	if err != nil {
		return err
	}
	srv, err := mcpserver.New(toolkit)
	if err != nil {
		return err
	}
	slog.Info("serving MCP over stdio — press Ctrl+C to stop")
	return srv.Run(ctx)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// resolveVoice corrects near-miss voice names against the built-in catalogue.
// Unresolvable names are passed through for the API to judge.
func resolveVoice(name string) string {
	if name == "" {
		return ""
	}
	resolved, ok := langvoice.ResolveVoice(name)
	if !ok {
		return name
	}
	if resolved != name {
		slog.Info("corrected voice name", "given", name, "using", resolved)
	}
	return resolved
}

func resolveLanguage(name string) string {
	if name == "" {
		return ""
	}
	resolved, ok := langvoice.ResolveLanguage(name)
	if !ok {
		return name
	}
	if resolved != name {
		slog.Info("corrected language name", "given", name, "using", resolved)
	}
	return resolved
}

// writeAudio saves resp to the chosen path and logs the generation metadata.
func writeAudio(cfg *config.Config, out, text string, resp *langvoice.GenerateResponse) error {
	if out == "" {
		out = filepath.Join(cfg.Output.Dir, slugify(text)+".mp3")
	}
	if err := os.WriteFile(out, resp.AudioData, 0o644); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	slog.Info("audio written",
		"file", out,
		"bytes", len(resp.AudioData),
		"duration_s", resp.Duration,
		"generation_s", resp.GenerationTime,
		"characters", resp.CharactersProcessed,
	)
	return nil
}

// slugify builds a short filesystem-safe name from the spoken text.
func slugify(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
		if b.Len() >= 32 {
			break
		}
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		s = "speech"
	}
	return s
}

// ── Logger ────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
