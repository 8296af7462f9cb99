// Package config holds the engine configuration. The configuration is an
// explicit struct passed at construction time, never process-wide state.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Environment variable names
const (
	// Provider selection
	EnvProvider = "NLTERM_PROVIDER"
	EnvModel    = "NLTERM_MODEL"

	// OpenAI-compatible endpoint settings
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvOpenAIAPIKey  = "OPENAI_API_KEY"

	// Gemini settings
	EnvGeminiAPIKey = "GEMINI_API_KEY"

	// Timeouts and logging
	EnvResolveTimeout = "NLTERM_RESOLVE_TIMEOUT"
	EnvCommandTimeout = "NLTERM_COMMAND_TIMEOUT"
	EnvLogLevel       = "NLTERM_LOG_LEVEL"
)

// Defaults
const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultGeminiModel   = "gemini-2.0-flash"

	// DefaultResolveTimeout bounds the external translation call.
	DefaultResolveTimeout = 15 * time.Second
	// DefaultCommandTimeout bounds a single OS operation, including
	// spawned children such as ping.
	DefaultCommandTimeout = 30 * time.Second
)

// Errors
var (
	ErrInvalidProvider   = errors.New("invalid provider. Use 'openai' or 'gemini'")
	ErrOpenAIKeyNotFound = errors.New("OpenAI API key not found. Set OPENAI_API_KEY environment variable")
	ErrGeminiKeyNotFound = errors.New("Gemini API key not found. Set GEMINI_API_KEY environment variable")
	ErrInvalidWorkdir    = errors.New("working directory does not exist or is not a directory")
)

// Config holds the engine and resolver configuration.
type Config struct {
	// Provider selects the translation backend: "openai", "gemini",
	// or "" (auto-detect from available keys; none means literal-only).
	Provider string

	// Model overrides the provider's default model.
	Model string

	// OpenAI-compatible endpoint settings
	OpenAIBaseURL string
	OpenAIAPIKey  string

	// Gemini settings
	GeminiAPIKey string

	// ResolveTimeout bounds the external translation call.
	ResolveTimeout time.Duration
	// CommandTimeout bounds a single OS operation handler.
	CommandTimeout time.Duration

	// Workdir is the initial working directory for new sessions.
	Workdir string

	// LogLevel is the logger verbosity ("debug", "info", "warn", "error").
	LogLevel string

	// Render enables markdown rendering of help output in the console.
	Render bool
}

// NewConfig creates a new Config with zero values; call Validate to load
// environment defaults.
func NewConfig() *Config {
	return &Config{}
}

// Validate loads unset fields from the environment and checks the result.
// Precedence: explicit field (flag) > environment variable > default.
func (c *Config) Validate() error {
	if c.Provider == "" {
		c.Provider = os.Getenv(EnvProvider)
	}
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))

	if c.OpenAIBaseURL == "" {
		c.OpenAIBaseURL = os.Getenv(EnvOpenAIBaseURL)
	}
	if c.OpenAIBaseURL == "" {
		c.OpenAIBaseURL = DefaultOpenAIBaseURL
	}
	c.OpenAIBaseURL = strings.TrimSuffix(c.OpenAIBaseURL, "/")

	if c.OpenAIAPIKey == "" {
		c.OpenAIAPIKey = strings.TrimSpace(os.Getenv(EnvOpenAIAPIKey))
	}
	if c.GeminiAPIKey == "" {
		c.GeminiAPIKey = strings.TrimSpace(os.Getenv(EnvGeminiAPIKey))
	}

	switch c.Provider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return ErrOpenAIKeyNotFound
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return ErrGeminiKeyNotFound
		}
	case "":
		// Auto-detect: prefer OpenAI if a key is present, then Gemini.
		// Neither key means literal-only mode, which is valid.
		if c.OpenAIAPIKey != "" {
			c.Provider = "openai"
		} else if c.GeminiAPIKey != "" {
			c.Provider = "gemini"
		}
	default:
		return ErrInvalidProvider
	}

	if c.Model == "" {
		c.Model = os.Getenv(EnvModel)
	}
	if c.Model == "" {
		switch c.Provider {
		case "gemini":
			c.Model = DefaultGeminiModel
		default:
			c.Model = DefaultOpenAIModel
		}
	}

	if c.ResolveTimeout == 0 {
		c.ResolveTimeout = durationFromEnv(EnvResolveTimeout, DefaultResolveTimeout)
	}
	if c.CommandTimeout == 0 {
		c.CommandTimeout = durationFromEnv(EnvCommandTimeout, DefaultCommandTimeout)
	}

	if c.LogLevel == "" {
		c.LogLevel = os.Getenv(EnvLogLevel)
	}

	if c.Workdir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
		c.Workdir = wd
	}
	abs, err := filepath.Abs(c.Workdir)
	if err != nil {
		return ErrInvalidWorkdir
	}
	c.Workdir = abs
	info, err := os.Stat(c.Workdir)
	if err != nil || !info.IsDir() {
		return ErrInvalidWorkdir
	}

	return nil
}

// HasTranslator reports whether a translation backend is configured.
// Without one the engine runs in literal-only mode.
func (c *Config) HasTranslator() bool {
	switch c.Provider {
	case "openai":
		return c.OpenAIAPIKey != ""
	case "gemini":
		return c.GeminiAPIKey != ""
	}
	return false
}

// ChatCompletionsURL builds the full URL for the OpenAI-compatible
// chat completions endpoint.
func (c *Config) ChatCompletionsURL() string {
	return fmt.Sprintf("%s/chat/completions", c.OpenAIBaseURL)
}

// durationFromEnv parses a duration environment variable, falling back to
// def on absence or parse failure.
func durationFromEnv(envVar string, def time.Duration) time.Duration {
	v := os.Getenv(envVar)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
