package config

import (
	"errors"
	"os"
	"testing"
	"time"
)

// Helper to set environment variable for test and restore after
func setEnvForTest(t *testing.T, key, value string) {
	t.Helper()
	old, existed := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if existed {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

// Helper to unset environment variable for test and restore after
func unsetEnvForTest(t *testing.T, key string) {
	t.Helper()
	old, existed := os.LookupEnv(key)
	os.Unsetenv(key)
	t.Cleanup(func() {
		if existed {
			os.Setenv(key, old)
		}
	})
}

// clearAllEnvVars clears all config-related environment variables
func clearAllEnvVars(t *testing.T) {
	t.Helper()
	envVars := []string{
		EnvProvider, EnvModel,
		EnvOpenAIBaseURL, EnvOpenAIAPIKey,
		EnvGeminiAPIKey,
		EnvResolveTimeout, EnvCommandTimeout, EnvLogLevel,
	}
	for _, env := range envVars {
		unsetEnvForTest(t, env)
	}
}

func TestValidate_LiteralOnlyWithoutKeys(t *testing.T) {
	clearAllEnvVars(t)

	cfg := NewConfig()
	cfg.Workdir = t.TempDir()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if cfg.Provider != "" {
		t.Errorf("Provider = %q, want empty (literal-only)", cfg.Provider)
	}
	if cfg.HasTranslator() {
		t.Error("HasTranslator() = true, want false without keys")
	}
}

func TestValidate_AutoDetectOpenAI(t *testing.T) {
	clearAllEnvVars(t)
	setEnvForTest(t, EnvOpenAIAPIKey, "sk-test")

	cfg := NewConfig()
	cfg.Workdir = t.TempDir()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", cfg.Provider)
	}
	if cfg.Model != DefaultOpenAIModel {
		t.Errorf("Model = %q, want %q", cfg.Model, DefaultOpenAIModel)
	}
	if !cfg.HasTranslator() {
		t.Error("HasTranslator() = false, want true")
	}
}

func TestValidate_AutoDetectGemini(t *testing.T) {
	clearAllEnvVars(t)
	setEnvForTest(t, EnvGeminiAPIKey, "g-test")

	cfg := NewConfig()
	cfg.Workdir = t.TempDir()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if cfg.Provider != "gemini" {
		t.Errorf("Provider = %q, want gemini", cfg.Provider)
	}
	if cfg.Model != DefaultGeminiModel {
		t.Errorf("Model = %q, want %q", cfg.Model, DefaultGeminiModel)
	}
}

func TestValidate_OpenAIPreferredOverGemini(t *testing.T) {
	clearAllEnvVars(t)
	setEnvForTest(t, EnvOpenAIAPIKey, "sk-test")
	setEnvForTest(t, EnvGeminiAPIKey, "g-test")

	cfg := NewConfig()
	cfg.Workdir = t.TempDir()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", cfg.Provider)
	}
}

func TestValidate_ExplicitProviderWithoutKey(t *testing.T) {
	clearAllEnvVars(t)

	cfg := NewConfig()
	cfg.Provider = "openai"
	cfg.Workdir = t.TempDir()

	if err := cfg.Validate(); !errors.Is(err, ErrOpenAIKeyNotFound) {
		t.Errorf("Validate() error = %v, want ErrOpenAIKeyNotFound", err)
	}

	cfg = NewConfig()
	cfg.Provider = "gemini"
	cfg.Workdir = t.TempDir()

	if err := cfg.Validate(); !errors.Is(err, ErrGeminiKeyNotFound) {
		t.Errorf("Validate() error = %v, want ErrGeminiKeyNotFound", err)
	}
}

func TestValidate_InvalidProvider(t *testing.T) {
	clearAllEnvVars(t)

	cfg := NewConfig()
	cfg.Provider = "cobol"
	cfg.Workdir = t.TempDir()

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidProvider) {
		t.Errorf("Validate() error = %v, want ErrInvalidProvider", err)
	}
}

func TestValidate_FlagBeatsEnv(t *testing.T) {
	clearAllEnvVars(t)
	setEnvForTest(t, EnvOpenAIAPIKey, "sk-test")
	setEnvForTest(t, EnvModel, "env-model")

	cfg := NewConfig()
	cfg.Model = "flag-model"
	cfg.Workdir = t.TempDir()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if cfg.Model != "flag-model" {
		t.Errorf("Model = %q, want flag value to win", cfg.Model)
	}
}

func TestValidate_Timeouts(t *testing.T) {
	clearAllEnvVars(t)

	cfg := NewConfig()
	cfg.Workdir = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if cfg.ResolveTimeout != DefaultResolveTimeout {
		t.Errorf("ResolveTimeout = %v, want %v", cfg.ResolveTimeout, DefaultResolveTimeout)
	}
	if cfg.CommandTimeout != DefaultCommandTimeout {
		t.Errorf("CommandTimeout = %v, want %v", cfg.CommandTimeout, DefaultCommandTimeout)
	}

	setEnvForTest(t, EnvResolveTimeout, "3s")
	setEnvForTest(t, EnvCommandTimeout, "garbage")

	cfg = NewConfig()
	cfg.Workdir = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if cfg.ResolveTimeout != 3*time.Second {
		t.Errorf("ResolveTimeout = %v, want 3s from env", cfg.ResolveTimeout)
	}
	if cfg.CommandTimeout != DefaultCommandTimeout {
		t.Errorf("CommandTimeout = %v, want default on parse failure", cfg.CommandTimeout)
	}
}

func TestValidate_InvalidWorkdir(t *testing.T) {
	clearAllEnvVars(t)

	cfg := NewConfig()
	cfg.Workdir = "/definitely/not/a/real/path"

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidWorkdir) {
		t.Errorf("Validate() error = %v, want ErrInvalidWorkdir", err)
	}
}

func TestChatCompletionsURL(t *testing.T) {
	clearAllEnvVars(t)
	setEnvForTest(t, EnvOpenAIAPIKey, "sk-test")
	setEnvForTest(t, EnvOpenAIBaseURL, "https://example.test/v1/")

	cfg := NewConfig()
	cfg.Workdir = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	want := "https://example.test/v1/chat/completions"
	if got := cfg.ChatCompletionsURL(); got != want {
		t.Errorf("ChatCompletionsURL() = %q, want %q", got, want)
	}
}
