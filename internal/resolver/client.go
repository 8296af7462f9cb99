// Package resolver turns natural-language input into one validated
// literal command. Input whose first token already names a command is
// returned untouched without contacting the translation boundary; the
// boundary itself is treated as untrusted and unreliable.
package resolver

import (
	"context"
	"fmt"

	"nlterm/internal/config"
)

// TranslationRequest carries the raw text and the contract handed to
// the external translator: the full list of canonical command names.
type TranslationRequest struct {
	Text     string
	Commands []string
}

// TranslatorClient is the external natural-language resolution boundary.
type TranslatorClient interface {
	// Translate proposes one literal command line for the request.
	// The reply is unvalidated; callers must re-check it.
	Translate(ctx context.Context, req TranslationRequest) (string, error)

	// Close releases any resources held by the client.
	Close()
}

// Ensure both clients implement TranslatorClient
var _ TranslatorClient = (*OpenAIClient)(nil)
var _ TranslatorClient = (*GeminiClient)(nil)

// NewClient creates a translator client for the configured provider.
// A nil client (no error) means no backend is configured and the engine
// runs literal-only.
func NewClient(cfg *config.Config) (TranslatorClient, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, config.ErrOpenAIKeyNotFound
		}
		return NewOpenAIClient(cfg), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, config.ErrGeminiKeyNotFound
		}
		return NewGeminiClient(cfg), nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown provider '%s': %w", cfg.Provider, config.ErrInvalidProvider)
	}
}
