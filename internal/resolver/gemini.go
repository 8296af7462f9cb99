package resolver

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"nlterm/internal/config"
	"nlterm/internal/logger"
)

// GeminiClient talks to the Gemini API via the official genai SDK.
// The underlying client is created lazily on the first Translate call
// so construction never touches the network.
type GeminiClient struct {
	config *config.Config

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiClient creates a new Gemini translator client.
func NewGeminiClient(cfg *config.Config) *GeminiClient {
	return &GeminiClient{config: cfg}
}

func (c *GeminiClient) ensureClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: c.config.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	c.client = client
	return client, nil
}

// Translate sends the translation prompt and returns the raw reply text.
func (c *GeminiClient) Translate(ctx context.Context, req TranslationRequest) (string, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	logger.Debug("translation request", "provider", "gemini", "model", c.config.Model)

	temperature := float32(0)
	genConfig := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}

	contents := []*genai.Content{
		genai.NewContentFromText(buildPrompt(req), genai.RoleUser),
	}

	resp, err := client.Models.GenerateContent(ctx, c.config.Model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from translator")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response from translator")
	}

	return sb.String(), nil
}

// Close is a no-op; the SDK client holds no closable resources.
func (c *GeminiClient) Close() {}
