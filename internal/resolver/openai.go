package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"nlterm/internal/config"
	"nlterm/internal/logger"
)

// chatMessage represents a chat message
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest represents the Chat Completions API request
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// chatResponse represents the API response
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// chatErrorResponse represents an API error body
type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	httpClient *http.Client
	config     *config.Config
}

// NewOpenAIClient creates a new client for the configured endpoint.
func NewOpenAIClient(cfg *config.Config) *OpenAIClient {
	return &OpenAIClient{
		httpClient: &http.Client{
			// Per-request deadlines come from the caller's context;
			// this is the hard upper bound.
			Timeout: cfg.ResolveTimeout,
		},
		config: cfg,
	}
}

// Translate sends the translation prompt and returns the raw reply text.
func (c *OpenAIClient) Translate(ctx context.Context, req TranslationRequest) (string, error) {
	reqBody := chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: buildPrompt(req)},
		},
		Temperature: 0,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	logger.Debug("translation request", "provider", "openai", "model", c.config.Model)

	return WithRetry(ctx, func() (string, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.ChatCompletionsURL(), bytes.NewBuffer(jsonData))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}

		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+c.config.OpenAIAPIKey)

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return "", fmt.Errorf("failed to send request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			var errResp chatErrorResponse
			errMsg := fmt.Sprintf("status code %d", resp.StatusCode)
			if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
				errMsg = errResp.Error.Message
			}
			return "", &APIError{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("translator API error: %s", errMsg),
			}
		}

		var chatResp chatResponse
		if err := json.Unmarshal(body, &chatResp); err != nil {
			return "", fmt.Errorf("failed to parse response: %w", err)
		}
		if len(chatResp.Choices) == 0 {
			return "", fmt.Errorf("empty response from translator")
		}

		return chatResp.Choices[0].Message.Content, nil
	})
}

// Close is a no-op; the client holds no resources.
func (c *OpenAIClient) Close() {}
