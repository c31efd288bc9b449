package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient implements Client against the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient constructs a Gemini-backed NLU client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) ClassifyBoolean(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, systemBoolean, "")
}

func (c *GeminiClient) ClassifyText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, systemLabel, "")
}

func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (map[string]any, error) {
	raw, err := c.generate(ctx, prompt, systemJSON, "application/json")
	if err != nil {
		return nil, err
	}
	return decodeJSONObject(raw)
}

func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, "", "")
}

func (c *GeminiClient) generate(ctx context.Context, prompt, system, mimeType string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if mimeType != "" {
		config.ResponseMIMEType = mimeType
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return "", err
	}
	return strings.TrimSpace(resp.Text()), nil
}
