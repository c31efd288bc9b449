package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Operation-shaped system prompts. Domain wording lives with the callers;
// these only pin the reply format the interface promises.
const (
	systemBoolean = `Answer with only "true" or "false".`
	systemLabel   = "Respond with only the requested label, nothing else."
	systemJSON    = "Respond with only a single JSON object."
)

// OpenAIClient implements Client against the OpenAI chat completion API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient constructs an OpenAI-backed NLU client. An empty model
// falls back to a modern small default.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClient{client: openai.NewClient(apiKey), model: model}
}

func (c *OpenAIClient) ClassifyBoolean(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, prompt, systemBoolean, false)
}

func (c *OpenAIClient) ClassifyText(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, prompt, systemLabel, false)
}

func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string) (map[string]any, error) {
	raw, err := c.complete(ctx, prompt, systemJSON, true)
	if err != nil {
		return nil, err
	}
	return decodeJSONObject(raw)
}

func (c *OpenAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, prompt, "", false)
}

func (c *OpenAIClient) complete(ctx context.Context, prompt, system string, jsonMode bool) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: 0.2,
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// decodeJSONObject strips markdown code fences some models wrap JSON in,
// then decodes a single object.
func decodeJSONObject(raw string) (map[string]any, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	return obj, nil
}
