package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"recruit-backend/internal/llm"
)

const defaultModel = "gemini-2.0-flash"

// Client implements llm.Client using the Google GenAI API.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewClient creates a new Gemini-backed client.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w: GEMINI_API_KEY is required", llm.ErrNotConfigured)
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{client: client, model: model, timeout: timeout}, nil
}

// Name identifies this provider in chain ordering and metrics.
func (c *Client) Name() string { return "gemini" }

// ChatJSON sends the prompt and returns the model's JSON reply.
func (c *Client) ChatJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("gemini client is not initialized")
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.New("prompt must not be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(llm.SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := llm.StripFences(builder.String())
	if output == "" {
		return nil, errors.New("gemini api returned empty response")
	}
	return json.RawMessage(output), nil
}

var _ llm.Client = (*Client)(nil)
