package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"recruit-backend/internal/llm"
)

// Client implements llm.Client against a self-hosted Ollama instance.
// It is the terminal provider in the default chain: no API key, local
// network only.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient constructs a client for the Ollama chat API.
func NewClient(baseURL, model string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("ollama: %w: OLLAMA_URL is required", llm.ErrNotConfigured)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("ollama: %w: OLLAMA_MODEL is required", llm.ErrNotConfigured)
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Name identifies this provider in chain ordering and metrics.
func (c *Client) Name() string { return "ollama" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Format   string        `json:"format,omitempty"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

// ChatJSON sends the prompt and returns the model's JSON reply.
func (c *Client) ChatJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: llm.SystemInstruction},
			{Role: "user", Content: prompt},
		},
		Format: "json",
		Stream: false,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ollama status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("ollama response parse: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("ollama error: %s", parsed.Error)
	}

	content := llm.StripFences(parsed.Message.Content)
	if content == "" {
		return nil, fmt.Errorf("ollama response empty content")
	}
	return json.RawMessage(content), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ llm.Client = (*Client)(nil)
