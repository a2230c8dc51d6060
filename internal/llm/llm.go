package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// SystemInstruction is sent with every chat request regardless of provider.
const SystemInstruction = "You are a precise assistant. Reply with strict JSON only: a single JSON object, no prose, no markdown."

// Client abstracts a single text-generation provider. Implementations send
// the fixed system instruction plus the user prompt and return the raw
// response body, which is expected to be a valid JSON object.
type Client interface {
	Name() string
	ChatJSON(ctx context.Context, prompt string) (json.RawMessage, error)
}

// ErrNotConfigured is returned by constructors missing required settings.
var ErrNotConfigured = errors.New("provider not configured")

// StripFences removes a surrounding markdown code fence, which hosted
// models emit even when asked for bare JSON.
func StripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
