package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/telemetry"
)

// ErrExhausted is returned once every provider in the chain has failed.
// It wraps the first provider's error.
var ErrExhausted = errors.New("provider chain exhausted")

// Chain tries a fixed priority order of providers. Each provider gets
// exactly one attempt per call; any transport, status, or JSON failure
// advances to the next provider.
type Chain struct {
	providers []Client
}

// NewChain builds a chain from the given providers in priority order.
func NewChain(providers ...Client) *Chain {
	return &Chain{providers: providers}
}

// Providers returns the chain's provider names in priority order.
func (c *Chain) Providers() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}

// Empty reports whether the chain has no providers.
func (c *Chain) Empty() bool {
	return c == nil || len(c.providers) == 0
}

// ChatJSON asks each provider in turn for a JSON reply. It returns the
// first valid JSON payload together with the name of the provider that
// produced it. When all providers fail, it returns ErrExhausted wrapping
// the first error encountered.
func (c *Chain) ChatJSON(ctx context.Context, prompt string) (json.RawMessage, string, error) {
	if c.Empty() {
		return nil, "", fmt.Errorf("%w: no providers configured", ErrExhausted)
	}

	var firstErr error
	for _, provider := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		metrics.IncProviderAttempt(provider.Name())
		raw, err := provider.ChatJSON(ctx, prompt)
		if err == nil && !json.Valid(raw) {
			err = fmt.Errorf("provider %s returned invalid JSON", provider.Name())
		}
		if err == nil {
			return raw, provider.Name(), nil
		}

		metrics.IncProviderFailure(provider.Name())
		telemetry.Error("llm.provider_failed", map[string]any{
			"provider": provider.Name(),
			"error":    err.Error(),
		})
		if firstErr == nil {
			firstErr = err
		}
	}

	return nil, "", fmt.Errorf("%w: %w", ErrExhausted, firstErr)
}
