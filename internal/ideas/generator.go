// Package ideas turns a gift prompt into suggestion text using an LLM provider.
package ideas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/edgard/giftbot/internal/config"
)

var (
	// ErrNotConfigured is returned by the generator used when no API key is set.
	ErrNotConfigured = errors.New("idea generator is not configured")
	// ErrEmptyResponse is returned when the provider answers without text.
	ErrEmptyResponse = errors.New("idea generator returned an empty response")
)

// Generator produces gift-idea text for a prompt.
type Generator interface {
	FetchIdeas(ctx context.Context, prompt string) (string, error)
}

// NewGenerator builds the generator for the configured provider. A missing
// API key yields a generator that always fails with ErrNotConfigured.
func NewGenerator(ctx context.Context, cfg config.AIConfig, log *slog.Logger) (Generator, error) {
	if cfg.APIKey == "" {
		log.Warn("AI API key is not set, idea generation is disabled", "provider", cfg.Provider)
		return disabled{}, nil
	}

	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiGenerator(ctx, cfg, log)
	case config.ProviderOpenRouter:
		return NewOpenRouterGenerator(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

type disabled struct{}

func (disabled) FetchIdeas(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}
