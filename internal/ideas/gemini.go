package ideas

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/edgard/giftbot/internal/config"
)

// contentGenerator is the part of genai.Models the generator calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiGenerator struct {
	models        contentGenerator
	model         string
	contentConfig *genai.GenerateContentConfig
	log           *slog.Logger
}

// NewGeminiGenerator creates a generator backed by the Gemini API.
func NewGeminiGenerator(ctx context.Context, cfg config.AIConfig, log *slog.Logger) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	logger := log.With("component", "gemini_generator")
	logger.Info("Gemini idea generator initialized", "model", cfg.Model)
	return newGeminiGenerator(client.Models, cfg, logger), nil
}

func newGeminiGenerator(models contentGenerator, cfg config.AIConfig, log *slog.Logger) *geminiGenerator {
	temperature := cfg.Temperature
	contentConfig := &genai.GenerateContentConfig{Temperature: &temperature}
	if cfg.SystemInstruction != "" {
		contentConfig.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: cfg.SystemInstruction}}}
	}

	return &geminiGenerator{
		models:        models,
		model:         cfg.Model,
		contentConfig: contentConfig,
		log:           log,
	}
}

func (g *geminiGenerator) FetchIdeas(ctx context.Context, prompt string) (string, error) {
	g.log.DebugContext(ctx, "Requesting gift ideas", "model", g.model)

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), g.contentConfig)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	return g.extractText(ctx, resp)
}

func (g *geminiGenerator) extractText(ctx context.Context, resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmptyResponse
	}

	if isBlocked(resp.PromptFeedback) {
		reason := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reason = resp.PromptFeedback.BlockReasonMessage
		}
		g.log.WarnContext(ctx, "Gemini request blocked", "reason", reason)
		return "", fmt.Errorf("gemini request blocked: %s", reason)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified {
			finishReason = fmt.Sprintf("%v", resp.Candidates[0].FinishReason)
		}
		g.log.WarnContext(ctx, "Gemini response missing content", "finish_reason", finishReason)
		return "", fmt.Errorf("%w (finish reason: %s)", ErrEmptyResponse, finishReason)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// isBlocked reports whether the prompt was rejected. Feedback carrying only
// safety ratings decodes with an empty block reason.
func isBlocked(fb *genai.GenerateContentResponsePromptFeedback) bool {
	if fb == nil {
		return false
	}
	return fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified
}
