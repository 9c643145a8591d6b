package headshot

import (
	"context"
	"fmt"

	"headshot/internal/infra"
	"headshot/internal/metrics"
	"headshot/internal/providers/genai"
	"headshot/internal/providers/prompt"
)

// NewFromConfig builds both dispatchers from cfg. Missing keys are not an
// error here; the affected dispatcher reports them on each call. When
// CompletionFallbackText is set the text dispatcher answers with it instead of
// failing.
func NewFromConfig(ctx context.Context, cfg *infra.Config, logger *infra.Logger, collector *metrics.Collector) (*Service, error) {
	logger = infra.DiscardLogger(logger)

	editor, err := genai.NewClient(ctx, genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Timeout: cfg.ProviderTimeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build image editor: %w", err)
	}

	openRouter := prompt.NewOpenAICompleter(prompt.OpenAIOptions{
		APIKey:       cfg.OpenRouterAPIKey,
		BaseURL:      cfg.OpenRouterBaseURL,
		Model:        cfg.OpenRouterModel,
		SystemPrompt: cfg.CompletionSystemPrompt,
		MaxTokens:    cfg.CompletionMaxTokens,
		Temperature:  cfg.CompletionTemperature,
		Referer:      cfg.OpenRouterReferer,
		Title:        cfg.OpenRouterTitle,
		Timeout:      cfg.ProviderTimeout,
		Logger:       logger,
	})

	var completer prompt.Completer = openRouter
	if cfg.CompletionFallbackText != "" {
		completer = prompt.WithFallback(openRouter, cfg.CompletionFallbackText, func(reason string, err error) {
			logger.Warn().Err(err).Str("fallback_reason", reason).Msg("headshot: completion answered by fallback")
		})
	}

	if !editor.Configured() {
		logger.Warn().Msg("GEMINI_API_KEY is not set; headshot generation will fail until it is")
	}
	if !openRouter.Configured() {
		logger.Warn().Msg("OPENROUTER_API_KEY is not set; text completion will fail until it is")
	}

	return NewService(Options{
		Editor:         editor,
		Completer:      completer,
		Logger:         logger,
		Metrics:        collector,
		ImageProvider:  "gemini",
		TextProvider:   "openrouter",
		MaxImageBytes:  cfg.MaxImageBytes,
		MaxCustomRunes: cfg.MaxCustomPromptChars,
	}), nil
}
