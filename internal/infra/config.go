package infra

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
)

// Config represents application configuration loaded from environment variables.
// Provider keys are optional; a missing key surfaces per call.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   string `env:"PORT" envDefault:"8080"`

	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash-image"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL"`

	OpenRouterAPIKey  string `env:"OPENROUTER_API_KEY"`
	OpenRouterModel   string `env:"OPENROUTER_MODEL" envDefault:"google/gemini-2.5-flash"`
	OpenRouterBaseURL string `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	OpenRouterReferer string `env:"OPENROUTER_REFERER"`
	OpenRouterTitle   string `env:"OPENROUTER_TITLE" envDefault:"Prof Pics App"`

	CompletionMaxTokens    int     `env:"COMPLETION_MAX_TOKENS" envDefault:"1024"`
	CompletionTemperature  float64 `env:"COMPLETION_TEMPERATURE" envDefault:"0.7"`
	CompletionSystemPrompt string  `env:"COMPLETION_SYSTEM_PROMPT"`
	CompletionFallbackText string  `env:"COMPLETION_FALLBACK_TEXT"`

	ProviderTimeout      time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"60s"`
	MaxImageBytes        int           `env:"MAX_IMAGE_BYTES" envDefault:"5242880"`
	MaxCustomPromptChars int           `env:"MAX_CUSTOM_PROMPT_CHARS" envDefault:"500"`

	HTTPReadTimeout    time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	HTTPWriteTimeout   time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"90s"`
	HTTPIdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	RateLimitPerMin    int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	TrustProxyHeaders  bool          `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.GeminiAPIKey = strings.TrimSpace(cfg.GeminiAPIKey)
	cfg.OpenRouterAPIKey = strings.TrimSpace(cfg.OpenRouterAPIKey)
	cfg.CORSAllowedOrigins = trimList(cfg.CORSAllowedOrigins)

	if cfg.CompletionMaxTokens <= 0 {
		return nil, fmt.Errorf("COMPLETION_MAX_TOKENS must be positive, got %d", cfg.CompletionMaxTokens)
	}
	if cfg.CompletionTemperature < 0 || cfg.CompletionTemperature > 2 {
		return nil, fmt.Errorf("COMPLETION_TEMPERATURE must be between 0 and 2, got %v", cfg.CompletionTemperature)
	}
	if cfg.ProviderTimeout <= 0 {
		return nil, fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}
	if cfg.MaxImageBytes <= 0 || cfg.MaxCustomPromptChars <= 0 {
		return nil, fmt.Errorf("MAX_IMAGE_BYTES and MAX_CUSTOM_PROMPT_CHARS must be positive")
	}

	return cfg, nil
}

func trimList(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
