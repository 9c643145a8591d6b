package prompt

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"headshot/internal/domain"
	"headshot/internal/infra"
)

const defaultTimeout = 60 * time.Second

type OpenAIOptions struct {
	APIKey       string
	BaseURL      string
	Model        string
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
	Referer      string
	Title        string
	HTTPClient   *http.Client
	Timeout      time.Duration
	Logger       *infra.Logger
}

// OpenAICompleter sends chat completions to an OpenAI compatible endpoint,
// OpenRouter by default.
type OpenAICompleter struct {
	client       *openai.Client
	provider     string
	model        string
	systemPrompt string
	maxTokens    int
	temperature  float64
	timeout      time.Duration
	logger       *infra.Logger
}

// NewOpenAICompleter never fails on a missing key; Complete reports it per
// call instead so the service can start without credentials.
func NewOpenAICompleter(opts OpenAIOptions) *OpenAICompleter {
	c := &OpenAICompleter{
		provider:     openRouterProviderName,
		model:        coalesce(opts.Model, DefaultModel),
		systemPrompt: coalesce(opts.SystemPrompt, DefaultSystemPrompt),
		maxTokens:    opts.MaxTokens,
		temperature:  opts.Temperature,
		timeout:      opts.Timeout,
		logger:       infra.DiscardLogger(opts.Logger),
	}
	if c.maxTokens <= 0 {
		c.maxTokens = DefaultMaxTokens
	}
	if c.temperature <= 0 {
		c.temperature = DefaultTemperature
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}

	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return c
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(coalesce(opts.BaseURL, DefaultBaseURL)),
		option.WithMaxRetries(0),
		option.WithHeader("X-Title", coalesce(opts.Title, DefaultTitle)),
	}
	if referer := strings.TrimSpace(opts.Referer); referer != "" {
		reqOpts = append(reqOpts, option.WithHeader("HTTP-Referer", referer))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	client := openai.NewClient(reqOpts...)
	c.client = &client
	return c
}

func (o *OpenAICompleter) Model() string {
	return o.model
}

func (o *OpenAICompleter) Configured() bool {
	return o.client != nil
}

// Complete sends one system and one user message and returns the trimmed
// content of the first choice.
func (o *OpenAICompleter) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if o.client == nil {
		return nil, domain.NewConfigurationError(o.provider, "OPENROUTER_API_KEY is not set")
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, domain.NewValidationError("prompt is required")
	}

	model := coalesce(req.Model, o.model)
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = o.maxTokens
	}
	temperature := o.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(coalesce(req.SystemPrompt, o.systemPrompt)),
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(temperature),
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		derr := classifyError(o.provider, err)
		o.logger.Warn().
			Err(derr).
			Str("provider", o.provider).
			Str("model", model).
			Str("kind", string(domain.KindOf(derr))).
			Dur("elapsed", time.Since(start)).
			Msg("prompt: completion failed")
		return nil, derr
	}
	if resp != nil && invalidField(resp.JSON.Choices) {
		return nil, domain.NewMalformedResponseError(o.provider, fmt.Errorf("choices: unexpected value %s", resp.JSON.Choices.Raw()))
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, domain.NewEmptyResultError(o.provider, "no choices returned")
	}
	if content := resp.Choices[0].Message.JSON.Content; invalidField(content) {
		return nil, domain.NewMalformedResponseError(o.provider, fmt.Errorf("message content: unexpected value %s", content.Raw()))
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, domain.NewEmptyResultError(o.provider, "empty completion")
	}

	o.logger.Debug().
		Str("provider", o.provider).
		Str("model", model).
		Int("chars", len(text)).
		Dur("elapsed", time.Since(start)).
		Msg("prompt: completion succeeded")
	return &Completion{Text: text, Model: coalesce(resp.Model, model), Provider: o.provider}, nil
}

var _ Completer = (*OpenAICompleter)(nil)
