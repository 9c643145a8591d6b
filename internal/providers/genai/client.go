package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gsdk "google.golang.org/genai"

	"headshot/internal/domain"
	"headshot/internal/infra"
)

const (
	providerName = "gemini"

	DefaultModel   = "gemini-2.5-flash-image"
	DefaultTimeout = 60 * time.Second
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *infra.Logger
}

// Client dispatches image edit requests to the Gemini generateContent
// endpoint. A Client without an API key is valid but every call fails with a
// configuration error before touching the network.
type Client struct {
	sdk     *gsdk.Client
	model   string
	timeout time.Duration
	logger  *infra.Logger
}

// NewClient constructs a Gemini client with sane defaults. Callers may provide
// a nil HTTP client; the SDK default transport is used in that case.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{model: model, timeout: timeout, logger: infra.DiscardLogger(opts.Logger)}

	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return c, nil
	}

	cfg := &gsdk.ClientConfig{
		APIKey:     apiKey,
		Backend:    gsdk.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"); base != "" {
		cfg.HTTPOptions = gsdk.HTTPOptions{BaseURL: base + "/"}
	}
	sdk, err := gsdk.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai: create client: %w", err)
	}
	c.sdk = sdk
	return c, nil
}

// Model returns the configured Gemini model identifier.
func (c *Client) Model() string {
	return c.model
}

// Configured reports whether an API key was supplied.
func (c *Client) Configured() bool {
	return c.sdk != nil
}

// EditImage sends the source image followed by the instruction text and
// returns the first inline image of the first candidate.
func (c *Client) EditImage(ctx context.Context, image []byte, mimeType, instruction string) (*domain.ImageResult, error) {
	if c.sdk == nil {
		return nil, domain.NewConfigurationError(providerName, "GEMINI_API_KEY is not set")
	}
	if mimeType == "" {
		mimeType = domain.DefaultImageMIMEType
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	parts := []*gsdk.Part{
		{InlineData: &gsdk.Blob{MIMEType: mimeType, Data: image}},
		gsdk.NewPartFromText(instruction),
	}
	contents := []*gsdk.Content{gsdk.NewContentFromParts(parts, gsdk.RoleUser)}

	start := time.Now()
	resp, err := c.sdk.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("model", c.model).
			Dur("elapsed", time.Since(start)).
			Msg("genai: generateContent failed")
		return nil, classifyError(err)
	}

	result, err := extractImage(resp)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().
		Str("model", c.model).
		Str("mime_type", result.MIMEType).
		Int("bytes", len(result.Data)).
		Dur("elapsed", time.Since(start)).
		Msg("genai: image edit completed")
	return result, nil
}

func extractImage(resp *gsdk.GenerateContentResponse) (*domain.ImageResult, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		msg := "no candidates returned"
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			msg = fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return nil, domain.NewEmptyResultError(providerName, msg)
	}

	candidate := resp.Candidates[0]
	var text []string
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = domain.DefaultImageMIMEType
				}
				return &domain.ImageResult{Data: part.InlineData.Data, MIMEType: mimeType}, nil
			}
			if t := strings.TrimSpace(part.Text); t != "" {
				text = append(text, t)
			}
		}
	}

	msg := "no image data in response"
	if candidate.FinishReason != "" && candidate.FinishReason != gsdk.FinishReasonStop {
		msg = fmt.Sprintf("%s (finish reason %s)", msg, candidate.FinishReason)
	}
	if len(text) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(text, " "))
	}
	return nil, domain.NewEmptyResultError(providerName, msg)
}

func classifyError(err error) error {
	var apiErr gsdk.APIError
	if errors.As(err, &apiErr) {
		return domain.NewProviderError(providerName, apiErr.Code, apiErr.Message, err)
	}
	var apiErrPtr *gsdk.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return domain.NewProviderError(providerName, apiErrPtr.Code, apiErrPtr.Message, err)
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return domain.NewMalformedResponseError(providerName, err)
	}
	return domain.NewTransportError(providerName, err)
}
