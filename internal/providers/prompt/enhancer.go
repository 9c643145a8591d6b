package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"headshot/internal/domain"
)

// CompletionRequest carries one single-turn text completion. Zero values
// fall back to the completer's configured defaults.
type CompletionRequest struct {
	Prompt       string
	Model        string
	SystemPrompt string
	MaxTokens    int
	Temperature  *float64
}

// Completion is the trimmed text of the first choice.
type Completion struct {
	Text           string `json:"text"`
	Model          string `json:"model,omitempty"`
	Provider       string `json:"-"`
	FallbackReason string `json:"fallback_reason,omitempty"`
}

type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

// StaticCompleter always answers with the same text. It backs the fallback
// decorator and local development without credentials.
type StaticCompleter struct {
	text string
}

func NewStaticCompleter(text string) *StaticCompleter {
	return &StaticCompleter{text: strings.TrimSpace(text)}
}

func (s *StaticCompleter) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Completion{Text: s.text, Provider: staticProviderName}, nil
}

// FallbackCompleter substitutes a static answer when the inner completer
// fails. Validation errors and caller cancellation are never masked.
type FallbackCompleter struct {
	inner      Completer
	fallback   *StaticCompleter
	onFallback func(reason string, err error)
}

// WithFallback wraps inner so that any dispatch failure yields text instead.
// onFallback may be nil.
func WithFallback(inner Completer, text string, onFallback func(reason string, err error)) *FallbackCompleter {
	return &FallbackCompleter{
		inner:      inner,
		fallback:   NewStaticCompleter(text),
		onFallback: onFallback,
	}
}

func (f *FallbackCompleter) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	res, err := f.inner.Complete(ctx, req)
	if err == nil {
		return res, nil
	}
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, context.Canceled) {
		return nil, err
	}
	return f.useFallback(ctx, req, fallbackReason(err), err)
}

func (f *FallbackCompleter) useFallback(ctx context.Context, req CompletionRequest, reason string, cause error) (*Completion, error) {
	if f.onFallback != nil {
		f.onFallback(reason, cause)
	}
	res, err := f.fallback.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fallback completer: %w", err)
	}
	res.FallbackReason = reason
	return res, nil
}

// fallbackReason renders a short machine readable cause, e.g. "http_429" or
// "missing_api_key".
func fallbackReason(err error) string {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		return "unknown"
	}
	switch derr.Kind {
	case domain.KindConfiguration:
		return "missing_api_key"
	case domain.KindProvider:
		return fmt.Sprintf("http_%d", derr.StatusCode)
	case domain.KindTransport:
		return "http_request"
	case domain.KindEmptyResult:
		return "empty_response"
	case domain.KindMalformedResponse:
		return "decode_response"
	default:
		return string(derr.Kind)
	}
}

var (
	_ Completer = (*StaticCompleter)(nil)
	_ Completer = (*FallbackCompleter)(nil)
)
