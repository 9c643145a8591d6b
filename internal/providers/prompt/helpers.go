package prompt

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/packages/respjson"

	"headshot/internal/domain"
)

const (
	staticProviderName     = "static"
	openRouterProviderName = "openrouter"

	DefaultBaseURL      = "https://openrouter.ai/api/v1"
	DefaultModel        = "google/gemini-2.5-flash"
	DefaultTitle        = "Prof Pics App"
	DefaultMaxTokens    = 1024
	DefaultTemperature  = 0.7
	DefaultSystemPrompt = "You are a helpful assistant for a professional headshot generator app. Answer briefly and concretely."
)

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

// classifyError maps an SDK failure onto the domain taxonomy.
func classifyError(provider string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return domain.NewProviderError(provider, apiErr.StatusCode, providerMessage(apiErr), err)
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return domain.NewMalformedResponseError(provider, err)
	}
	return domain.NewTransportError(provider, err)
}

// invalidField reports a field the SDK saw in the body but could not decode
// into its declared type. Omitted and null fields are not invalid.
func invalidField(f respjson.Field) bool {
	raw := f.Raw()
	return !f.Valid() && raw != "" && raw != respjson.Null
}

// providerMessage extracts the upstream message, tolerating the nested
// {"error":{"message"}} envelope OpenRouter uses.
func providerMessage(apiErr *openai.Error) string {
	if msg := strings.TrimSpace(apiErr.Message); msg != "" {
		return msg
	}
	raw := strings.TrimSpace(apiErr.RawJSON())
	if raw == "" {
		return ""
	}
	var envelope struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return ""
	}
	return coalesce(envelope.Error.Message, envelope.Message)
}
