package handlers

import (
	"net/http"

	"headshot/internal/domain"
	"headshot/internal/providers/prompt"
)

type completionRequest struct {
	Prompt       string   `json:"prompt"`
	Model        string   `json:"model"`
	SystemPrompt string   `json:"system_prompt"`
	MaxTokens    int      `json:"max_tokens"`
	Temperature  *float64 `json:"temperature"`
}

type completionResponse struct {
	Success        bool   `json:"success"`
	Text           string `json:"text,omitempty"`
	Model          string `json:"model,omitempty"`
	FallbackReason string `json:"fallback_reason,omitempty"`
	Error          string `json:"error,omitempty"`
	Code           string `json:"code,omitempty"`
}

func (a *App) CreateCompletion(w http.ResponseWriter, r *http.Request) {
	var body completionRequest
	if err := a.decode(w, r, &body); err != nil {
		a.completionError(w, r, err)
		return
	}
	if err := body.validate(); err != nil {
		a.completionError(w, r, err)
		return
	}
	res, err := a.Service.CompleteText(r.Context(), prompt.CompletionRequest{
		Prompt:       body.Prompt,
		Model:        body.Model,
		SystemPrompt: body.SystemPrompt,
		MaxTokens:    body.MaxTokens,
		Temperature:  body.Temperature,
	})
	if err != nil {
		a.completionError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, completionResponse{
		Success:        true,
		Text:           res.Text,
		Model:          res.Model,
		FallbackReason: res.FallbackReason,
	})
}

func (b completionRequest) validate() error {
	if b.MaxTokens < 0 {
		return domain.NewValidationError("max_tokens must not be negative")
	}
	if b.Temperature != nil && (*b.Temperature < 0 || *b.Temperature > 2) {
		return domain.NewValidationError("temperature must be between 0 and 2")
	}
	return nil
}

func (a *App) completionError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	logFailure(r, err, status)
	a.json(w, status, completionResponse{Error: errorMessage(err, status), Code: code})
}
