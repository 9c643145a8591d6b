package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"headshot/internal/domain"
	"headshot/internal/headshot"
)

// DefaultMaxBodyBytes fits a 5 MiB image after base64 expansion plus the
// rest of the JSON envelope.
const DefaultMaxBodyBytes = 8 << 20

type App struct {
	Service      *headshot.Service
	MaxBodyBytes int64
}

func NewApp(svc *headshot.Service, maxBodyBytes int64) *App {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &App{Service: svc, MaxBodyBytes: maxBodyBytes}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, codeStr, msg string) {
	a.json(w, code, map[string]any{"error": errorBody{Code: codeStr, Message: msg}})
}

// decode reads one JSON document, capped at MaxBodyBytes.
func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.NewValidationError("request body exceeds %d bytes", tooLarge.Limit)
		}
		if errors.Is(err, io.EOF) {
			return domain.NewValidationError("request body is empty")
		}
		return domain.NewValidationError("invalid payload: %v", err)
	}
	return nil
}

// statusFor maps a failure onto an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "provider_timeout"
	}
	var derr *domain.Error
	if !errors.As(err, &derr) {
		return http.StatusInternalServerError, "internal"
	}
	switch derr.Kind {
	case domain.KindValidation:
		return http.StatusBadRequest, "invalid_request"
	case domain.KindConfiguration:
		return http.StatusServiceUnavailable, "not_configured"
	case domain.KindProvider:
		if derr.RateLimited() {
			return http.StatusTooManyRequests, "rate_limited"
		}
		return http.StatusBadGateway, "provider_error"
	case domain.KindTransport:
		return http.StatusGatewayTimeout, "provider_unreachable"
	case domain.KindEmptyResult:
		return http.StatusUnprocessableEntity, "empty_result"
	case domain.KindMalformedResponse:
		return http.StatusBadGateway, "malformed_response"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func errorMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

func logFailure(r *http.Request, err error, status int) {
	event := zerolog.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = zerolog.Ctx(r.Context()).Error()
	}
	event.Err(err).Str("kind", string(domain.KindOf(err))).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
}
