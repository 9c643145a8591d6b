package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"headshot/internal/domain"
	"headshot/internal/imagegen"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NewValidationError("bad"), http.StatusBadRequest, "invalid_request"},
		{domain.NewConfigurationError("gemini", "missing"), http.StatusServiceUnavailable, "not_configured"},
		{domain.NewProviderError("openrouter", 429, "", nil), http.StatusTooManyRequests, "rate_limited"},
		{domain.NewProviderError("gemini", 500, "", nil), http.StatusBadGateway, "provider_error"},
		{domain.NewTransportError("gemini", errors.New("reset")), http.StatusGatewayTimeout, "provider_unreachable"},
		{domain.NewEmptyResultError("gemini", "none"), http.StatusUnprocessableEntity, "empty_result"},
		{domain.NewMalformedResponseError("openrouter", errors.New("eof")), http.StatusBadGateway, "malformed_response"},
		{fmt.Errorf("wrapped: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "provider_timeout"},
		{errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		status, code := statusFor(tc.err)
		if status != tc.status || code != tc.code {
			t.Fatalf("statusFor(%v) = %d %s, want %d %s", tc.err, status, code, tc.status, tc.code)
		}
	}
}

func TestHeadshotRequestToDomain(t *testing.T) {
	req, err := headshotRequest{Image: "data:image/png;base64,aGk=", Style: " Corporate ", Background: ""}.toDomain()
	if err != nil {
		t.Fatalf("toDomain: %v", err)
	}
	if string(req.Image) != "hi" || req.MIMEType != "image/png" {
		t.Fatalf("image not decoded: %+v", req)
	}
	if req.Style != domain.StyleCorporate || req.Background != domain.DefaultBackground {
		t.Fatalf("enums not parsed: %q %q", req.Style, req.Background)
	}

	req, err = headshotRequest{ImageBase64: "aGk", MIMEType: "image/jpeg"}.toDomain()
	if err != nil || string(req.Image) != "hi" || req.MIMEType != "image/jpeg" {
		t.Fatalf("raw base64 not accepted: %+v %v", req, err)
	}

	if _, err := (headshotRequest{}).toDomain(); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHeadshotRequestKeepsCustomPromptVerbatim(t *testing.T) {
	custom := "  Remove my glasses\n\tand keep the beard "
	req, err := headshotRequest{Image: "data:image/png;base64,aGk=", CustomPrompt: custom}.toDomain()
	if err != nil {
		t.Fatalf("toDomain: %v", err)
	}
	if req.CustomText != custom {
		t.Fatalf("CustomText = %q, want %q", req.CustomText, custom)
	}
	if instruction := imagegen.BuildInstruction(req); !strings.Contains(instruction, custom) {
		t.Fatalf("instruction does not contain the custom prompt verbatim:\n%s", instruction)
	}
}
