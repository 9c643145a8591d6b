package handlers

import (
	"net/http"
	"strings"

	"headshot/internal/domain"
	"headshot/internal/imagegen"
)

type headshotRequest struct {
	// Image is a data URL, as produced by FileReader.readAsDataURL.
	Image        string `json:"image"`
	ImageBase64  string `json:"image_base64"`
	MIMEType     string `json:"mime_type"`
	Style        string `json:"style"`
	Background   string `json:"background"`
	CustomPrompt string `json:"custom_prompt"`
}

type headshotResponse struct {
	Status   domain.Status `json:"status"`
	MIMEType string        `json:"mime_type,omitempty"`
	Data     string        `json:"data,omitempty"`
	DataURL  string        `json:"data_url,omitempty"`
	Error    *errorBody    `json:"error,omitempty"`
}

func (a *App) CreateHeadshot(w http.ResponseWriter, r *http.Request) {
	var body headshotRequest
	if err := a.decode(w, r, &body); err != nil {
		a.headshotError(w, r, err)
		return
	}

	req, err := body.toDomain()
	if err != nil {
		a.headshotError(w, r, err)
		return
	}

	res, err := a.Service.GenerateHeadshot(r.Context(), req)
	if err != nil {
		a.headshotError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, headshotResponse{
		Status:   domain.StatusCompleted,
		MIMEType: res.MIMEType,
		Data:     res.Base64(),
		DataURL:  res.DataURL(),
	})
}

func (b headshotRequest) toDomain() (domain.GenerationRequest, error) {
	req := domain.GenerationRequest{
		MIMEType:   b.MIMEType,
		Style:      domain.ParseStyle(b.Style),
		Background: domain.ParseBackground(b.Background),
		CustomText: b.CustomPrompt,
	}
	switch {
	case strings.TrimSpace(b.Image) != "":
		mimeType, data, err := imagegen.ParseDataURL(b.Image)
		if err != nil {
			return req, err
		}
		req.Image, req.MIMEType = data, mimeType
	case strings.TrimSpace(b.ImageBase64) != "":
		data, err := imagegen.DecodeBase64(b.ImageBase64)
		if err != nil {
			return req, err
		}
		req.Image = data
	default:
		return req, domain.NewValidationError("image is required")
	}
	return req, nil
}

func (a *App) headshotError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	logFailure(r, err, status)
	a.json(w, status, headshotResponse{
		Status: domain.StatusError,
		Error:  &errorBody{Code: code, Message: errorMessage(err, status)},
	})
}
