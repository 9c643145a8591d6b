package imagegen

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"headshot/internal/domain"
)

const (
	// MaxImageBytes is the upload ceiling enforced before dispatch.
	MaxImageBytes = 5 << 20
	// MaxCustomTextRunes caps the free-text adjustment field.
	MaxCustomTextRunes = 500
)

var supportedMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

// ValidateSource checks an uploaded selfie and returns the mime type that
// should be sent upstream. An empty mimeType is filled from content sniffing.
func ValidateSource(data []byte, mimeType string, maxBytes int) (string, error) {
	if maxBytes <= 0 {
		maxBytes = MaxImageBytes
	}
	if len(data) == 0 {
		return "", domain.NewValidationError("image is required")
	}
	if len(data) > maxBytes {
		return "", domain.NewValidationError("image is %d bytes, max is %d", len(data), maxBytes)
	}

	detected := http.DetectContentType(data)
	declared := normalizeMIME(mimeType)
	if declared == "" {
		declared = detected
	}
	if _, ok := supportedMIMETypes[declared]; !ok {
		return "", domain.NewValidationError("unsupported image type %q, use JPG or PNG", declared)
	}
	if detected != declared {
		return "", domain.NewValidationError("image content is %s but was declared as %s", detected, declared)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", domain.NewValidationError("image cannot be decoded: %v", err)
	}
	return declared, nil
}

// ValidateCustomText enforces the limits on user supplied adjustments so the
// text can be embedded verbatim in the instruction.
func ValidateCustomText(text string, maxRunes int) error {
	if maxRunes <= 0 {
		maxRunes = MaxCustomTextRunes
	}
	if !utf8.ValidString(text) {
		return domain.NewValidationError("custom prompt is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(text); n > maxRunes {
		return domain.NewValidationError("custom prompt is %d characters, max is %d", n, maxRunes)
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, customOpenTag) || strings.Contains(lower, customCloseTag) {
		return domain.NewValidationError("custom prompt must not contain %s or %s", customOpenTag, customCloseTag)
	}
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return domain.NewValidationError("custom prompt contains control characters")
		}
	}
	return nil
}

// ParseDataURL splits a base64 data: URL into its mime type and bytes.
func ParseDataURL(raw string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(raw), "data:")
	if !ok {
		return "", nil, domain.NewValidationError("invalid image format: expected a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || payload == "" {
		return "", nil, domain.NewValidationError("invalid image format: empty data URL")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok || mimeType == "" {
		return "", nil, domain.NewValidationError("invalid image format: data URL must be base64 encoded")
	}
	data, err := DecodeBase64(payload)
	if err != nil {
		return "", nil, err
	}
	return normalizeMIME(mimeType), data, nil
}

// DecodeBase64 accepts standard or URL-safe base64, padded or not.
func DecodeBase64(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if data, err := enc.DecodeString(payload); err == nil {
			return data, nil
		}
	}
	return nil, domain.NewValidationError("image is not valid base64")
}

func normalizeMIME(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	v, _, _ = strings.Cut(v, ";")
	if v == "image/jpg" {
		return "image/jpeg"
	}
	return v
}
