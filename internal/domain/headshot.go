package domain

import (
	"encoding/base64"
	"strings"

	"golang.org/x/text/cases"
)

// Style enumerates the clothing presets a headshot can be rendered with.
type Style string

const (
	StyleCorporate  Style = "corporate"
	StyleStartup    Style = "startup"
	StyleMinimalist Style = "minimalist"
	StyleCreative   Style = "creative"
)

// Background enumerates the backdrop presets.
type Background string

const (
	BackgroundOffice   Background = "office"
	BackgroundStudio   Background = "studio"
	BackgroundBokeh    Background = "bokeh"
	BackgroundGradient Background = "gradient"
)

const (
	DefaultStyle      = StyleStartup
	DefaultBackground = BackgroundOffice

	// DefaultImageMIMEType is reported when the provider omits the mime type
	// of a generated image.
	DefaultImageMIMEType = "image/jpeg"
)

// Styles lists the presets in display order.
var Styles = []Style{StyleStartup, StyleCorporate, StyleMinimalist, StyleCreative}

// Backgrounds lists the backdrops in display order.
var Backgrounds = []Background{BackgroundOffice, BackgroundStudio, BackgroundBokeh, BackgroundGradient}

// ParseStyle case-folds free-form input into a Style. Unknown values are
// kept as-is so the composer can apply its generic fallback clause.
func ParseStyle(v string) Style {
	v = strings.TrimSpace(v)
	if v == "" {
		return DefaultStyle
	}
	folded := cases.Fold().String(v)
	for _, s := range Styles {
		if string(s) == folded {
			return s
		}
	}
	return Style(v)
}

// ParseBackground is the Background counterpart of ParseStyle.
func ParseBackground(v string) Background {
	v = strings.TrimSpace(v)
	if v == "" {
		return DefaultBackground
	}
	folded := cases.Fold().String(v)
	for _, b := range Backgrounds {
		if string(b) == folded {
			return b
		}
	}
	return Background(v)
}

// Known reports whether s is one of the four presets.
func (s Style) Known() bool {
	for _, known := range Styles {
		if s == known {
			return true
		}
	}
	return false
}

// Known reports whether b is one of the four presets.
func (b Background) Known() bool {
	for _, known := range Backgrounds {
		if b == known {
			return true
		}
	}
	return false
}

// GenerationRequest is built fresh for every user action and discarded after
// the call.
type GenerationRequest struct {
	Image      []byte
	MIMEType   string
	Style      Style
	Background Background
	CustomText string
}

// ImageResult is the unwrapped output of a successful image edit.
type ImageResult struct {
	Data     []byte
	MIMEType string
}

// Base64 returns the standard base64 encoding of the image bytes.
func (r *ImageResult) Base64() string {
	return base64.StdEncoding.EncodeToString(r.Data)
}

// DataURL renders the result as a data: URL suitable for an <img> tag.
func (r *ImageResult) DataURL() string {
	return "data:" + r.mimeType() + ";base64," + r.Base64()
}

// Extension derives a file extension from the mime type, defaulting to jpg.
func (r *ImageResult) Extension() string {
	_, sub, ok := strings.Cut(r.mimeType(), "/")
	if !ok || sub == "" {
		return "jpg"
	}
	sub, _, _ = strings.Cut(sub, ";")
	switch sub {
	case "jpeg", "pjpeg":
		return "jpg"
	case "svg+xml":
		return "svg"
	}
	return sub
}

func (r *ImageResult) mimeType() string {
	if r.MIMEType == "" {
		return DefaultImageMIMEType
	}
	return r.MIMEType
}
