package handlers

import (
	"net/http"

	"headshot/internal/domain"
	"headshot/internal/imagegen"
)

type stylesResponse struct {
	Styles            []imagegen.Preset `json:"styles"`
	Backgrounds       []imagegen.Preset `json:"backgrounds"`
	DefaultStyle      domain.Style      `json:"default_style"`
	DefaultBackground domain.Background `json:"default_background"`
}

// Styles lists the selectable presets for clients building a picker.
func (a *App) Styles(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, stylesResponse{
		Styles:            imagegen.StylePresets(),
		Backgrounds:       imagegen.BackgroundPresets(),
		DefaultStyle:      domain.DefaultStyle,
		DefaultBackground: domain.DefaultBackground,
	})
}
