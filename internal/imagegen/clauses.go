package imagegen

import "headshot/internal/domain"

const (
	fallbackClothingClause   = "wearing professional business attire."
	fallbackBackgroundClause = "a professional blurred background."
)

// ClothingClause renders the attire fragment for a style. Unrecognised
// styles get a generic business attire clause.
func ClothingClause(style domain.Style) string {
	switch style {
	case domain.StyleCorporate:
		return "wearing a high-quality, tailored navy blue business suit with a crisp white dress shirt and a silk tie. The look should be powerful, executive, and extremely professional."
	case domain.StyleStartup:
		return "wearing a smart-casual ensemble, such as a high-end grey blazer over a quality charcoal t-shirt or a fitted polo. The look should be 'Tech Lead' or 'Founder' style - approachable but sharp."
	case domain.StyleMinimalist:
		return "wearing a solid black high-quality turtleneck or a premium fitted plain t-shirt. Similar to modern Silicon Valley aesthetics. Clean, minimal, focus on the face."
	case domain.StyleCreative:
		return "wearing a stylish, layered outfit. Maybe a denim shirt under a knit sweater, or a textured jacket. Professional but showing personality and artistic flair."
	default:
		return fallbackClothingClause
	}
}

// BackgroundClause renders the backdrop fragment for a background preset.
func BackgroundClause(bg domain.Background) string {
	switch bg {
	case domain.BackgroundOffice:
		return "a blurred, modern open-plan tech office in the background with glass walls and soft lighting."
	case domain.BackgroundStudio:
		return "a dark, professional studio background with rim lighting highlighting the subject."
	case domain.BackgroundBokeh:
		return "a blurred city street background with beautiful bokeh lights, looking like a high-end editorial shot."
	case domain.BackgroundGradient:
		return "a clean, soft neutral grey or blue gradient background, perfect for a standard LinkedIn profile."
	default:
		return fallbackBackgroundClause
	}
}

// Preset describes one selectable option for UIs.
type Preset struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Clause      string `json:"clause"`
}

var styleLabels = map[domain.Style][2]string{
	domain.StyleStartup:    {"Tech Lead", "Smart casual, polo or blazer."},
	domain.StyleCorporate:  {"Executive", "Full suit and tie, formal."},
	domain.StyleMinimalist: {"Minimalist", "Solid colors, clean lines."},
	domain.StyleCreative:   {"Creative", "Stylish, modern layered look."},
}

var backgroundLabels = map[domain.Background]string{
	domain.BackgroundOffice:   "Modern Office",
	domain.BackgroundStudio:   "Dark Studio",
	domain.BackgroundBokeh:    "City Bokeh",
	domain.BackgroundGradient: "Soft Gradient",
}

// StylePresets lists the clothing presets in display order.
func StylePresets() []Preset {
	out := make([]Preset, 0, len(domain.Styles))
	for _, s := range domain.Styles {
		label := styleLabels[s]
		out = append(out, Preset{ID: string(s), Label: label[0], Description: label[1], Clause: ClothingClause(s)})
	}
	return out
}

// BackgroundPresets lists the backdrop presets in display order.
func BackgroundPresets() []Preset {
	out := make([]Preset, 0, len(domain.Backgrounds))
	for _, b := range domain.Backgrounds {
		out = append(out, Preset{ID: string(b), Label: backgroundLabels[b], Clause: BackgroundClause(b)})
	}
	return out
}
