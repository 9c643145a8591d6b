package imagegen

import (
	"strings"
	"testing"

	"headshot/internal/domain"
)

func TestBuildInstruction(t *testing.T) {
	req := domain.GenerationRequest{
		Style:      domain.StyleCorporate,
		Background: domain.BackgroundStudio,
		CustomText: "Remove my glasses",
	}

	got := BuildInstruction(req)

	checks := []string{
		"expert photo editor",
		"These MUST be preserved",
		"tailored navy blue business suit",
		"dark, professional studio background",
		"User Specific Instructions",
		customOpenTag + "\nRemove my glasses\n" + customCloseTag,
		"photorealistic",
		"Head and shoulders shot. Center the subject.",
		"Professional studio lighting",
		"Do not distort the face.",
	}
	for _, expect := range checks {
		if !strings.Contains(got, expect) {
			t.Fatalf("instruction missing %q: %s", expect, got)
		}
	}
}

func TestBuildInstructionWithoutCustomText(t *testing.T) {
	for _, custom := range []string{"", "   "} {
		got := BuildInstruction(domain.GenerationRequest{Style: domain.StyleStartup, Background: domain.BackgroundOffice, CustomText: custom})
		if strings.Contains(got, "User Specific Instructions") || strings.Contains(got, customOpenTag) {
			t.Fatalf("unexpected custom block for %q: %s", custom, got)
		}
	}
}

func TestClausesCoverEveryPreset(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range domain.Styles {
		clause := ClothingClause(s)
		if clause == fallbackClothingClause || clause == "" {
			t.Fatalf("style %q uses fallback clause", s)
		}
		if seen[clause] {
			t.Fatalf("style %q shares a clause", s)
		}
		seen[clause] = true
	}
	for _, b := range domain.Backgrounds {
		clause := BackgroundClause(b)
		if clause == fallbackBackgroundClause || clause == "" {
			t.Fatalf("background %q uses fallback clause", b)
		}
		if seen[clause] {
			t.Fatalf("background %q shares a clause", b)
		}
		seen[clause] = true
	}
}

func TestClausesFallBackForUnknownValues(t *testing.T) {
	if got := ClothingClause("punk"); got != fallbackClothingClause {
		t.Fatalf("ClothingClause(punk) = %q", got)
	}
	if got := BackgroundClause(""); got != fallbackBackgroundClause {
		t.Fatalf("BackgroundClause(empty) = %q", got)
	}
	got := BuildInstruction(domain.GenerationRequest{Style: "punk", Background: "moon"})
	if !strings.Contains(got, "professional business attire") || !strings.Contains(got, "professional blurred background") {
		t.Fatalf("fallback clauses missing: %s", got)
	}
}

func TestPresetsFollowDisplayOrder(t *testing.T) {
	styles := StylePresets()
	if len(styles) != 4 || styles[0].ID != "startup" || styles[0].Label != "Tech Lead" {
		t.Fatalf("unexpected style presets: %+v", styles)
	}
	backgrounds := BackgroundPresets()
	if len(backgrounds) != 4 || backgrounds[3].Label != "Soft Gradient" {
		t.Fatalf("unexpected background presets: %+v", backgrounds)
	}
}
