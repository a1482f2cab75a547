package domain

import (
	"errors"
	"testing"
)

func TestPreferences_Validate(t *testing.T) {
	tests := []struct {
		name      string
		prefs     Preferences
		wantField string
	}{
		{name: "Defaults are valid", prefs: DefaultPreferences()},
		{
			name:      "Unknown theme",
			prefs:     Preferences{Theme: "neon", FontSize: "medium", LineHeight: "normal", ReadingWidth: "medium"},
			wantField: "theme",
		},
		{
			name:      "Unknown font size",
			prefs:     Preferences{Theme: "minimalist", FontSize: "huge", LineHeight: "normal", ReadingWidth: "medium"},
			wantField: "fontSize",
		},
		{
			name:      "Empty reading width",
			prefs:     Preferences{Theme: "minimalist", FontSize: "small", LineHeight: "relaxed"},
			wantField: "readingWidth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.prefs.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid preferences, got %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("expected field %s, got %s", tt.wantField, verr.Field)
			}
		})
	}
}

func TestPreferences_Merge(t *testing.T) {
	merged := DefaultPreferences().Merge(Preferences{FontSize: "large"})
	if merged.FontSize != "large" {
		t.Errorf("expected font size large, got %s", merged.FontSize)
	}
	if merged.Theme != "dark-academia" || merged.LineHeight != "normal" || merged.ReadingWidth != "medium" {
		t.Errorf("expected untouched fields to keep defaults, got %+v", merged)
	}
}

func TestParseTheme(t *testing.T) {
	theme, err := ParseTheme("")
	if err != nil || theme != ThemeCozyCabin {
		t.Fatalf("expected default cozy-cabin, got %q (%v)", theme, err)
	}

	theme, err = ParseTheme("midnight-library")
	if err != nil || theme != ThemeMidnightLibrary {
		t.Fatalf("expected midnight-library, got %q (%v)", theme, err)
	}

	if _, err := ParseTheme("sunny-beach"); err == nil {
		t.Fatal("expected error for unknown theme")
	}
}

func TestThemes_ReturnsCopy(t *testing.T) {
	list := Themes()
	if len(list) != 3 {
		t.Fatalf("expected 3 themes, got %d", len(list))
	}
	list[0].Name = "changed"
	if Themes()[0].Name != "Cozy Cabin" {
		t.Error("expected Themes to return an independent copy")
	}
}

func TestDocumentStatus(t *testing.T) {
	if StatusDraft.Toggled() != StatusPublished || StatusPublished.Toggled() != StatusDraft {
		t.Error("expected toggle to flip between draft and published")
	}
	if StatusArchived.Toggled() != StatusPublished {
		t.Error("expected archived to toggle to published")
	}
	if !StatusArchived.Valid() || DocumentStatus("deleted").Valid() {
		t.Error("unexpected status validity")
	}
	doc := &Document{Status: StatusPublished}
	if !doc.IsPublished() {
		t.Error("expected published document")
	}
	if (&Document{Status: StatusArchived}).IsPublished() {
		t.Error("expected archived document to be hidden")
	}
}

func TestHighlightColor_Valid(t *testing.T) {
	for _, c := range []HighlightColor{ColorYellow, ColorBlue, ColorGreen, ColorPink, ColorPurple} {
		if !c.Valid() {
			t.Errorf("expected %s to be valid", c)
		}
	}
	if HighlightColor("orange").Valid() {
		t.Error("expected orange to be invalid")
	}
}
