package domain

import "fmt"

// Theme is a reading atmosphere applied to rendered pages.
type Theme string

const (
	ThemeCozyCabin       Theme = "cozy-cabin"
	ThemeMidnightLibrary Theme = "midnight-library"
	ThemeRainyDay        Theme = "rainy-day"
)

// DefaultTheme is used when a reader does not pick one.
const DefaultTheme = ThemeCozyCabin

// ThemeInfo describes a theme for selection screens.
type ThemeInfo struct {
	ID          Theme  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var themes = []ThemeInfo{
	{ID: ThemeCozyCabin, Name: "Cozy Cabin", Description: "Warm fireplace with gentle snowfall"},
	{ID: ThemeMidnightLibrary, Name: "Midnight Library", Description: "Dark academia with candlelight"},
	{ID: ThemeRainyDay, Name: "Rainy Day", Description: "Cozy indoors with rain on windows"},
}

// Themes lists the available themes in display order.
func Themes() []ThemeInfo {
	out := make([]ThemeInfo, len(themes))
	copy(out, themes)
	return out
}

// ParseTheme validates s. The empty string selects DefaultTheme.
func ParseTheme(s string) (Theme, error) {
	if s == "" {
		return DefaultTheme, nil
	}
	for _, info := range themes {
		if string(info.ID) == s {
			return info.ID, nil
		}
	}
	return "", &ValidationError{Field: "theme", Message: fmt.Sprintf("unknown theme %q", s)}
}
