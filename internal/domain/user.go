package domain

import (
	"context"
	"time"
)

// User is a signed-in reader. Admin rights are derived from the configured
// admin email when the account is first created.
type User struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName"`
	PhotoURL    string      `json:"photoURL,omitempty"`
	IsAdmin     bool        `json:"isAdmin"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"createdAt"`
	LastLogin   time.Time   `json:"lastLogin"`
}

// Preferences represents a user's reading preferences
type Preferences struct {
	Theme        string `json:"theme"`
	FontSize     string `json:"fontSize"`
	LineHeight   string `json:"lineHeight"`
	ReadingWidth string `json:"readingWidth"`
}

var preferenceChoices = map[string][]string{
	"theme":        {"dark-academia", "pink-floral", "minimalist", "cozy-library"},
	"fontSize":     {"small", "medium", "large"},
	"lineHeight":   {"compact", "normal", "relaxed"},
	"readingWidth": {"narrow", "medium", "wide"},
}

// DefaultPreferences returns the preferences given to new accounts.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:        "dark-academia",
		FontSize:     "medium",
		LineHeight:   "normal",
		ReadingWidth: "medium",
	}
}

// Validate checks every field against its allowed values.
func (p Preferences) Validate() error {
	fields := map[string]string{
		"theme":        p.Theme,
		"fontSize":     p.FontSize,
		"lineHeight":   p.LineHeight,
		"readingWidth": p.ReadingWidth,
	}
	for field, value := range fields {
		if !contains(preferenceChoices[field], value) {
			return &ValidationError{Field: field, Message: "unsupported value " + value}
		}
	}
	return nil
}

// Merge returns p with every non-empty field of other applied.
func (p Preferences) Merge(other Preferences) Preferences {
	if other.Theme != "" {
		p.Theme = other.Theme
	}
	if other.FontSize != "" {
		p.FontSize = other.FontSize
	}
	if other.LineHeight != "" {
		p.LineHeight = other.LineHeight
	}
	if other.ReadingWidth != "" {
		p.ReadingWidth = other.ReadingWidth
	}
	return p
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	TouchLogin(ctx context.Context, id, displayName, photoURL string, at time.Time) error
	UpdatePreferences(ctx context.Context, id string, prefs Preferences) error
}

// PreferenceService defines the use-case operations for preferences.
type PreferenceService interface {
	GetPreferences(ctx context.Context, sess *Session) (*Preferences, error)
	UpdatePreferences(ctx context.Context, sess *Session, prefs Preferences) (*Preferences, error)
}
