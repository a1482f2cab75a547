package domain

import (
	"context"
	"time"
)

// HighlightColor is one of the fixed marker colors.
type HighlightColor string

const (
	ColorYellow HighlightColor = "yellow"
	ColorBlue   HighlightColor = "blue"
	ColorGreen  HighlightColor = "green"
	ColorPink   HighlightColor = "pink"
	ColorPurple HighlightColor = "purple"
)

func (c HighlightColor) Valid() bool {
	switch c {
	case ColorYellow, ColorBlue, ColorGreen, ColorPink, ColorPurple:
		return true
	}
	return false
}

// Highlight represents a user's marked passage in a chapter.
type Highlight struct {
	ID           string         `json:"id"`
	UserID       string         `json:"userId"`
	DocumentID   string         `json:"bookId"`
	ChapterID    string         `json:"chapterId"`
	StartOffset  int            `json:"startOffset"`
	EndOffset    int            `json:"endOffset"`
	SelectedText string         `json:"selectedText"`
	Color        HighlightColor `json:"color"`
	Note         string         `json:"note,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// HighlightUpdate holds the editable fields of a highlight.
type HighlightUpdate struct {
	Note  *string         `json:"note,omitempty"`
	Color *HighlightColor `json:"color,omitempty"`
}

// HighlightRepository defines persistence operations for highlights.
type HighlightRepository interface {
	Create(ctx context.Context, highlight *Highlight) error
	GetByID(ctx context.Context, id string) (*Highlight, error)
	// ListByDocument returns a user's highlights for a document, oldest first.
	ListByDocument(ctx context.Context, userID, documentID string) ([]*Highlight, error)
	Update(ctx context.Context, highlight *Highlight) error
	Delete(ctx context.Context, id string) error
}

// HighlightService defines the use-case operations for highlights.
type HighlightService interface {
	Create(ctx context.Context, sess *Session, highlight *Highlight) (*Highlight, error)
	List(ctx context.Context, sess *Session, documentID string) ([]*Highlight, error)
	Update(ctx context.Context, sess *Session, id string, update *HighlightUpdate) (*Highlight, error)
	Delete(ctx context.Context, sess *Session, id string) error
}
