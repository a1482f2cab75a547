package domain

import "context"

// Chapter is a text section of a document.
type Chapter struct {
	ID                string `json:"id"`
	DocumentID        string `json:"bookId"`
	Number            int    `json:"chapterNumber"`
	Title             string `json:"title"`
	Content           string `json:"content"`
	WordCount         int    `json:"wordCount"`
	EstimatedReadTime int    `json:"estimatedReadTime"`
}

// ChapterUpdate holds the editable fields of a chapter.
type ChapterUpdate struct {
	Number  *int    `json:"chapterNumber,omitempty"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// ChapterRepository defines persistence operations for chapters.
type ChapterRepository interface {
	// ListByDocument returns chapters ordered by chapter number.
	ListByDocument(ctx context.Context, documentID string) ([]*Chapter, error)
	GetByID(ctx context.Context, id string) (*Chapter, error)
	Create(ctx context.Context, chapter *Chapter) error
	Update(ctx context.Context, chapter *Chapter) error
	Delete(ctx context.Context, id string) error
}

// ChapterService defines the use-case operations for chapters.
type ChapterService interface {
	List(ctx context.Context, sess *Session, documentID string) ([]*Chapter, error)
	Get(ctx context.Context, sess *Session, id string) (*Chapter, error)
	Create(ctx context.Context, sess *Session, chapter *Chapter) (*Chapter, error)
	Update(ctx context.Context, sess *Session, id string, update *ChapterUpdate) (*Chapter, error)
	Delete(ctx context.Context, sess *Session, id string) error
}
