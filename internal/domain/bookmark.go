package domain

import (
	"context"
	"time"
)

// Bookmark is the saved reading position of one user in one document.
// There is at most one per (UserID, DocumentID).
type Bookmark struct {
	UserID        string    `json:"userId"`
	DocumentID    string    `json:"bookId"`
	CurrentPage   int       `json:"currentPage"`
	TotalPages    int       `json:"totalPages"`
	LastRead      time.Time `json:"lastRead"`
	DocumentTitle string    `json:"bookTitle"`
}

// BookmarkRepository defines persistence operations for bookmarks.
type BookmarkRepository interface {
	Get(ctx context.Context, userID, documentID string) (*Bookmark, error)
	// Put overwrites any existing bookmark for the same user and document.
	Put(ctx context.Context, bookmark *Bookmark) error
	ListByUser(ctx context.Context, userID string) ([]*Bookmark, error)
	Delete(ctx context.Context, userID, documentID string) error
}

// BookmarkService defines the use-case operations for bookmarks.
type BookmarkService interface {
	Load(ctx context.Context, sess *Session, documentID string) (*Bookmark, error)
	Save(ctx context.Context, sess *Session, documentID string, page, totalPages int, title string) (*Bookmark, error)
	List(ctx context.Context, sess *Session) ([]*Bookmark, error)
	Delete(ctx context.Context, sess *Session, documentID string) error
}
