package domain

import (
	"context"
	"image"
)

// RenderOptions controls how a page is rasterized and themed.
type RenderOptions struct {
	Theme          Theme
	Vintage        bool
	ContainerWidth int
	Seed           uint64
}

// OpenReaderRequest starts a reading session.
type OpenReaderRequest struct {
	DocumentID     string `json:"documentId"`
	Theme          Theme  `json:"theme"`
	Vintage        *bool  `json:"vintage,omitempty"`
	ContainerWidth int    `json:"containerWidth"`
}

// ReaderState is a snapshot of a reading session.
type ReaderState struct {
	SessionID     string `json:"sessionId"`
	DocumentID    string `json:"documentId"`
	DocumentTitle string `json:"title"`
	Page          int    `json:"page"`
	TotalPages    int    `json:"totalPages"`
	Theme         Theme  `json:"theme"`
	Vintage       bool   `json:"vintage"`
	Bookmarked    bool   `json:"bookmarked"`
	// Changed is false when a navigation request was a no-op.
	Changed bool `json:"changed"`
}

// ReaderService manages server-side reading sessions.
type ReaderService interface {
	Open(ctx context.Context, sess *Session, req *OpenReaderRequest) (*ReaderState, error)
	State(sess *Session, id string) (*ReaderState, error)
	Next(sess *Session, id string) (*ReaderState, error)
	Prev(sess *Session, id string) (*ReaderState, error)
	Goto(sess *Session, id string, page int) (*ReaderState, error)
	SetTheme(sess *Session, id string, theme Theme, vintage bool) (*ReaderState, error)
	Frame(ctx context.Context, sess *Session, id string) (image.Image, error)
	SaveBookmark(ctx context.Context, sess *Session, id string) (*Bookmark, error)
	Close(sess *Session, id string) error
}

// PageRenderer renders a single page without a session.
type PageRenderer interface {
	RenderPage(ctx context.Context, sess *Session, documentID string, page int, opts RenderOptions) (image.Image, error)
}
