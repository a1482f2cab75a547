package domain

import (
	"context"
	"io"
	"time"
)

// DocumentStatus is the publication state of a document.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "draft"
	StatusPublished DocumentStatus = "published"
	StatusArchived  DocumentStatus = "archived"
)

// Valid reports whether s is a known status.
func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Toggled flips between published and draft. Archived documents toggle to published.
func (s DocumentStatus) Toggled() DocumentStatus {
	if s == StatusPublished {
		return StatusDraft
	}
	return StatusPublished
}

// Document is a published or draft PDF book.
type Document struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	PDFURL      string         `json:"pdfUrl"`
	PDFPath     string         `json:"pdfPath,omitempty"`
	CoverURL    string         `json:"coverUrl,omitempty"`
	CoverPath   string         `json:"coverPath,omitempty"`
	UploadedBy  string         `json:"uploadedBy"`
	UploadedAt  time.Time      `json:"uploadedAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	FileSize    int64          `json:"fileSize"`
	FileName    string         `json:"fileName"`
	PageCount   int            `json:"pageCount,omitempty"`
	Status      DocumentStatus `json:"status"`
}

// IsPublished reports whether the document is visible in the public gallery.
func (d *Document) IsPublished() bool {
	return d.Status == StatusPublished
}

// UploadInput carries a new document and its optional cover.
type UploadInput struct {
	Title       string
	Description string
	FileName    string
	Content     io.Reader

	CoverName        string
	CoverContentType string
	Cover            io.Reader
}

// DocumentUpdate holds the editable metadata fields. Nil fields are left unchanged.
type DocumentUpdate struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Status      *DocumentStatus `json:"status,omitempty"`
}

// DocumentRepository defines persistence operations for documents.
type DocumentRepository interface {
	// List returns every document, newest first.
	List(ctx context.Context) ([]*Document, error)
	GetByID(ctx context.Context, id string) (*Document, error)
	Create(ctx context.Context, document *Document) error
	Update(ctx context.Context, document *Document) error
	Delete(ctx context.Context, id string) error
}

// DocumentService defines the use-case operations for documents.
type DocumentService interface {
	ListPublished(ctx context.Context) ([]*Document, error)
	ListAll(ctx context.Context, sess *Session) ([]*Document, error)
	Get(ctx context.Context, sess *Session, id string) (*Document, error)
	Upload(ctx context.Context, sess *Session, input *UploadInput) (*Document, error)
	UpdateMetadata(ctx context.Context, sess *Session, id string, update *DocumentUpdate) (*Document, error)
	SetStatus(ctx context.Context, sess *Session, id string, status DocumentStatus) (*Document, error)
	ToggleStatus(ctx context.Context, sess *Session, id string) (*Document, error)
	Delete(ctx context.Context, sess *Session, id string) error
	OpenContent(ctx context.Context, sess *Session, id string) (*Document, []byte, error)
}
