package repository

import (
	"testing"
	"time"

	"book-sanctuary/internal/domain"
)

func TestCanonicalDocument_LegacyFirestoreShape(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	data := map[string]interface{}{
		"title":       "Walden",
		"pdfUrl":      "https://firebasestorage.googleapis.com/v0/b/b/o/books%2Fbook_1%2Fcontent.pdf",
		"authorId":    "admin-uid",
		"createdAt":   created,
		"isPublished": true,
		"metadata": map[string]interface{}{
			"originalFileName": "walden.pdf",
			"fileSize":         int64(2048),
		},
	}

	doc := CanonicalDocument("book_1", data)

	if doc.ID != "book_1" || doc.UploadedBy != "admin-uid" {
		t.Fatalf("unexpected identity fields: %+v", doc)
	}
	if !doc.UploadedAt.Equal(created) || !doc.UpdatedAt.Equal(created) {
		t.Fatalf("expected createdAt to fill uploadedAt and updatedAt, got %v / %v", doc.UploadedAt, doc.UpdatedAt)
	}
	if doc.FileSize != 2048 || doc.FileName != "walden.pdf" {
		t.Fatalf("expected metadata fallbacks, got size=%d name=%s", doc.FileSize, doc.FileName)
	}
	if doc.Status != domain.StatusPublished {
		t.Fatalf("expected published, got %s", doc.Status)
	}
}

func TestCanonicalDocument_SnakeCaseRow(t *testing.T) {
	data := map[string]interface{}{
		"id":          "doc-9",
		"title":       "Middlemarch",
		"pdf_url":     "https://example.supabase.co/storage/v1/object/public/books/books/doc-9/content.pdf",
		"uploaded_by": "admin-1",
		"uploaded_at": "2025-06-01T08:30:00.123456+00:00",
		"file_size":   float64(2097152),
		"file_name":   "middlemarch.pdf",
		"page_count":  float64(880),
		"status":      "draft",
	}

	doc := CanonicalDocument("", data)

	if doc.ID != "doc-9" || doc.PageCount != 880 || doc.FileSize != 2097152 {
		t.Fatalf("unexpected fields: %+v", doc)
	}
	if doc.UploadedAt.IsZero() || doc.UploadedAt.Hour() != 8 {
		t.Fatalf("expected parsed timestamp, got %v", doc.UploadedAt)
	}
	if doc.Status != domain.StatusDraft {
		t.Fatalf("expected draft, got %s", doc.Status)
	}
}

func TestCanonicalDocument_Defaults(t *testing.T) {
	doc := CanonicalDocument("x", map[string]interface{}{})
	if doc.Title != "Untitled" || doc.FileName != "Unknown" || doc.Status != domain.StatusPublished {
		t.Fatalf("unexpected defaults: %+v", doc)
	}

	hidden := CanonicalDocument("y", map[string]interface{}{"isPublished": false})
	if hidden.Status != domain.StatusDraft {
		t.Fatalf("expected isPublished=false to map to draft, got %s", hidden.Status)
	}

	explicit := CanonicalDocument("z", map[string]interface{}{"status": "archived", "isPublished": true})
	if explicit.Status != domain.StatusArchived {
		t.Fatalf("expected explicit status to win, got %s", explicit.Status)
	}
}

func TestDocumentFields_RoundTrip(t *testing.T) {
	at := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	doc := &domain.Document{
		ID: "d1", Title: "Emma", PDFURL: "https://x/y.pdf", UploadedBy: "u1",
		UploadedAt: at, UpdatedAt: at, FileSize: 10, FileName: "emma.pdf", PageCount: 3,
		Status: domain.StatusDraft,
	}
	fields := documentFields(doc)
	if fields["isPublished"] != false || fields["createdAt"] != at {
		t.Fatalf("expected legacy mirrors, got %v", fields)
	}
	if got := CanonicalDocument("d1", fields); *got != *doc {
		t.Fatalf("expected %+v, got %+v", doc, got)
	}
}

func TestCanonicalBookmarkAndUser(t *testing.T) {
	bm := CanonicalBookmark("u1", "walden", map[string]interface{}{
		"currentPage": int64(5), "totalPages": int64(20), "bookTitle": "X",
		"lastRead": float64(1700000000000),
	})
	if bm.CurrentPage != 5 || bm.TotalPages != 20 || bm.DocumentTitle != "X" || bm.LastRead.Year() != 2023 {
		t.Fatalf("unexpected bookmark: %+v", bm)
	}

	user := CanonicalUser("", map[string]interface{}{
		"uid": "u1", "email": "a@example.com", "isAdmin": true,
		"preferences": map[string]interface{}{"theme": "minimalist", "fontSize": "large"},
	})
	if user.ID != "u1" || !user.IsAdmin || user.Preferences.Theme != "minimalist" || user.Preferences.FontSize != "large" {
		t.Fatalf("unexpected user: %+v", user)
	}
}
