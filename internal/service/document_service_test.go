package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"book-sanctuary/internal/domain"
	apperrors "book-sanctuary/pkg/errors"
)

var (
	adminSession  = &domain.Session{UserID: "admin-1", Email: "librarian@example.com", IsAdmin: true}
	readerSession = &domain.Session{UserID: "reader-1", Email: "reader@example.com"}
)

func newTestDocumentService() (*DocumentService, *MockDocumentRepository, *MockObjectStore) {
	repo := NewMockDocumentRepository()
	store := NewMockObjectStore()
	svc := NewDocumentService(repo, store, &MockFetcher{}, &MockInspector{pages: 12}, 50*1024*1024, 5*1024*1024, NewMockLogger())
	return svc, repo, store
}

func TestDocumentService_UploadThenListPublished(t *testing.T) {
	svc, _, store := newTestDocumentService()
	ctx := context.Background()

	content := bytes.Repeat([]byte{'x'}, 2*1024*1024)
	doc, err := svc.Upload(ctx, adminSession, &domain.UploadInput{
		Title:            "  The Secret Garden ",
		FileName:         "garden.pdf",
		Content:          bytes.NewReader(content),
		CoverName:        "Cover.PNG",
		CoverContentType: "image/png",
		Cover:            strings.NewReader("png-bytes"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if doc.Title != "The Secret Garden" || doc.FileSize != 2097152 || doc.PageCount != 12 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.UploadedBy != "admin-1" || doc.Status != domain.StatusPublished {
		t.Fatalf("expected published document uploaded by admin-1, got %+v", doc)
	}
	if doc.PDFPath != "books/"+doc.ID+"/content.pdf" || doc.CoverPath != "books/"+doc.ID+"/cover.png" {
		t.Fatalf("unexpected object paths: %s, %s", doc.PDFPath, doc.CoverPath)
	}
	if !store.has(doc.PDFPath) || !store.has(doc.CoverPath) {
		t.Fatal("expected both binaries stored")
	}

	published, err := svc.ListPublished(ctx)
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(published) != 1 || published[0].ID != doc.ID || published[0].FileSize != 2097152 {
		t.Fatalf("expected uploaded document in gallery, got %+v", published)
	}
}

func TestDocumentService_UploadValidation(t *testing.T) {
	svc, repo, store := newTestDocumentService()
	ctx := context.Background()

	_, err := svc.Upload(ctx, readerSession, &domain.UploadInput{Title: "x", Content: strings.NewReader("%PDF-")})
	if !apperrors.IsType(err, apperrors.ErrorTypeForbidden) {
		t.Fatalf("expected forbidden for non-admin, got %v", err)
	}

	_, err = svc.Upload(ctx, adminSession, &domain.UploadInput{Title: "   ", Content: strings.NewReader("%PDF-")})
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error for blank title, got %v", err)
	}

	svc.maxFileSize = 10
	_, err = svc.Upload(ctx, adminSession, &domain.UploadInput{Title: "Big", Content: strings.NewReader("01234567890")})
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error for oversize file, got %v", err)
	}
	svc.maxFileSize = 1024

	_, err = svc.Upload(ctx, adminSession, &domain.UploadInput{
		Title: "Cover", Content: strings.NewReader("%PDF-"), Cover: strings.NewReader("x"), CoverContentType: "text/plain",
	})
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error for non-image cover, got %v", err)
	}

	svc.inspector = &MockInspector{err: domain.ErrDocumentEncrypted}
	_, err = svc.Upload(ctx, adminSession, &domain.UploadInput{Title: "Locked", Content: strings.NewReader("%PDF-")})
	if !apperrors.IsType(err, apperrors.ErrorTypeFormat) || !errors.Is(err, domain.ErrDocumentEncrypted) {
		t.Fatalf("expected format error for encrypted PDF, got %v", err)
	}
	appErr, _ := apperrors.As(err)
	if appErr.Message != "PDF is password protected" || appErr.Retryable() {
		t.Fatalf("unexpected format error: %+v", appErr)
	}

	docs, _ := repo.List(ctx)
	if len(docs) != 0 || len(store.objects) != 0 {
		t.Fatalf("expected nothing stored after rejected uploads, got %d docs %d objects", len(docs), len(store.objects))
	}
}

func TestDocumentService_UploadCleansUpWhenRecordFails(t *testing.T) {
	svc, repo, store := newTestDocumentService()
	repo.createErr = errors.New("firestore unavailable")

	_, err := svc.Upload(context.Background(), adminSession, &domain.UploadInput{
		Title: "Orphan", Content: strings.NewReader("%PDF-1.7"), Cover: strings.NewReader("jpg"), CoverContentType: "image/jpeg",
	})
	if err == nil {
		t.Fatal("expected error when the record cannot be written")
	}
	if len(store.objects) != 0 {
		t.Fatalf("expected uploaded binaries to be removed, found %d", len(store.objects))
	}
	if len(store.deleted) != 2 {
		t.Fatalf("expected 2 cleanup deletes, got %v", store.deleted)
	}
}

func TestDocumentService_DraftsHiddenFromReaders(t *testing.T) {
	svc, repo, _ := newTestDocumentService()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	repo.Create(ctx, &domain.Document{ID: "a", Title: "Older", Status: domain.StatusPublished, UploadedAt: base})
	repo.Create(ctx, &domain.Document{ID: "b", Title: "Draft", Status: domain.StatusDraft, UploadedAt: base.Add(time.Hour)})
	repo.Create(ctx, &domain.Document{ID: "c", Title: "Newer", Status: domain.StatusPublished, UploadedAt: base.Add(2 * time.Hour)})

	published, _ := svc.ListPublished(ctx)
	if len(published) != 2 || published[0].ID != "c" || published[1].ID != "a" {
		t.Fatalf("expected published documents newest first, got %+v", published)
	}

	all, err := svc.ListAll(ctx, adminSession)
	if err != nil || len(all) != 3 || all[0].ID != "c" {
		t.Fatalf("expected all documents for admin, got %+v (%v)", all, err)
	}
	if _, err := svc.ListAll(ctx, readerSession); !apperrors.IsType(err, apperrors.ErrorTypeForbidden) {
		t.Fatalf("expected forbidden for reader, got %v", err)
	}

	if _, err := svc.Get(ctx, readerSession, "b"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected draft hidden from reader, got %v", err)
	}
	if _, err := svc.Get(ctx, adminSession, "b"); err != nil {
		t.Fatalf("expected admin to see draft, got %v", err)
	}
}

func TestDocumentService_ToggleStatus(t *testing.T) {
	svc, repo, _ := newTestDocumentService()
	ctx := context.Background()
	repo.Create(ctx, &domain.Document{ID: "a", Title: "Walden", Status: domain.StatusPublished})

	doc, err := svc.ToggleStatus(ctx, adminSession, "a")
	if err != nil || doc.Status != domain.StatusDraft {
		t.Fatalf("expected draft after toggle, got %+v (%v)", doc, err)
	}
	doc, _ = svc.ToggleStatus(ctx, adminSession, "a")
	if doc.Status != domain.StatusPublished {
		t.Fatalf("expected published after second toggle, got %s", doc.Status)
	}

	bad := domain.DocumentStatus("archived")
	if _, err := svc.UpdateMetadata(ctx, adminSession, "a", &domain.DocumentUpdate{Status: &bad}); !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}

	title := "Walden; or, Life in the Woods"
	doc, err = svc.UpdateMetadata(ctx, adminSession, "a", &domain.DocumentUpdate{Title: &title})
	if err != nil || doc.Title != title {
		t.Fatalf("expected updated title, got %+v (%v)", doc, err)
	}
}

func TestDocumentService_DeleteWithMissingCover(t *testing.T) {
	svc, repo, store := newTestDocumentService()
	ctx := context.Background()

	store.Put(ctx, "books/a/content.pdf", strings.NewReader("%PDF-"), "application/pdf")
	repo.Create(ctx, &domain.Document{
		ID:        "a",
		Title:     "Walden",
		PDFURL:    "https://objects.test/books/a/content.pdf",
		CoverURL:  "https://objects.test/books/a/cover.jpg",
		CoverPath: "books/a/cover.jpg",
		Status:    domain.StatusPublished,
	})

	if err := svc.Delete(ctx, adminSession, "a"); err != nil {
		t.Fatalf("expected delete to succeed with missing cover, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "a"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected record removed, got %v", err)
	}
	if store.has("books/a/content.pdf") {
		t.Fatal("expected PDF binary removed")
	}
	if len(store.deleted) != 2 {
		t.Fatalf("expected delete attempts for pdf and cover, got %v", store.deleted)
	}
}

func TestDocumentService_DeleteIgnoresStoreFailures(t *testing.T) {
	svc, repo, store := newTestDocumentService()
	ctx := context.Background()
	store.deleteErr["books/a/content.pdf"] = errors.New("permission denied")
	repo.Create(ctx, &domain.Document{ID: "a", PDFPath: "books/a/content.pdf", Status: domain.StatusPublished})

	if err := svc.Delete(ctx, adminSession, "a"); err != nil {
		t.Fatalf("expected record delete to proceed, got %v", err)
	}
	if err := svc.Delete(ctx, adminSession, "a"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestDocumentService_OpenContent(t *testing.T) {
	svc, repo, _ := newTestDocumentService()
	ctx := context.Background()
	svc.fetcher = &MockFetcher{data: map[string][]byte{"https://objects.test/books/a/content.pdf": []byte("%PDF-1.4")}}

	repo.Create(ctx, &domain.Document{ID: "a", PDFURL: "https://objects.test/books/a/content.pdf", Status: domain.StatusPublished})
	repo.Create(ctx, &domain.Document{ID: "b", Status: domain.StatusPublished})

	doc, data, err := svc.OpenContent(ctx, readerSession, "a")
	if err != nil || doc.ID != "a" || string(data) != "%PDF-1.4" {
		t.Fatalf("unexpected result: %+v %q %v", doc, data, err)
	}
	if _, _, err := svc.OpenContent(ctx, readerSession, "b"); !errors.Is(err, domain.ErrDocumentMissing) {
		t.Fatalf("expected ErrDocumentMissing for document without a PDF, got %v", err)
	}
}

func TestCoverExtension(t *testing.T) {
	tests := []struct {
		name, contentType, want string
	}{
		{"cover.JPG", "image/jpeg", "jpg"},
		{"", "image/webp", "webp"},
		{"noext", "image/png", "png"},
		{"", "image/x-unknown", "img"},
	}
	for _, tt := range tests {
		if got := coverExtension(tt.name, tt.contentType); got != tt.want {
			t.Errorf("coverExtension(%q, %q) = %q, want %q", tt.name, tt.contentType, got, tt.want)
		}
	}
}
