package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"book-sanctuary/internal/domain"
	apperrors "book-sanctuary/pkg/errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ContentFetcher downloads a document binary by URL.
type ContentFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

var coverExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

type DocumentService struct {
	repo         domain.DocumentRepository
	store        domain.ObjectStore
	fetcher      ContentFetcher
	inspector    PDFInspector
	logger       domain.Logger
	maxFileSize  int64
	maxCoverSize int64
	now          func() time.Time
}

func NewDocumentService(
	repo domain.DocumentRepository,
	store domain.ObjectStore,
	fetcher ContentFetcher,
	inspector PDFInspector,
	maxFileSize int64,
	maxCoverSize int64,
	logger domain.Logger,
) *DocumentService {
	return &DocumentService{
		repo:         repo,
		store:        store,
		fetcher:      fetcher,
		inspector:    inspector,
		logger:       logger,
		maxFileSize:  maxFileSize,
		maxCoverSize: maxCoverSize,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func requireAdmin(sess *domain.Session) error {
	if sess == nil {
		return apperrors.NewUnauthorizedError("Authentication required")
	}
	if !sess.IsAdmin {
		return apperrors.NewForbiddenError("Admin access required")
	}
	return nil
}

// ListPublished returns the public gallery, newest first.
func (s *DocumentService) ListPublished(ctx context.Context) ([]*domain.Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	published := make([]*domain.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.IsPublished() {
			published = append(published, doc)
		}
	}
	sortNewestFirst(published)
	return published, nil
}

// ListAll returns drafts and published documents for the admin dashboard.
func (s *DocumentService) ListAll(ctx context.Context, sess *domain.Session) ([]*domain.Document, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(docs)
	return docs, nil
}

// Get returns a document. Drafts are only visible to admins.
func (s *DocumentService) Get(ctx context.Context, sess *domain.Session, id string) (*domain.Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doc.IsPublished() && (sess == nil || !sess.IsAdmin) {
		return nil, domain.ErrDocumentNotFound
	}
	return doc, nil
}

// OpenContent resolves a readable document and downloads its PDF.
func (s *DocumentService) OpenContent(ctx context.Context, sess *domain.Session, id string) (*domain.Document, []byte, error) {
	doc, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, nil, err
	}
	if doc.PDFURL == "" {
		return nil, nil, domain.ErrDocumentMissing
	}

	data, err := s.fetcher.Fetch(ctx, doc.PDFURL)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

// Upload stores the PDF and optional cover, then writes the record. The
// record is only created once every binary is in place.
func (s *DocumentService) Upload(ctx context.Context, sess *domain.Session, input *domain.UploadInput) (*domain.Document, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" || input.Content == nil {
		return nil, apperrors.NewValidationError("Please provide a title and PDF file")
	}

	content, err := readWithLimit(input.Content, s.maxFileSize)
	if err != nil {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("PDF file must be smaller than %d MB", s.maxFileSize/(1024*1024)))
	}

	info, err := s.inspector.Inspect(content)
	if err != nil {
		s.logger.Warn("Rejected upload", "file_name", input.FileName, "error", err.Error())
		return nil, apperrors.NewFormatError(formatMessage(err), err)
	}

	var cover []byte
	coverExt := ""
	if input.Cover != nil {
		if !strings.HasPrefix(input.CoverContentType, "image/") {
			return nil, apperrors.NewValidationError("Cover must be an image")
		}
		cover, err = readWithLimit(input.Cover, s.maxCoverSize)
		if err != nil {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("Cover image must be smaller than %d MB", s.maxCoverSize/(1024*1024)))
		}
		coverExt = coverExtension(input.CoverName, input.CoverContentType)
	}

	docID := uuid.New().String()
	fileName := input.FileName
	if fileName == "" {
		fileName = docID + ".pdf"
	}

	pdfPath := fmt.Sprintf("books/%s/content.pdf", docID)
	pdfURL, err := s.store.Put(ctx, pdfPath, bytes.NewReader(content), "application/pdf")
	if err != nil {
		return nil, apperrors.NewNetworkError("Failed to upload PDF", err)
	}

	var coverPath, coverURL string
	if cover != nil {
		coverPath = fmt.Sprintf("books/%s/cover.%s", docID, coverExt)
		coverURL, err = s.store.Put(ctx, coverPath, bytes.NewReader(cover), input.CoverContentType)
		if err != nil {
			s.removeObjects(ctx, docID, pdfPath)
			return nil, apperrors.NewNetworkError("Failed to upload cover image", err)
		}
	}

	now := s.now()
	doc := &domain.Document{
		ID:          docID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		PDFURL:      pdfURL,
		PDFPath:     pdfPath,
		CoverURL:    coverURL,
		CoverPath:   coverPath,
		UploadedBy:  sess.UserID,
		UploadedAt:  now,
		UpdatedAt:   now,
		FileSize:    int64(len(content)),
		FileName:    fileName,
		PageCount:   info.PageCount,
		Status:      domain.StatusPublished,
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		s.logger.Error("Failed to create document record", err, "document_id", docID)
		s.removeObjects(ctx, docID, pdfPath, coverPath)
		return nil, apperrors.NewInternalError("Failed to save document", err)
	}

	s.logger.Info("Document uploaded",
		"document_id", docID,
		"uploaded_by", sess.UserID,
		"file_size", doc.FileSize,
		"page_count", doc.PageCount,
	)
	return doc, nil
}

// UpdateMetadata edits title, description or status.
func (s *DocumentService) UpdateMetadata(ctx context.Context, sess *domain.Session, id string, update *domain.DocumentUpdate) (*domain.Document, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("Title cannot be empty")
		}
		doc.Title = title
	}
	if update.Description != nil {
		doc.Description = strings.TrimSpace(*update.Description)
	}
	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, apperrors.NewValidationError("Invalid status", string(*update.Status))
		}
		doc.Status = *update.Status
	}

	doc.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) SetStatus(ctx context.Context, sess *domain.Session, id string, status domain.DocumentStatus) (*domain.Document, error) {
	return s.UpdateMetadata(ctx, sess, id, &domain.DocumentUpdate{Status: &status})
}

// ToggleStatus flips published and draft.
func (s *DocumentService) ToggleStatus(ctx context.Context, sess *domain.Session, id string) (*domain.Document, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.SetStatus(ctx, sess, id, doc.Status.Toggled())
}

// Delete removes the binaries best-effort and then the record, which is
// authoritative. Missing binaries do not fail the delete.
func (s *DocumentService) Delete(ctx context.Context, sess *domain.Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	s.removeObjects(ctx, doc.ID, s.objectKey(doc.PDFPath, doc.PDFURL), s.objectKey(doc.CoverPath, doc.CoverURL))

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Document deleted", "document_id", id, "deleted_by", sess.UserID)
	return nil
}

func (s *DocumentService) objectKey(path, rawURL string) string {
	if path != "" {
		return path
	}
	if rawURL == "" {
		return ""
	}
	key, _ := s.store.KeyFromURL(rawURL)
	return key
}

func (s *DocumentService) removeObjects(ctx context.Context, docID string, keys ...string) {
	var g errgroup.Group
	for _, key := range keys {
		if key == "" {
			continue
		}
		g.Go(func() error {
			err := s.store.Delete(ctx, key)
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrObjectNotFound):
				s.logger.Debug("Object already gone", "document_id", docID, "key", key)
			default:
				s.logger.Warn("Failed to delete object", "document_id", docID, "key", key, "error", err.Error())
			}
			return nil
		})
	}
	_ = g.Wait()
}

func sortNewestFirst(docs []*domain.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
}

func readWithLimit(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("exceeds %d bytes", limit)
	}
	return data, nil
}

func coverExtension(name, contentType string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext != "" {
		return ext
	}
	if ext, ok := coverExtensions[contentType]; ok {
		return ext
	}
	return "img"
}

// formatMessage is the user-facing text for a decode failure.
func formatMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrDocumentEncrypted):
		return domain.ErrDocumentEncrypted.Error()
	case errors.Is(err, domain.ErrDocumentMissing):
		return domain.ErrDocumentMissing.Error()
	default:
		return domain.ErrDocumentCorrupt.Error()
	}
}
