package service

import (
	"context"
	"strings"
	"time"

	"book-sanctuary/internal/domain"
	apperrors "book-sanctuary/pkg/errors"
)

type BookmarkService struct {
	repo   domain.BookmarkRepository
	logger domain.Logger
	now    func() time.Time
}

func NewBookmarkService(repo domain.BookmarkRepository, logger domain.Logger) *BookmarkService {
	return &BookmarkService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Load returns domain.ErrBookmarkNotFound when the user never saved a position.
func (s *BookmarkService) Load(ctx context.Context, sess *domain.Session, documentID string) (*domain.Bookmark, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, apperrors.NewValidationError("bookId is required")
	}
	return s.repo.Get(ctx, sess.UserID, documentID)
}

// Save overwrites the user's bookmark for the document.
func (s *BookmarkService) Save(ctx context.Context, sess *domain.Session, documentID string, page, totalPages int, title string) (*domain.Bookmark, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, apperrors.NewValidationError("bookId is required")
	}
	if totalPages < 1 || page < 1 || page > totalPages {
		return nil, apperrors.NewValidationError("currentPage must be between 1 and totalPages")
	}

	bookmark := &domain.Bookmark{
		UserID:        sess.UserID,
		DocumentID:    documentID,
		CurrentPage:   page,
		TotalPages:    totalPages,
		LastRead:      s.now(),
		DocumentTitle: title,
	}
	if err := s.repo.Put(ctx, bookmark); err != nil {
		s.logger.Error("Failed to save bookmark", err, "user_id", sess.UserID, "document_id", documentID)
		return nil, err
	}

	s.logger.Debug("Bookmark saved", "user_id", sess.UserID, "document_id", documentID, "page", page)
	return bookmark, nil
}

func (s *BookmarkService) List(ctx context.Context, sess *domain.Session) ([]*domain.Bookmark, error) {
	return s.repo.ListByUser(ctx, sess.UserID)
}

func (s *BookmarkService) Delete(ctx context.Context, sess *domain.Session, documentID string) error {
	if strings.TrimSpace(documentID) == "" {
		return apperrors.NewValidationError("bookId is required")
	}
	return s.repo.Delete(ctx, sess.UserID, documentID)
}
