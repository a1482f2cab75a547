package service

import (
	"context"
	"strings"
	"time"

	"book-sanctuary/internal/domain"
	apperrors "book-sanctuary/pkg/errors"

	"github.com/google/uuid"
)

type HighlightService struct {
	repo   domain.HighlightRepository
	logger domain.Logger
	now    func() time.Time
}

func NewHighlightService(repo domain.HighlightRepository, logger domain.Logger) *HighlightService {
	return &HighlightService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *HighlightService) Create(ctx context.Context, sess *domain.Session, highlight *domain.Highlight) (*domain.Highlight, error) {
	if highlight == nil {
		return nil, apperrors.NewValidationError("highlight is required")
	}
	if highlight.DocumentID == "" || highlight.ChapterID == "" {
		return nil, apperrors.NewValidationError("bookId and chapterId are required")
	}
	if strings.TrimSpace(highlight.SelectedText) == "" {
		return nil, apperrors.NewValidationError("selectedText is required")
	}
	if highlight.StartOffset < 0 || highlight.EndOffset <= highlight.StartOffset {
		return nil, apperrors.NewValidationError("invalid selection offsets")
	}
	if highlight.Color == "" {
		highlight.Color = domain.ColorYellow
	}
	if !highlight.Color.Valid() {
		return nil, apperrors.NewValidationError("invalid color", string(highlight.Color))
	}

	now := s.now()
	highlight.ID = uuid.New().String()
	highlight.UserID = sess.UserID
	highlight.CreatedAt = now
	highlight.UpdatedAt = now

	if err := s.repo.Create(ctx, highlight); err != nil {
		return nil, err
	}
	s.logger.Info("Highlight created", "user_id", sess.UserID, "document_id", highlight.DocumentID, "highlight_id", highlight.ID)
	return highlight, nil
}

func (s *HighlightService) List(ctx context.Context, sess *domain.Session, documentID string) ([]*domain.Highlight, error) {
	if documentID == "" {
		return nil, apperrors.NewValidationError("bookId is required")
	}
	return s.repo.ListByDocument(ctx, sess.UserID, documentID)
}

func (s *HighlightService) Update(ctx context.Context, sess *domain.Session, id string, update *domain.HighlightUpdate) (*domain.Highlight, error) {
	highlight, err := s.owned(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	if update.Color != nil {
		if !update.Color.Valid() {
			return nil, apperrors.NewValidationError("invalid color", string(*update.Color))
		}
		highlight.Color = *update.Color
	}
	if update.Note != nil {
		highlight.Note = *update.Note
	}
	highlight.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, highlight); err != nil {
		return nil, err
	}
	return highlight, nil
}

func (s *HighlightService) Delete(ctx context.Context, sess *domain.Session, id string) error {
	if _, err := s.owned(ctx, sess, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// owned hides other users' highlights behind ErrHighlightNotFound.
func (s *HighlightService) owned(ctx context.Context, sess *domain.Session, id string) (*domain.Highlight, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("highlight id is required")
	}
	highlight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if highlight.UserID != sess.UserID {
		return nil, domain.ErrHighlightNotFound
	}
	return highlight, nil
}
