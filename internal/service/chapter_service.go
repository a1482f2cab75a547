package service

import (
	"context"
	"strings"

	"book-sanctuary/internal/domain"
	apperrors "book-sanctuary/pkg/errors"

	"github.com/google/uuid"
)

const wordsPerMinute = 200

type ChapterService struct {
	repo   domain.ChapterRepository
	logger domain.Logger
}

func NewChapterService(repo domain.ChapterRepository, logger domain.Logger) *ChapterService {
	return &ChapterService{repo: repo, logger: logger}
}

func (s *ChapterService) List(ctx context.Context, sess *domain.Session, documentID string) ([]*domain.Chapter, error) {
	if documentID == "" {
		return nil, apperrors.NewValidationError("bookId is required")
	}
	return s.repo.ListByDocument(ctx, documentID)
}

func (s *ChapterService) Get(ctx context.Context, sess *domain.Session, id string) (*domain.Chapter, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ChapterService) Create(ctx context.Context, sess *domain.Session, chapter *domain.Chapter) (*domain.Chapter, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	if chapter.DocumentID == "" || strings.TrimSpace(chapter.Title) == "" {
		return nil, apperrors.NewValidationError("bookId and title are required")
	}
	if chapter.Number < 1 {
		return nil, apperrors.NewValidationError("chapterNumber must be positive")
	}

	chapter.ID = uuid.New().String()
	chapter.Title = strings.TrimSpace(chapter.Title)
	chapter.WordCount, chapter.EstimatedReadTime = readingStats(chapter.Content)

	if err := s.repo.Create(ctx, chapter); err != nil {
		return nil, err
	}
	s.logger.Info("Chapter created", "chapter_id", chapter.ID, "document_id", chapter.DocumentID, "number", chapter.Number)
	return chapter, nil
}

func (s *ChapterService) Update(ctx context.Context, sess *domain.Session, id string, update *domain.ChapterUpdate) (*domain.Chapter, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	chapter, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Number != nil {
		if *update.Number < 1 {
			return nil, apperrors.NewValidationError("chapterNumber must be positive")
		}
		chapter.Number = *update.Number
	}
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title cannot be empty")
		}
		chapter.Title = title
	}
	if update.Content != nil {
		chapter.Content = *update.Content
		chapter.WordCount, chapter.EstimatedReadTime = readingStats(chapter.Content)
	}

	if err := s.repo.Update(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *ChapterService) Delete(ctx context.Context, sess *domain.Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// readingStats returns the word count and the read time in whole minutes.
func readingStats(content string) (int, int) {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0, 0
	}
	return words, (words + wordsPerMinute - 1) / wordsPerMinute
}
