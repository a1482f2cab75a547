package repository

import (
	"context"
	"fmt"
	"sort"

	"book-sanctuary/internal/domain"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type FirestoreChapterRepository struct {
	client *firestore.Client
	logger domain.Logger
}

func NewFirestoreChapterRepository(client *firestore.Client, logger domain.Logger) *FirestoreChapterRepository {
	return &FirestoreChapterRepository{client: client, logger: logger}
}

func chapterFields(c *domain.Chapter) map[string]interface{} {
	return map[string]interface{}{
		"bookId":            c.DocumentID,
		"chapterNumber":     c.Number,
		"title":             c.Title,
		"content":           c.Content,
		"wordCount":         c.WordCount,
		"estimatedReadTime": c.EstimatedReadTime,
	}
}

func (r *FirestoreChapterRepository) ListByDocument(ctx context.Context, documentID string) ([]*domain.Chapter, error) {
	iter := r.client.Collection("chapters").Where("bookId", "==", documentID).Documents(ctx)
	defer iter.Stop()

	var out []*domain.Chapter
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list chapters: %w", err)
		}
		out = append(out, CanonicalChapter(snap.Ref.ID, snap.Data()))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *FirestoreChapterRepository) GetByID(ctx context.Context, id string) (*domain.Chapter, error) {
	snap, err := r.client.Collection("chapters").Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrChapterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return CanonicalChapter(snap.Ref.ID, snap.Data()), nil
}

func (r *FirestoreChapterRepository) Create(ctx context.Context, chapter *domain.Chapter) error {
	if _, err := r.client.Collection("chapters").Doc(chapter.ID).Create(ctx, chapterFields(chapter)); err != nil {
		return fmt.Errorf("failed to create chapter: %w", err)
	}
	return nil
}

func (r *FirestoreChapterRepository) Update(ctx context.Context, chapter *domain.Chapter) error {
	if _, err := r.client.Collection("chapters").Doc(chapter.ID).Set(ctx, chapterFields(chapter)); err != nil {
		return fmt.Errorf("failed to update chapter: %w", err)
	}
	return nil
}

func (r *FirestoreChapterRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection("chapters").Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete chapter: %w", err)
	}
	return nil
}
