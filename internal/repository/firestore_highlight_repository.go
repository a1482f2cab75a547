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

type FirestoreHighlightRepository struct {
	client *firestore.Client
	logger domain.Logger
}

func NewFirestoreHighlightRepository(client *firestore.Client, logger domain.Logger) *FirestoreHighlightRepository {
	return &FirestoreHighlightRepository{client: client, logger: logger}
}

func highlightFields(h *domain.Highlight) map[string]interface{} {
	return map[string]interface{}{
		"userId":       h.UserID,
		"bookId":       h.DocumentID,
		"chapterId":    h.ChapterID,
		"startOffset":  h.StartOffset,
		"endOffset":    h.EndOffset,
		"selectedText": h.SelectedText,
		"color":        string(h.Color),
		"note":         h.Note,
		"createdAt":    h.CreatedAt,
		"updatedAt":    h.UpdatedAt,
	}
}

func (r *FirestoreHighlightRepository) Create(ctx context.Context, highlight *domain.Highlight) error {
	_, err := r.client.Collection("highlights").Doc(highlight.ID).Create(ctx, highlightFields(highlight))
	if err != nil {
		return fmt.Errorf("failed to create highlight: %w", err)
	}
	return nil
}

func (r *FirestoreHighlightRepository) GetByID(ctx context.Context, id string) (*domain.Highlight, error) {
	snap, err := r.client.Collection("highlights").Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrHighlightNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get highlight: %w", err)
	}
	return CanonicalHighlight(snap.Ref.ID, snap.Data()), nil
}

// ListByDocument sorts in memory so no composite index is required.
func (r *FirestoreHighlightRepository) ListByDocument(ctx context.Context, userID, documentID string) ([]*domain.Highlight, error) {
	iter := r.client.Collection("highlights").
		Where("userId", "==", userID).
		Where("bookId", "==", documentID).
		Documents(ctx)
	defer iter.Stop()

	var out []*domain.Highlight
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list highlights: %w", err)
		}
		out = append(out, CanonicalHighlight(snap.Ref.ID, snap.Data()))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *FirestoreHighlightRepository) Update(ctx context.Context, highlight *domain.Highlight) error {
	_, err := r.client.Collection("highlights").Doc(highlight.ID).Set(ctx, highlightFields(highlight))
	if err != nil {
		return fmt.Errorf("failed to update highlight: %w", err)
	}
	return nil
}

func (r *FirestoreHighlightRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection("highlights").Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete highlight: %w", err)
	}
	return nil
}
