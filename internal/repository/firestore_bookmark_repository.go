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

// FirestoreBookmarkRepository stores one bookmark per book at
// users/{uid}/bookmarks/{bookId}.
type FirestoreBookmarkRepository struct {
	client *firestore.Client
	logger domain.Logger
}

func NewFirestoreBookmarkRepository(client *firestore.Client, logger domain.Logger) *FirestoreBookmarkRepository {
	return &FirestoreBookmarkRepository{client: client, logger: logger}
}

func (r *FirestoreBookmarkRepository) bookmarks(userID string) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(userID).Collection("bookmarks")
}

func (r *FirestoreBookmarkRepository) Get(ctx context.Context, userID, documentID string) (*domain.Bookmark, error) {
	snap, err := r.bookmarks(userID).Doc(documentID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrBookmarkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}
	return CanonicalBookmark(userID, snap.Ref.ID, snap.Data()), nil
}

func (r *FirestoreBookmarkRepository) Put(ctx context.Context, bookmark *domain.Bookmark) error {
	_, err := r.bookmarks(bookmark.UserID).Doc(bookmark.DocumentID).Set(ctx, map[string]interface{}{
		"currentPage": bookmark.CurrentPage,
		"totalPages":  bookmark.TotalPages,
		"lastRead":    bookmark.LastRead,
		"bookTitle":   bookmark.DocumentTitle,
	})
	if err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	return nil
}

func (r *FirestoreBookmarkRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	iter := r.bookmarks(userID).Documents(ctx)
	defer iter.Stop()

	var out []*domain.Bookmark
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list bookmarks: %w", err)
		}
		out = append(out, CanonicalBookmark(userID, snap.Ref.ID, snap.Data()))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastRead.After(out[j].LastRead) })
	return out, nil
}

func (r *FirestoreBookmarkRepository) Delete(ctx context.Context, userID, documentID string) error {
	if _, err := r.bookmarks(userID).Doc(documentID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return nil
}
