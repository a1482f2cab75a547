package repository

import (
	"context"
	"fmt"

	"book-sanctuary/internal/domain"

	"github.com/supabase-community/postgrest-go"
)

// SupabaseBookmarkRepository upserts on (user_id, document_id).
type SupabaseBookmarkRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

func NewSupabaseBookmarkRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) *SupabaseBookmarkRepository {
	return &SupabaseBookmarkRepository{supabaseClient: supabaseClient, logger: logger}
}

func (r *SupabaseBookmarkRepository) Get(ctx context.Context, userID, documentID string) (*domain.Bookmark, error) {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return nil, err
	}
	data, _, err := client.From("bookmarks").
		Select("*", "", false).
		Eq("user_id", userID).
		Eq("document_id", documentID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}
	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrBookmarkNotFound
	}
	return CanonicalBookmark(userID, documentID, rows[0]), nil
}

func (r *SupabaseBookmarkRepository) Put(ctx context.Context, bookmark *domain.Bookmark) error {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return err
	}
	row := map[string]interface{}{
		"user_id":      bookmark.UserID,
		"document_id":  bookmark.DocumentID,
		"current_page": bookmark.CurrentPage,
		"total_pages":  bookmark.TotalPages,
		"last_read":    bookmark.LastRead,
		"book_title":   sanitizeText(bookmark.DocumentTitle),
	}
	_, _, err = client.From("bookmarks").Insert(row, true, "user_id,document_id", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	return nil
}

func (r *SupabaseBookmarkRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return nil, err
	}
	data, _, err := client.From("bookmarks").
		Select("*", "", false).
		Eq("user_id", userID).
		Order("last_read", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Bookmark, 0, len(rows))
	for _, row := range rows {
		out = append(out, CanonicalBookmark(userID, "", row))
	}
	return out, nil
}

func (r *SupabaseBookmarkRepository) Delete(ctx context.Context, userID, documentID string) error {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return err
	}
	_, _, err = client.From("bookmarks").
		Delete("", "").
		Eq("user_id", userID).
		Eq("document_id", documentID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return nil
}
