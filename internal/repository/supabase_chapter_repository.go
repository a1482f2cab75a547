package repository

import (
	"context"
	"fmt"

	"book-sanctuary/internal/domain"

	"github.com/supabase-community/postgrest-go"
)

type SupabaseChapterRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

func NewSupabaseChapterRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) *SupabaseChapterRepository {
	return &SupabaseChapterRepository{supabaseClient: supabaseClient, logger: logger}
}

func chapterRow(c *domain.Chapter) map[string]interface{} {
	return map[string]interface{}{
		"id":                  c.ID,
		"document_id":         c.DocumentID,
		"chapter_number":      c.Number,
		"title":               sanitizeText(c.Title),
		"content":             sanitizeText(c.Content),
		"word_count":          c.WordCount,
		"estimated_read_time": c.EstimatedReadTime,
	}
}

func (r *SupabaseChapterRepository) ListByDocument(ctx context.Context, documentID string) ([]*domain.Chapter, error) {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return nil, err
	}
	data, _, err := client.From("chapters").
		Select("*", "", false).
		Eq("document_id", documentID).
		Order("chapter_number", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Chapter, 0, len(rows))
	for _, row := range rows {
		out = append(out, CanonicalChapter("", row))
	}
	return out, nil
}

func (r *SupabaseChapterRepository) GetByID(ctx context.Context, id string) (*domain.Chapter, error) {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return nil, err
	}
	data, _, err := client.From("chapters").Select("*", "", false).Eq("id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrChapterNotFound
	}
	return CanonicalChapter("", rows[0]), nil
}

func (r *SupabaseChapterRepository) Create(ctx context.Context, chapter *domain.Chapter) error {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return err
	}
	if _, _, err := client.From("chapters").Insert(chapterRow(chapter), false, "", "", "").Execute(); err != nil {
		return fmt.Errorf("failed to create chapter: %w", err)
	}
	return nil
}

func (r *SupabaseChapterRepository) Update(ctx context.Context, chapter *domain.Chapter) error {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return err
	}
	if _, _, err := client.From("chapters").Update(chapterRow(chapter), "", "").Eq("id", chapter.ID).Execute(); err != nil {
		return fmt.Errorf("failed to update chapter: %w", err)
	}
	return nil
}

func (r *SupabaseChapterRepository) Delete(ctx context.Context, id string) error {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return err
	}
	if _, _, err := client.From("chapters").Delete("", "").Eq("id", id).Execute(); err != nil {
		return fmt.Errorf("failed to delete chapter: %w", err)
	}
	return nil
}
