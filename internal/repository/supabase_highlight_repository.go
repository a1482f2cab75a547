package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"book-sanctuary/internal/domain"

	"github.com/supabase-community/postgrest-go"
)

// SupabaseHighlightRepository implements domain.HighlightRepository using Supabase.
type SupabaseHighlightRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

func NewSupabaseHighlightRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) *SupabaseHighlightRepository {
	return &SupabaseHighlightRepository{supabaseClient: supabaseClient, logger: logger}
}

func highlightRow(h *domain.Highlight) map[string]interface{} {
	return map[string]interface{}{
		"id":            h.ID,
		"user_id":       h.UserID,
		"document_id":   h.DocumentID,
		"chapter_id":    h.ChapterID,
		"start_offset":  h.StartOffset,
		"end_offset":    h.EndOffset,
		"selected_text": sanitizeText(h.SelectedText),
		"color":         string(h.Color),
		"note":          sanitizeText(h.Note),
		"created_at":    h.CreatedAt,
		"updated_at":    h.UpdatedAt,
	}
}

func (r *SupabaseHighlightRepository) Create(ctx context.Context, highlight *domain.Highlight) error {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return err
	}
	if _, _, err := client.From("highlights").Insert(highlightRow(highlight), false, "", "", "").Execute(); err != nil {
		return fmt.Errorf("failed to create highlight: %w", err)
	}
	return nil
}

func (r *SupabaseHighlightRepository) GetByID(ctx context.Context, id string) (*domain.Highlight, error) {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return nil, err
	}
	data, _, err := client.From("highlights").Select("*", "", false).Eq("id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get highlight: %w", err)
	}
	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrHighlightNotFound
	}
	return CanonicalHighlight("", rows[0]), nil
}

func (r *SupabaseHighlightRepository) ListByDocument(ctx context.Context, userID, documentID string) ([]*domain.Highlight, error) {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return nil, err
	}
	data, _, err := client.From("highlights").
		Select("*", "", false).
		Eq("user_id", userID).
		Eq("document_id", documentID).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list highlights: %w", err)
	}
	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Highlight, 0, len(rows))
	for _, row := range rows {
		out = append(out, CanonicalHighlight("", row))
	}
	return out, nil
}

func (r *SupabaseHighlightRepository) Update(ctx context.Context, highlight *domain.Highlight) error {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return err
	}
	row := map[string]interface{}{
		"color":      string(highlight.Color),
		"note":       sanitizeText(highlight.Note),
		"updated_at": highlight.UpdatedAt,
	}
	if _, _, err := client.From("highlights").Update(row, "", "").Eq("id", highlight.ID).Execute(); err != nil {
		return fmt.Errorf("failed to update highlight: %w", err)
	}
	return nil
}

func (r *SupabaseHighlightRepository) Delete(ctx context.Context, id string) error {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return err
	}
	if _, _, err := client.From("highlights").Delete("", "").Eq("id", id).Execute(); err != nil {
		return fmt.Errorf("failed to delete highlight: %w", err)
	}
	return nil
}

var reControl = regexp.MustCompile(`[\x00]`)

// sanitizeText removes characters that PostgreSQL rejects in text fields (notably NUL bytes).
func sanitizeText(s string) string {
	if s == "" {
		return s
	}
	s = reControl.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, "\\u0000", "")
}
