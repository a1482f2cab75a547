package repository

import (
	"context"
	"fmt"

	"book-sanctuary/internal/domain"

	"github.com/supabase-community/postgrest-go"
)

// SupabaseDocumentRepository implements domain.DocumentRepository on the
// documents table.
type SupabaseDocumentRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

func NewSupabaseDocumentRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) *SupabaseDocumentRepository {
	return &SupabaseDocumentRepository{supabaseClient: supabaseClient, logger: logger}
}

func documentRow(doc *domain.Document) map[string]interface{} {
	return map[string]interface{}{
		"id":          doc.ID,
		"title":       sanitizeText(doc.Title),
		"description": sanitizeText(doc.Description),
		"pdf_url":     doc.PDFURL,
		"pdf_path":    doc.PDFPath,
		"cover_url":   doc.CoverURL,
		"cover_path":  doc.CoverPath,
		"uploaded_by": doc.UploadedBy,
		"uploaded_at": doc.UploadedAt,
		"updated_at":  doc.UpdatedAt,
		"file_size":   doc.FileSize,
		"file_name":   sanitizeText(doc.FileName),
		"page_count":  doc.PageCount,
		"status":      string(doc.Status),
	}
}

func (r *SupabaseDocumentRepository) List(ctx context.Context) ([]*domain.Document, error) {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return nil, err
	}
	data, _, err := client.From("documents").
		Select("*", "", false).
		Order("uploaded_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}
	docs := make([]*domain.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, CanonicalDocument("", row))
	}
	return docs, nil
}

func (r *SupabaseDocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return nil, err
	}
	data, _, err := client.From("documents").Select("*", "", false).Eq("id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrDocumentNotFound
	}
	return CanonicalDocument("", rows[0]), nil
}

func (r *SupabaseDocumentRepository) Create(ctx context.Context, document *domain.Document) error {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return err
	}
	_, _, err = client.From("documents").Insert(documentRow(document), false, "", "", "").Execute()
	if err != nil {
		r.logger.Error("Failed to insert document in Supabase", err, "doc_id", document.ID)
		return fmt.Errorf("failed to create document: %w", err)
	}
	r.logger.Info("Document created", "id", document.ID, "user_id", document.UploadedBy)
	return nil
}

func (r *SupabaseDocumentRepository) Update(ctx context.Context, document *domain.Document) error {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return err
	}
	_, _, err = client.From("documents").Update(documentRow(document), "", "").Eq("id", document.ID).Execute()
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	return nil
}

func (r *SupabaseDocumentRepository) Delete(ctx context.Context, id string) error {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return err
	}
	if _, _, err := client.From("documents").Delete("", "").Eq("id", id).Execute(); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
