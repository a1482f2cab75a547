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

// FirestoreDocumentRepository implements domain.DocumentRepository
type FirestoreDocumentRepository struct {
	client     *firestore.Client
	collection string
	logger     domain.Logger
}

func NewFirestoreDocumentRepository(client *firestore.Client, collection string, logger domain.Logger) *FirestoreDocumentRepository {
	if collection == "" {
		collection = "books"
	}
	return &FirestoreDocumentRepository{client: client, collection: collection, logger: logger}
}

// List reads the whole collection and sorts in memory: legacy records
// without uploadedAt would be dropped by an OrderBy query.
func (r *FirestoreDocumentRepository) List(ctx context.Context) ([]*domain.Document, error) {
	iter := r.client.Collection(r.collection).Documents(ctx)
	defer iter.Stop()

	var docs []*domain.Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list documents: %w", err)
		}
		docs = append(docs, CanonicalDocument(snap.Ref.ID, snap.Data()))
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

func (r *FirestoreDocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	snap, err := r.client.Collection(r.collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return CanonicalDocument(snap.Ref.ID, snap.Data()), nil
}

func (r *FirestoreDocumentRepository) Create(ctx context.Context, document *domain.Document) error {
	_, err := r.client.Collection(r.collection).Doc(document.ID).Create(ctx, documentFields(document))
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	r.logger.Info("Document created", "id", document.ID, "user_id", document.UploadedBy)
	return nil
}

func (r *FirestoreDocumentRepository) Update(ctx context.Context, document *domain.Document) error {
	ref := r.client.Collection(r.collection).Doc(document.ID)
	_, err := ref.Set(ctx, documentFields(document), firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	return nil
}

func (r *FirestoreDocumentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection(r.collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
