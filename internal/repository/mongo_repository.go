package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"book-sanctuary/internal/domain"
	"book-sanctuary/internal/infra/mongodb"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDocumentRepository implements domain.DocumentRepository
type MongoDocumentRepository struct {
	db *mongodb.DB
}

func NewMongoDocumentRepository(db *mongodb.DB) *MongoDocumentRepository {
	return &MongoDocumentRepository{db: db}
}

func (r *MongoDocumentRepository) List(ctx context.Context) ([]*domain.Document, error) {
	cur, err := r.db.Books().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer cur.Close(ctx)

	var rows []mongoDocument
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	docs := make([]*domain.Document, 0, len(rows))
	for i := range rows {
		docs = append(docs, rows[i].toDomain())
	}
	return docs, nil
}

func (r *MongoDocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	var row mongoDocument
	err := r.db.Books().FindOne(ctx, bson.M{"_id": id}).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return row.toDomain(), nil
}

func (r *MongoDocumentRepository) Create(ctx context.Context, document *domain.Document) error {
	if _, err := r.db.Books().InsertOne(ctx, toMongoDocument(document)); err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (r *MongoDocumentRepository) Update(ctx context.Context, document *domain.Document) error {
	res, err := r.db.Books().ReplaceOne(ctx, bson.M{"_id": document.ID}, toMongoDocument(document))
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *MongoDocumentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Books().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

type MongoUserRepository struct {
	db *mongodb.DB
}

func NewMongoUserRepository(db *mongodb.DB) *MongoUserRepository {
	return &MongoUserRepository{db: db}
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var row mongoUser
	err := r.db.Users().FindOne(ctx, bson.M{"_id": id}).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return row.toDomain(), nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	row := &mongoUser{
		ID: user.ID, Email: user.Email, DisplayName: user.DisplayName, PhotoURL: user.PhotoURL,
		IsAdmin: user.IsAdmin, Preferences: user.Preferences, CreatedAt: user.CreatedAt, LastLogin: user.LastLogin,
	}
	if _, err := r.db.Users().InsertOne(ctx, row); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) TouchLogin(ctx context.Context, id, displayName, photoURL string, at time.Time) error {
	return r.update(ctx, id, bson.M{"lastLogin": at, "displayName": displayName, "photoURL": photoURL})
}

func (r *MongoUserRepository) UpdatePreferences(ctx context.Context, id string, prefs domain.Preferences) error {
	return r.update(ctx, id, bson.M{"preferences": prefs})
}

func (r *MongoUserRepository) update(ctx context.Context, id string, set bson.M) error {
	res, err := r.db.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// MongoBookmarkRepository keys bookmarks by (userId, bookId).
type MongoBookmarkRepository struct {
	db *mongodb.DB
}

func NewMongoBookmarkRepository(db *mongodb.DB) *MongoBookmarkRepository {
	return &MongoBookmarkRepository{db: db}
}

func (r *MongoBookmarkRepository) Get(ctx context.Context, userID, documentID string) (*domain.Bookmark, error) {
	var row mongoBookmark
	err := r.db.Bookmarks().FindOne(ctx, bson.M{"userId": userID, "bookId": documentID}).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrBookmarkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}
	return row.toDomain(), nil
}

func (r *MongoBookmarkRepository) Put(ctx context.Context, bookmark *domain.Bookmark) error {
	row := &mongoBookmark{
		UserID: bookmark.UserID, DocumentID: bookmark.DocumentID, CurrentPage: bookmark.CurrentPage,
		TotalPages: bookmark.TotalPages, LastRead: bookmark.LastRead, BookTitle: bookmark.DocumentTitle,
	}
	filter := bson.M{"userId": bookmark.UserID, "bookId": bookmark.DocumentID}
	if _, err := r.db.Bookmarks().ReplaceOne(ctx, filter, row, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	return nil
}

func (r *MongoBookmarkRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	cur, err := r.db.Bookmarks().Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.D{{Key: "lastRead", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer cur.Close(ctx)

	var rows []mongoBookmark
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode bookmarks: %w", err)
	}
	out := make([]*domain.Bookmark, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *MongoBookmarkRepository) Delete(ctx context.Context, userID, documentID string) error {
	if _, err := r.db.Bookmarks().DeleteOne(ctx, bson.M{"userId": userID, "bookId": documentID}); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return nil
}

type MongoHighlightRepository struct {
	db *mongodb.DB
}

func NewMongoHighlightRepository(db *mongodb.DB) *MongoHighlightRepository {
	return &MongoHighlightRepository{db: db}
}

func (r *MongoHighlightRepository) Create(ctx context.Context, highlight *domain.Highlight) error {
	if _, err := r.db.Highlights().InsertOne(ctx, toMongoHighlight(highlight)); err != nil {
		return fmt.Errorf("failed to create highlight: %w", err)
	}
	return nil
}

func (r *MongoHighlightRepository) GetByID(ctx context.Context, id string) (*domain.Highlight, error) {
	var row mongoHighlight
	err := r.db.Highlights().FindOne(ctx, bson.M{"_id": id}).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrHighlightNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get highlight: %w", err)
	}
	return row.toDomain(), nil
}

func (r *MongoHighlightRepository) ListByDocument(ctx context.Context, userID, documentID string) ([]*domain.Highlight, error) {
	filter := bson.M{"userId": userID, "bookId": documentID}
	cur, err := r.db.Highlights().Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list highlights: %w", err)
	}
	defer cur.Close(ctx)

	var rows []mongoHighlight
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode highlights: %w", err)
	}
	out := make([]*domain.Highlight, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *MongoHighlightRepository) Update(ctx context.Context, highlight *domain.Highlight) error {
	res, err := r.db.Highlights().ReplaceOne(ctx, bson.M{"_id": highlight.ID}, toMongoHighlight(highlight))
	if err != nil {
		return fmt.Errorf("failed to update highlight: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrHighlightNotFound
	}
	return nil
}

func (r *MongoHighlightRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Highlights().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete highlight: %w", err)
	}
	return nil
}

type MongoChapterRepository struct {
	db *mongodb.DB
}

func NewMongoChapterRepository(db *mongodb.DB) *MongoChapterRepository {
	return &MongoChapterRepository{db: db}
}

func (r *MongoChapterRepository) ListByDocument(ctx context.Context, documentID string) ([]*domain.Chapter, error) {
	cur, err := r.db.Chapters().Find(ctx, bson.M{"bookId": documentID}, options.Find().SetSort(bson.D{{Key: "chapterNumber", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	defer cur.Close(ctx)

	var rows []mongoChapter
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode chapters: %w", err)
	}
	out := make([]*domain.Chapter, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *MongoChapterRepository) GetByID(ctx context.Context, id string) (*domain.Chapter, error) {
	var row mongoChapter
	err := r.db.Chapters().FindOne(ctx, bson.M{"_id": id}).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrChapterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return row.toDomain(), nil
}

func (r *MongoChapterRepository) Create(ctx context.Context, chapter *domain.Chapter) error {
	if _, err := r.db.Chapters().InsertOne(ctx, toMongoChapter(chapter)); err != nil {
		return fmt.Errorf("failed to create chapter: %w", err)
	}
	return nil
}

func (r *MongoChapterRepository) Update(ctx context.Context, chapter *domain.Chapter) error {
	res, err := r.db.Chapters().ReplaceOne(ctx, bson.M{"_id": chapter.ID}, toMongoChapter(chapter))
	if err != nil {
		return fmt.Errorf("failed to update chapter: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrChapterNotFound
	}
	return nil
}

func (r *MongoChapterRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Chapters().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete chapter: %w", err)
	}
	return nil
}
