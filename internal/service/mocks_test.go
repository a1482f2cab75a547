package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"book-sanctuary/internal/domain"
)

// MockLogger for testing
type MockLogger struct{}

func NewMockLogger() *MockLogger { return &MockLogger{} }

func (l *MockLogger) Info(msg string, fields ...interface{})             {}
func (l *MockLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *MockLogger) Debug(msg string, fields ...interface{})            {}
func (l *MockLogger) Warn(msg string, fields ...interface{})             {}

type MockDocumentRepository struct {
	mu        sync.Mutex
	documents map[string]*domain.Document
	createErr error
}

func NewMockDocumentRepository() *MockDocumentRepository {
	return &MockDocumentRepository{documents: make(map[string]*domain.Document)}
}

func (m *MockDocumentRepository) List(ctx context.Context) ([]*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := make([]*domain.Document, 0, len(m.documents))
	for _, doc := range m.documents {
		copied := *doc
		docs = append(docs, &copied)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	copied := *doc
	return &copied, nil
}

func (m *MockDocumentRepository) Create(ctx context.Context, document *domain.Document) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if document.ID == "" {
		return errors.New("document ID is required")
	}
	copied := *document
	m.documents[document.ID] = &copied
	return nil
}

func (m *MockDocumentRepository) Update(ctx context.Context, document *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[document.ID]; !ok {
		return domain.ErrDocumentNotFound
	}
	copied := *document
	m.documents[document.ID] = &copied
	return nil
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[id]; !ok {
		return domain.ErrDocumentNotFound
	}
	delete(m.documents, id)
	return nil
}

// MockObjectStore keeps objects in memory and serves them at
// https://objects.test/<key>.
type MockObjectStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	putErr    map[string]error
	deleteErr map[string]error
	deleted   []string
}

func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{
		objects:   make(map[string][]byte),
		putErr:    make(map[string]error),
		deleteErr: make(map[string]error),
	}
}

func (m *MockObjectStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if err := m.putErr[key]; err != nil {
		return "", err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()
	return "https://objects.test/" + key, nil
}

func (m *MockObjectStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, domain.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	if err := m.deleteErr[key]; err != nil {
		return err
	}
	if _, ok := m.objects[key]; !ok {
		return domain.ErrObjectNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *MockObjectStore) KeyFromURL(rawURL string) (string, bool) {
	const prefix = "https://objects.test/"
	if len(rawURL) > len(prefix) && rawURL[:len(prefix)] == prefix {
		return rawURL[len(prefix):], true
	}
	return "", false
}

func (m *MockObjectStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

type MockInspector struct {
	pages int
	err   error
}

func (m *MockInspector) Inspect(data []byte) (*PDFInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &PDFInfo{PageCount: m.pages}, nil
}

type MockFetcher struct {
	data map[string][]byte
}

func (m *MockFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	data, ok := m.data[rawURL]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentMissing, rawURL)
	}
	return data, nil
}

type MockUserRepository struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	touches int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) TouchLogin(ctx context.Context, id, displayName, photoURL string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.DisplayName = displayName
	user.PhotoURL = photoURL
	user.LastLogin = at
	m.touches++
	return nil
}

func (m *MockUserRepository) UpdatePreferences(ctx context.Context, id string, prefs domain.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Preferences = prefs
	return nil
}

type MockBookmarkRepository struct {
	mu        sync.Mutex
	bookmarks map[string]*domain.Bookmark
}

func NewMockBookmarkRepository() *MockBookmarkRepository {
	return &MockBookmarkRepository{bookmarks: make(map[string]*domain.Bookmark)}
}

func (m *MockBookmarkRepository) Get(ctx context.Context, userID, documentID string) (*domain.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bm, ok := m.bookmarks[userID+"/"+documentID]
	if !ok {
		return nil, domain.ErrBookmarkNotFound
	}
	copied := *bm
	return &copied, nil
}

func (m *MockBookmarkRepository) Put(ctx context.Context, bookmark *domain.Bookmark) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *bookmark
	m.bookmarks[bookmark.UserID+"/"+bookmark.DocumentID] = &copied
	return nil
}

func (m *MockBookmarkRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Bookmark
	for _, bm := range m.bookmarks {
		if bm.UserID == userID {
			copied := *bm
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockBookmarkRepository) Delete(ctx context.Context, userID, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bookmarks, userID+"/"+documentID)
	return nil
}

type MockHighlightRepository struct {
	highlights map[string]*domain.Highlight
}

func NewMockHighlightRepository() *MockHighlightRepository {
	return &MockHighlightRepository{highlights: make(map[string]*domain.Highlight)}
}

func (m *MockHighlightRepository) Create(ctx context.Context, h *domain.Highlight) error {
	copied := *h
	m.highlights[h.ID] = &copied
	return nil
}

func (m *MockHighlightRepository) GetByID(ctx context.Context, id string) (*domain.Highlight, error) {
	h, ok := m.highlights[id]
	if !ok {
		return nil, domain.ErrHighlightNotFound
	}
	copied := *h
	return &copied, nil
}

func (m *MockHighlightRepository) ListByDocument(ctx context.Context, userID, documentID string) ([]*domain.Highlight, error) {
	var out []*domain.Highlight
	for _, h := range m.highlights {
		if h.UserID == userID && h.DocumentID == documentID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *MockHighlightRepository) Update(ctx context.Context, h *domain.Highlight) error {
	copied := *h
	m.highlights[h.ID] = &copied
	return nil
}

func (m *MockHighlightRepository) Delete(ctx context.Context, id string) error {
	delete(m.highlights, id)
	return nil
}

type MockChapterRepository struct {
	chapters map[string]*domain.Chapter
}

func NewMockChapterRepository() *MockChapterRepository {
	return &MockChapterRepository{chapters: make(map[string]*domain.Chapter)}
}

func (m *MockChapterRepository) ListByDocument(ctx context.Context, documentID string) ([]*domain.Chapter, error) {
	var out []*domain.Chapter
	for _, c := range m.chapters {
		if c.DocumentID == documentID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *MockChapterRepository) GetByID(ctx context.Context, id string) (*domain.Chapter, error) {
	c, ok := m.chapters[id]
	if !ok {
		return nil, domain.ErrChapterNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *MockChapterRepository) Create(ctx context.Context, c *domain.Chapter) error {
	copied := *c
	m.chapters[c.ID] = &copied
	return nil
}

func (m *MockChapterRepository) Update(ctx context.Context, c *domain.Chapter) error {
	copied := *c
	m.chapters[c.ID] = &copied
	return nil
}

func (m *MockChapterRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.chapters[id]; !ok {
		return domain.ErrChapterNotFound
	}
	delete(m.chapters, id)
	return nil
}
