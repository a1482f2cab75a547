package reader

import (
	"context"
	"image"
	"sync"

	"book-sanctuary/internal/domain"
	"book-sanctuary/internal/render"
)

type noopLogger struct{}

func (noopLogger) Info(msg string, fields ...interface{})             {}
func (noopLogger) Error(msg string, err error, fields ...interface{}) {}
func (noopLogger) Debug(msg string, fields ...interface{})            {}
func (noopLogger) Warn(msg string, fields ...interface{})             {}

// stubSource renders page N as an N pixel wide image. Pages listed in
// block wait for their channel to be closed.
type stubSource struct {
	pages int

	mu       sync.Mutex
	block    map[int]chan struct{}
	started  chan int
	rendered []int
	closed   bool
}

func newStubSource(pages int) *stubSource {
	return &stubSource{pages: pages, block: make(map[int]chan struct{}), started: make(chan int, 64)}
}

func (s *stubSource) hold(page int) chan struct{} {
	ch := make(chan struct{})
	s.mu.Lock()
	s.block[page] = ch
	s.mu.Unlock()
	return ch
}

func (s *stubSource) NumPages() int { return s.pages }

func (s *stubSource) PageSize(page int) (float64, float64, error) {
	return 612, 792, nil
}

func (s *stubSource) Render(ctx context.Context, page int, scale float64) (*image.RGBA, error) {
	s.started <- page
	s.mu.Lock()
	ch := s.block[page]
	s.mu.Unlock()
	if ch != nil {
		<-ch
	}

	s.mu.Lock()
	s.rendered = append(s.rendered, page)
	s.mu.Unlock()
	return image.NewRGBA(image.Rect(0, 0, page, 1)), nil
}

func (s *stubSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *stubSource) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type stubDecoder struct {
	source *stubSource
	err    error
}

func (d *stubDecoder) Open(data []byte) (render.PageSource, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.source, nil
}

// stubOpener serves docs. With gate set it signals entered and waits for
// gate to be closed before answering.
type stubOpener struct {
	docs    map[string]*domain.Document
	entered chan struct{}
	gate    chan struct{}
}

func (o *stubOpener) OpenContent(ctx context.Context, sess *domain.Session, id string) (*domain.Document, []byte, error) {
	if o.gate != nil {
		close(o.entered)
		<-o.gate
	}
	doc, ok := o.docs[id]
	if !ok {
		return nil, nil, domain.ErrDocumentNotFound
	}
	return doc, []byte("%PDF-1.7"), nil
}

type stubBookmarks struct {
	mu    sync.Mutex
	saved map[string]*domain.Bookmark
}

func newStubBookmarks() *stubBookmarks {
	return &stubBookmarks{saved: make(map[string]*domain.Bookmark)}
}

func (b *stubBookmarks) Load(ctx context.Context, sess *domain.Session, documentID string) (*domain.Bookmark, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bm, ok := b.saved[sess.UserID+"/"+documentID]
	if !ok {
		return nil, domain.ErrBookmarkNotFound
	}
	return bm, nil
}

func (b *stubBookmarks) Save(ctx context.Context, sess *domain.Session, documentID string, page, totalPages int, title string) (*domain.Bookmark, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bm := &domain.Bookmark{UserID: sess.UserID, DocumentID: documentID, CurrentPage: page, TotalPages: totalPages, DocumentTitle: title}
	b.saved[sess.UserID+"/"+documentID] = bm
	return bm, nil
}

func (b *stubBookmarks) List(ctx context.Context, sess *domain.Session) ([]*domain.Bookmark, error) {
	return nil, nil
}

func (b *stubBookmarks) Delete(ctx context.Context, sess *domain.Session, documentID string) error {
	return nil
}
