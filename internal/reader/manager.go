package reader

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"book-sanctuary/internal/domain"
	"book-sanctuary/internal/render"

	"github.com/google/uuid"
)

// ContentOpener resolves a document the caller may read and downloads its PDF.
type ContentOpener interface {
	OpenContent(ctx context.Context, sess *domain.Session, id string) (*domain.Document, []byte, error)
}

// ManagerConfig wires a Manager.
type ManagerConfig struct {
	Documents   ContentOpener
	Bookmarks   domain.BookmarkService
	Decoder     render.Decoder
	Logger      domain.Logger
	MaxWidth    int
	IdleTimeout time.Duration
}

// Manager owns all open reading sessions.
type Manager struct {
	documents   ContentOpener
	bookmarks   domain.BookmarkService
	decoder     render.Decoder
	logger      domain.Logger
	maxWidth    int
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewManager creates a session manager.
func NewManager(cfg ManagerConfig) *Manager {
	idle := cfg.IdleTimeout
	if idle <= 0 {
		idle = 15 * time.Minute
	}
	return &Manager{
		documents:   cfg.Documents,
		bookmarks:   cfg.Bookmarks,
		decoder:     cfg.Decoder,
		logger:      cfg.Logger,
		maxWidth:    cfg.MaxWidth,
		idleTimeout: idle,
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
}

// Open downloads and decodes a document and resumes at the caller's bookmark.
func (m *Manager) Open(ctx context.Context, sess *domain.Session, req *domain.OpenReaderRequest) (*domain.ReaderState, error) {
	theme, err := domain.ParseTheme(string(req.Theme))
	if err != nil {
		return nil, err
	}
	vintage := true
	if req.Vintage != nil {
		vintage = *req.Vintage
	}
	if m.isClosed() {
		return nil, domain.ErrReaderShutdown
	}

	doc, data, err := m.documents.OpenContent(ctx, sess, req.DocumentID)
	if err != nil {
		return nil, err
	}

	source, err := m.decoder.Open(data)
	if err != nil {
		m.logger.Warn("Failed to decode document", "document_id", doc.ID, "error", err.Error())
		return nil, err
	}

	initialPage := 1
	bookmarked := false
	if m.bookmarks != nil {
		bookmark, err := m.bookmarks.Load(ctx, sess, doc.ID)
		switch {
		case err == nil:
			initialPage = bookmark.CurrentPage
			bookmarked = true
		case !errors.Is(err, domain.ErrBookmarkNotFound):
			m.logger.Warn("Failed to load bookmark", "document_id", doc.ID, "user_id", sess.UserID, "error", err.Error())
		}
	}

	params := renderParams{
		theme:          theme,
		vintage:        vintage,
		containerWidth: req.ContainerWidth,
		maxWidth:       m.maxWidth,
		seed:           render.SeedFor(sess.UserID, doc.ID),
	}

	id := uuid.New().String()
	session, err := newSession(id, sess.UserID, doc, source, initialPage, params, m.logger, m.now())
	if err != nil {
		source.Close()
		return nil, err
	}
	if bookmarked {
		session.markBookmarked()
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		if err := session.Close(); err != nil {
			m.logger.Error("Failed to close reader session", err, "session_id", id)
		}
		return nil, domain.ErrReaderShutdown
	}
	m.sessions[id] = session
	m.mu.Unlock()

	m.logger.Info("Reader session opened",
		"session_id", id,
		"document_id", doc.ID,
		"user_id", sess.UserID,
		"page", session.State().Page,
		"total_pages", source.NumPages(),
	)
	return session.State(), nil
}

func (m *Manager) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// get returns the caller's session. Sessions owned by other users are
// reported as missing.
func (m *Manager) get(sess *domain.Session, id string) (*Session, error) {
	m.mu.Lock()
	session, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok || sess == nil || session.userID != sess.UserID {
		return nil, domain.ErrSessionNotFound
	}
	session.touch(m.now())
	return session, nil
}

func (m *Manager) State(sess *domain.Session, id string) (*domain.ReaderState, error) {
	session, err := m.get(sess, id)
	if err != nil {
		return nil, err
	}
	return session.State(), nil
}

func (m *Manager) Next(sess *domain.Session, id string) (*domain.ReaderState, error) {
	session, err := m.get(sess, id)
	if err != nil {
		return nil, err
	}
	return session.Next()
}

func (m *Manager) Prev(sess *domain.Session, id string) (*domain.ReaderState, error) {
	session, err := m.get(sess, id)
	if err != nil {
		return nil, err
	}
	return session.Prev()
}

func (m *Manager) Goto(sess *domain.Session, id string, page int) (*domain.ReaderState, error) {
	session, err := m.get(sess, id)
	if err != nil {
		return nil, err
	}
	return session.Goto(page)
}

func (m *Manager) SetTheme(sess *domain.Session, id string, theme domain.Theme, vintage bool) (*domain.ReaderState, error) {
	theme, err := domain.ParseTheme(string(theme))
	if err != nil {
		return nil, err
	}
	session, err := m.get(sess, id)
	if err != nil {
		return nil, err
	}
	return session.SetTheme(theme, vintage)
}

func (m *Manager) Frame(ctx context.Context, sess *domain.Session, id string) (image.Image, error) {
	session, err := m.get(sess, id)
	if err != nil {
		return nil, err
	}
	return session.Frame(ctx)
}

// SaveBookmark records the session's current page.
func (m *Manager) SaveBookmark(ctx context.Context, sess *domain.Session, id string) (*domain.Bookmark, error) {
	session, err := m.get(sess, id)
	if err != nil {
		return nil, err
	}
	page, total, title, err := session.position()
	if err != nil {
		return nil, err
	}

	bookmark, err := m.bookmarks.Save(ctx, sess, session.document.ID, page, total, title)
	if err != nil {
		return nil, err
	}
	session.markBookmarked()
	return bookmark, nil
}

func (m *Manager) Close(sess *domain.Session, id string) error {
	session, err := m.get(sess, id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	m.logger.Info("Reader session closed", "session_id", id, "user_id", sess.UserID)
	return session.Close()
}

// ReapIdle closes sessions untouched since before now minus the idle timeout.
func (m *Manager) ReapIdle(now time.Time) int {
	cutoff := now.Add(-m.idleTimeout)

	var idle []*Session
	m.mu.Lock()
	for id, session := range m.sessions {
		if session.idleSince().Before(cutoff) {
			idle = append(idle, session)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, session := range idle {
		if err := session.Close(); err != nil {
			m.logger.Error("Failed to close idle session", err, "session_id", session.id)
		}
	}
	if len(idle) > 0 {
		m.logger.Info("Reaped idle reader sessions", "count", len(idle))
	}
	return len(idle)
}

// Run reaps idle sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	interval := m.idleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			m.ReapIdle(t)
		}
	}
}

// Shutdown closes every open session. Opens that finish afterwards fail
// with ErrReaderShutdown.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.closed = true
	sessions := make([]*Session, 0, len(m.sessions))
	for id, session := range m.sessions {
		sessions = append(sessions, session)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, session := range sessions {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			if err := s.Close(); err != nil {
				m.logger.Error("Failed to close reader session", err, "session_id", s.id)
			}
		}(session)
	}
	wg.Wait()
}
