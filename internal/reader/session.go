package reader

import (
	"context"
	"image"
	"sync"
	"time"

	"book-sanctuary/internal/domain"
	"book-sanctuary/internal/render"
)

type renderParams struct {
	theme          domain.Theme
	vintage        bool
	containerWidth int
	maxWidth       int
	seed           uint64
}

// renderJob is one requested frame. Only the job matching the session's
// latest sequence number is ever shown.
type renderJob struct {
	seq  uint64
	page int
	done chan struct{}
	img  image.Image
	err  error
}

// Session is one open document for one user. Navigation is synchronous;
// rendering happens in the background and at most one render runs at a time.
type Session struct {
	id       string
	userID   string
	document *domain.Document
	source   render.PageSource
	logger   domain.Logger

	mu         sync.Mutex
	ctrl       *Controller
	params     renderParams
	seq        uint64
	latest     *renderJob
	cancel     context.CancelFunc
	closed     bool
	bookmarked bool
	lastUsed   time.Time

	gate chan struct{}
	wg   sync.WaitGroup
}

func newSession(id, userID string, doc *domain.Document, source render.PageSource, initialPage int, params renderParams, logger domain.Logger, now time.Time) (*Session, error) {
	s := &Session{
		id:       id,
		userID:   userID,
		document: doc,
		source:   source,
		logger:   logger,
		params:   params,
		lastUsed: now,
		gate:     make(chan struct{}, 1),
	}

	ctrl, err := NewController(source.NumPages(), initialPage, s.startRenderLocked)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.ctrl = ctrl
	ctrl.Refresh()
	s.mu.Unlock()
	return s, nil
}

// startRenderLocked supersedes any in-flight render. Callers hold s.mu.
func (s *Session) startRenderLocked(page int) {
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++

	ctx, cancel := context.WithCancel(context.Background())
	job := &renderJob{seq: s.seq, page: page, done: make(chan struct{})}
	s.cancel = cancel
	s.latest = job
	params := s.params

	s.wg.Add(1)
	go s.run(ctx, job, params)
}

func (s *Session) run(ctx context.Context, job *renderJob, params renderParams) {
	defer s.wg.Done()
	defer close(job.done)

	select {
	case s.gate <- struct{}{}:
	case <-ctx.Done():
		job.err = ctx.Err()
		return
	}
	defer func() { <-s.gate }()

	if err := ctx.Err(); err != nil {
		job.err = err
		return
	}

	start := time.Now()
	raster, err := render.Rasterize(ctx, s.source, job.page, params.containerWidth, params.maxWidth)
	if err != nil {
		job.err = err
		return
	}
	job.img = render.Process(raster.Image, params.theme, render.Options{
		Vintage: params.vintage,
		Seed:    params.seed + uint64(job.page),
	})

	s.mu.Lock()
	stale := job.seq != s.seq
	s.mu.Unlock()
	if stale {
		s.logger.Debug("Discarding stale frame", "session_id", s.id, "page", job.page)
		return
	}
	s.logger.Debug("Rendered page", "session_id", s.id, "page", job.page, "duration_ms", time.Since(start).Milliseconds())
}

// Frame waits for the most recently requested render.
func (s *Session) Frame(ctx context.Context) (image.Image, error) {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return nil, domain.ErrSessionClosed
		}
		job := s.latest
		s.mu.Unlock()

		select {
		case <-job.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		s.mu.Lock()
		current := job == s.latest
		s.mu.Unlock()
		if current {
			return job.img, job.err
		}
	}
}

func (s *Session) State() *domain.ReaderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(false)
}

func (s *Session) stateLocked(changed bool) *domain.ReaderState {
	return &domain.ReaderState{
		SessionID:     s.id,
		DocumentID:    s.document.ID,
		DocumentTitle: s.document.Title,
		Page:          s.ctrl.Page(),
		TotalPages:    s.ctrl.Total(),
		Theme:         s.params.theme,
		Vintage:       s.params.vintage,
		Bookmarked:    s.bookmarked,
		Changed:       changed,
	}
}

func (s *Session) navigate(move func(*Controller) bool) (*domain.ReaderState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	changed := move(s.ctrl)
	return s.stateLocked(changed), nil
}

func (s *Session) Next() (*domain.ReaderState, error) {
	return s.navigate((*Controller).Next)
}

func (s *Session) Prev() (*domain.ReaderState, error) {
	return s.navigate((*Controller).Prev)
}

// Goto reports Changed=false for out of range pages instead of failing.
func (s *Session) Goto(page int) (*domain.ReaderState, error) {
	return s.navigate(func(c *Controller) bool { return c.Goto(page) })
}

// SetTheme re-renders the current page when theme or vintage differ.
func (s *Session) SetTheme(theme domain.Theme, vintage bool) (*domain.ReaderState, error) {
	return s.navigate(func(c *Controller) bool {
		if s.params.theme == theme && s.params.vintage == vintage {
			return false
		}
		s.params.theme = theme
		s.params.vintage = vintage
		c.Refresh()
		return true
	})
}

// position returns what a bookmark should record.
func (s *Session) position() (page, total int, title string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, 0, "", domain.ErrSessionClosed
	}
	return s.ctrl.Page(), s.ctrl.Total(), s.document.Title, nil
}

func (s *Session) markBookmarked() {
	s.mu.Lock()
	s.bookmarked = true
	s.mu.Unlock()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Close cancels pending work, waits for in-flight renders and releases the
// decoded document. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return s.source.Close()
}
