package reader

import (
	"context"
	"errors"
	"testing"
	"time"

	"book-sanctuary/internal/domain"
)

func plainParams() renderParams {
	return renderParams{theme: domain.ThemeCozyCabin, vintage: false, containerWidth: 800, maxWidth: 900}
}

func openTestSession(t *testing.T, src *stubSource, initial int) *Session {
	t.Helper()
	doc := &domain.Document{ID: "doc-1", Title: "Walden"}
	s, err := newSession("sess-1", "user-1", doc, src, initial, plainParams(), noopLogger{}, time.Now())
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func frameWidth(t *testing.T, s *Session) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	img, err := s.Frame(ctx)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	return img.Bounds().Dx()
}

func TestSession_InitialRender(t *testing.T) {
	s := openTestSession(t, newStubSource(5), 3)

	if got := frameWidth(t, s); got != 3 {
		t.Fatalf("expected initial frame for page 3, got page %d", got)
	}
	state := s.State()
	if state.Page != 3 || state.TotalPages != 5 || state.DocumentTitle != "Walden" {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestSession_StaleRenderIsDiscarded(t *testing.T) {
	src := newStubSource(5)
	release := src.hold(1)
	s := openTestSession(t, src, 1)

	if page := <-src.started; page != 1 {
		t.Fatalf("expected page 1 render to start, got %d", page)
	}

	for i := 0; i < 3; i++ {
		if _, err := s.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	close(release)

	if got := frameWidth(t, s); got != 4 {
		t.Fatalf("expected frame for the latest page 4, got page %d", got)
	}
	if s.State().Page != 4 {
		t.Fatalf("expected controller on page 4, got %d", s.State().Page)
	}
}

func TestSession_NavigationReportsChanges(t *testing.T) {
	s := openTestSession(t, newStubSource(2), 1)

	state, _ := s.Prev()
	if state.Changed || state.Page != 1 {
		t.Fatalf("expected no-op prev on page 1, got %+v", state)
	}
	state, _ = s.Next()
	if !state.Changed || state.Page != 2 {
		t.Fatalf("expected move to page 2, got %+v", state)
	}
	state, _ = s.Next()
	if state.Changed {
		t.Fatalf("expected no-op next on last page, got %+v", state)
	}

	state, err := s.Goto(9)
	if err != nil {
		t.Fatalf("expected out of range goto to be ignored, got %v", err)
	}
	if state.Changed || state.Page != 2 {
		t.Fatalf("expected ignored goto to leave page 2, got %+v", state)
	}
}

func TestSession_SetThemeRerendersCurrentPage(t *testing.T) {
	src := newStubSource(3)
	s := openTestSession(t, src, 2)
	frameWidth(t, s)

	state, err := s.SetTheme(domain.ThemeCozyCabin, false)
	if err != nil || state.Changed {
		t.Fatalf("expected unchanged theme to be a no-op, got %+v (%v)", state, err)
	}

	state, err = s.SetTheme(domain.ThemeMidnightLibrary, true)
	if err != nil || !state.Changed || state.Theme != domain.ThemeMidnightLibrary {
		t.Fatalf("expected theme change, got %+v (%v)", state, err)
	}

	img, err := s.Frame(context.Background())
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if img.Bounds().Dx() != 2 {
		t.Fatalf("expected re-render of page 2, got width %d", img.Bounds().Dx())
	}
}

func TestSession_CloseWaitsForInFlightRender(t *testing.T) {
	src := newStubSource(3)
	release := src.hold(1)
	doc := &domain.Document{ID: "doc-1", Title: "Walden"}
	s, err := newSession("sess-1", "user-1", doc, src, 1, plainParams(), noopLogger{}, time.Now())
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	<-src.started

	closed := make(chan error, 1)
	go func() { closed <- s.Close() }()

	select {
	case <-closed:
		t.Fatal("expected Close to wait for the in-flight render")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-closed:
		if err != nil {
			t.Fatalf("Close: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return after render finished")
	}

	if !src.isClosed() {
		t.Fatal("expected document to be released on close")
	}
	if _, err := s.Next(); !errors.Is(err, domain.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed after close, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("expected second Close to be a no-op, got %v", err)
	}
}

func TestSession_FrameHonorsContext(t *testing.T) {
	src := newStubSource(2)
	release := src.hold(1)
	defer close(release)
	s := openTestSession(t, src, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.Frame(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
