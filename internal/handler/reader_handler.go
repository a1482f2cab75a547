package handler

import (
	"net/http"

	"book-sanctuary/internal/domain"

	"github.com/gorilla/mux"
)

// ReaderHandler exposes server-side reading sessions.
type ReaderHandler struct {
	reader domain.ReaderService
	logger domain.Logger
}

func NewReaderHandler(reader domain.ReaderService, logger domain.Logger) *ReaderHandler {
	return &ReaderHandler{reader: reader, logger: logger}
}

type gotoRequest struct {
	Page int `json:"page"`
}

type themeRequest struct {
	Theme   domain.Theme `json:"theme"`
	Vintage *bool        `json:"vintage,omitempty"`
}

// ListThemes handles GET /themes
func (h *ReaderHandler) ListThemes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Themes())
}

// OpenSession handles POST /reader/sessions. The session resumes at the
// caller's bookmark when one exists.
func (h *ReaderHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var req domain.OpenReaderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if req.DocumentID == "" {
		writeError(w, http.StatusBadRequest, "documentId is required")
		return
	}

	state, err := h.reader.Open(r.Context(), sess, &req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

func (h *ReaderHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(sess *domain.Session, id string) (*domain.ReaderState, error) {
		return h.reader.State(sess, id)
	})
}

func (h *ReaderHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.reader.Next)
}

func (h *ReaderHandler) Prev(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.reader.Prev)
}

// Goto handles POST /reader/sessions/{id}/goto with body {"page": n}.
func (h *ReaderHandler) Goto(w http.ResponseWriter, r *http.Request) {
	var req gotoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	h.respond(w, r, func(sess *domain.Session, id string) (*domain.ReaderState, error) {
		return h.reader.Goto(sess, id, req.Page)
	})
}

// SetTheme re-renders the current page with a new theme. An omitted vintage
// flag keeps the session's current setting.
func (h *ReaderHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	h.respond(w, r, func(sess *domain.Session, id string) (*domain.ReaderState, error) {
		var vintage bool
		if req.Vintage != nil {
			vintage = *req.Vintage
		} else {
			current, err := h.reader.State(sess, id)
			if err != nil {
				return nil, err
			}
			vintage = current.Vintage
		}
		return h.reader.SetTheme(sess, id, req.Theme, vintage)
	})
}

// Frame returns the latest rendered page as PNG. It waits for an in-flight
// render to finish.
func (h *ReaderHandler) Frame(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	id := mux.Vars(r)["id"]

	img, err := h.reader.Frame(r.Context(), sess, id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := writePNG(w, img); err != nil {
		h.logger.Debug("Failed to write frame", "session_id", id, "error", err.Error())
	}
}

// SaveBookmark stores the session's current page as the caller's bookmark.
func (h *ReaderHandler) SaveBookmark(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	bookmark, err := h.reader.SaveBookmark(r.Context(), sess, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmark)
}

func (h *ReaderHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	if err := h.reader.Close(sess, mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReaderHandler) respond(w http.ResponseWriter, r *http.Request, fn func(*domain.Session, string) (*domain.ReaderState, error)) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	state, err := fn(sess, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
