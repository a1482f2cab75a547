package handler

import (
	"net/http"

	"book-sanctuary/internal/domain"

	"github.com/gorilla/mux"
)

// HighlightHandler handles highlight-related HTTP requests
type HighlightHandler struct {
	highlightService domain.HighlightService
	logger           domain.Logger
}

// NewHighlightHandler creates a new highlight handler
func NewHighlightHandler(highlightService domain.HighlightService, logger domain.Logger) *HighlightHandler {
	return &HighlightHandler{highlightService: highlightService, logger: logger}
}

// ListHighlights handles GET /highlights?bookId=
func (h *HighlightHandler) ListHighlights(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	highlights, err := h.highlightService.List(r.Context(), sess, r.URL.Query().Get("bookId"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if highlights == nil {
		highlights = make([]*domain.Highlight, 0)
	}
	writeJSON(w, http.StatusOK, highlights)
}

// CreateHighlight handles POST /highlights
func (h *HighlightHandler) CreateHighlight(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var highlight domain.Highlight
	if err := decodeJSON(r, &highlight); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	created, err := h.highlightService.Create(r.Context(), sess, &highlight)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateHighlight handles PATCH /highlights/{id}
func (h *HighlightHandler) UpdateHighlight(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var update domain.HighlightUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	updated, err := h.highlightService.Update(r.Context(), sess, mux.Vars(r)["id"], &update)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteHighlight handles DELETE /highlights/{id}
func (h *HighlightHandler) DeleteHighlight(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	if err := h.highlightService.Delete(r.Context(), sess, mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
