package handler

import (
	"net/http"

	"book-sanctuary/internal/domain"

	"github.com/gorilla/mux"
)

type ChapterHandler struct {
	chapterService domain.ChapterService
	logger         domain.Logger
}

func NewChapterHandler(chapterService domain.ChapterService, logger domain.Logger) *ChapterHandler {
	return &ChapterHandler{chapterService: chapterService, logger: logger}
}

// ListChapters handles GET /documents/{id}/chapters
func (h *ChapterHandler) ListChapters(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	chapters, err := h.chapterService.List(r.Context(), sess, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if chapters == nil {
		chapters = make([]*domain.Chapter, 0)
	}
	writeJSON(w, http.StatusOK, chapters)
}

// GetChapter handles GET /chapters/{id}
func (h *ChapterHandler) GetChapter(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	chapter, err := h.chapterService.Get(r.Context(), sess, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, chapter)
}
