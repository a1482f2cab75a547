package handler

import (
	"net/http"

	"book-sanctuary/internal/domain"

	"github.com/gorilla/mux"
)

type BookmarkHandler struct {
	bookmarkService domain.BookmarkService
	logger          domain.Logger
}

func NewBookmarkHandler(bookmarkService domain.BookmarkService, logger domain.Logger) *BookmarkHandler {
	return &BookmarkHandler{bookmarkService: bookmarkService, logger: logger}
}

type saveBookmarkRequest struct {
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	Title       string `json:"bookTitle"`
}

// ListBookmarks returns the caller's continue-reading shelf.
func (h *BookmarkHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	bookmarks, err := h.bookmarkService.List(r.Context(), sess)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if bookmarks == nil {
		bookmarks = make([]*domain.Bookmark, 0)
	}
	writeJSON(w, http.StatusOK, bookmarks)
}

// GetBookmark responds 404 when the caller never saved a position.
func (h *BookmarkHandler) GetBookmark(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	bookmark, err := h.bookmarkService.Load(r.Context(), sess, mux.Vars(r)["documentId"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmark)
}

// SaveBookmark overwrites the caller's position in a document.
func (h *BookmarkHandler) SaveBookmark(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var req saveBookmarkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	bookmark, err := h.bookmarkService.Save(r.Context(), sess, mux.Vars(r)["documentId"], req.CurrentPage, req.TotalPages, req.Title)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmark)
}

func (h *BookmarkHandler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	if err := h.bookmarkService.Delete(r.Context(), sess, mux.Vars(r)["documentId"]); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
