// Package handler provides HTTP handlers for the API.
package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"book-sanctuary/internal/domain"
	apperrors "book-sanctuary/pkg/errors"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

// DocumentHandler handles document-related HTTP requests
type DocumentHandler struct {
	documentService domain.DocumentService
	bookmarkService domain.BookmarkService
	pages           domain.PageRenderer
	logger          domain.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	documentService domain.DocumentService,
	bookmarkService domain.BookmarkService,
	pages domain.PageRenderer,
	logger domain.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		bookmarkService: bookmarkService,
		pages:           pages,
		logger:          logger,
	}
}

// libraryEntry is a published document with the caller's reading position.
type libraryEntry struct {
	*domain.Document
	Bookmark *domain.Bookmark `json:"bookmark,omitempty"`
}

// ListDocuments returns the public gallery. Bookmarks are attached inline so
// clients can show progress without extra requests.
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var (
		documents []*domain.Document
		bookmarks []*domain.Bookmark
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		docs, err := h.documentService.ListPublished(ctx)
		documents = docs
		return err
	})
	g.Go(func() error {
		marks, err := h.bookmarkService.List(ctx, sess)
		if err != nil {
			// Progress is optional; the gallery still renders without it.
			h.logger.Warn("Failed to load bookmarks for library", "user_id", sess.UserID, "error", err.Error())
			return nil
		}
		bookmarks = marks
		return nil
	})
	if err := g.Wait(); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	byDocument := make(map[string]*domain.Bookmark, len(bookmarks))
	for _, b := range bookmarks {
		byDocument[b.DocumentID] = b
	}

	entries := make([]libraryEntry, 0, len(documents))
	for _, doc := range documents {
		if doc == nil {
			continue
		}
		entries = append(entries, libraryEntry{Document: doc, Bookmark: byDocument[doc.ID]})
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetDocument handles GET /documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	doc, err := h.documentService.Get(r.Context(), sess, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// GetContent streams the document's PDF bytes.
func (h *DocumentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	doc, data, err := h.documentService.OpenContent(r.Context(), sess, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.FileName))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Debug("Client closed PDF stream", "document_id", doc.ID, "error", err.Error())
	}
}

// RenderPage returns one themed page as PNG without opening a reader session.
// Query: theme, width, seed, vintage.
func (h *DocumentHandler) RenderPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil || page < 1 {
		writeError(w, http.StatusBadRequest, "Invalid page number")
		return
	}

	opts, err := parseRenderOptions(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	img, err := h.pages.RenderPage(r.Context(), sess, vars["id"], page, opts)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := writePNG(w, img); err != nil {
		h.logger.Debug("Failed to write page", "document_id", vars["id"], "page", page, "error", err.Error())
	}
}

func parseRenderOptions(r *http.Request) (domain.RenderOptions, error) {
	q := r.URL.Query()

	theme, err := domain.ParseTheme(q.Get("theme"))
	if err != nil {
		return domain.RenderOptions{}, err
	}
	opts := domain.RenderOptions{Theme: theme, Vintage: true}

	if v := q.Get("width"); v != "" {
		width, err := strconv.Atoi(v)
		if err != nil {
			return opts, apperrors.NewValidationError("width must be an integer")
		}
		opts.ContainerWidth = width
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, apperrors.NewValidationError("seed must be an unsigned integer")
		}
		opts.Seed = seed
	}
	if v := q.Get("vintage"); v != "" {
		vintage, err := strconv.ParseBool(v)
		if err != nil {
			return opts, apperrors.NewValidationError("vintage must be true or false")
		}
		opts.Vintage = vintage
	}
	return opts, nil
}
