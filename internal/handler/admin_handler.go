package handler

import (
	"mime/multipart"
	"net/http"

	"book-sanctuary/internal/domain"
	apperrors "book-sanctuary/pkg/errors"

	"github.com/gorilla/mux"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// AdminHandler serves the catalog management endpoints. Every route is
// mounted behind RequireAdmin; the services check the session again.
type AdminHandler struct {
	documentService domain.DocumentService
	chapterService  domain.ChapterService
	logger          domain.Logger
}

func NewAdminHandler(documentService domain.DocumentService, chapterService domain.ChapterService, logger domain.Logger) *AdminHandler {
	return &AdminHandler{
		documentService: documentService,
		chapterService:  chapterService,
		logger:          logger,
	}
}

// ListDocuments returns every document regardless of status.
func (h *AdminHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	sess, _ := GetSessionFromContext(r)

	docs, err := h.documentService.ListAll(r.Context(), sess)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if docs == nil {
		docs = make([]*domain.Document, 0)
	}
	writeJSON(w, http.StatusOK, docs)
}

// UploadDocument accepts multipart/form-data with fields title, description,
// pdf (required) and cover (optional image).
func (h *AdminHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	sess, _ := GetSessionFromContext(r)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	input := &domain.UploadInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}

	pdf, pdfHeader, err := r.FormFile("pdf")
	if err == nil {
		defer pdf.Close()
		input.Content = pdf
		input.FileName = pdfHeader.Filename
	} else if err != http.ErrMissingFile {
		writeError(w, http.StatusBadRequest, "Invalid PDF upload")
		return
	}

	cover, coverHeader, err := r.FormFile("cover")
	if err == nil {
		defer cover.Close()
		input.Cover = cover
		input.CoverName = coverHeader.Filename
		input.CoverContentType = partContentType(coverHeader)
	} else if err != http.ErrMissingFile {
		writeError(w, http.StatusBadRequest, "Invalid cover upload")
		return
	}

	doc, err := h.documentService.Upload(r.Context(), sess, input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	h.logger.Info("Document uploaded", "document_id", doc.ID, "user_id", sess.UserID, "file_size", doc.FileSize)
	writeJSON(w, http.StatusCreated, doc)
}

func partContentType(header *multipart.FileHeader) string {
	if header == nil {
		return ""
	}
	return header.Header.Get("Content-Type")
}

// UpdateDocument handles PATCH /admin/documents/{id}
func (h *AdminHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	sess, _ := GetSessionFromContext(r)

	var update domain.DocumentUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	doc, err := h.documentService.UpdateMetadata(r.Context(), sess, mux.Vars(r)["id"], &update)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type statusRequest struct {
	Status domain.DocumentStatus `json:"status"`
}

// SetStatus handles PUT /admin/documents/{id}/status
func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	sess, _ := GetSessionFromContext(r)

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if !req.Status.Valid() {
		writeServiceError(w, h.logger, apperrors.NewValidationError("Invalid status", string(req.Status)))
		return
	}

	doc, err := h.documentService.SetStatus(r.Context(), sess, mux.Vars(r)["id"], req.Status)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// ToggleStatus flips a document between published and draft.
func (h *AdminHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	sess, _ := GetSessionFromContext(r)

	doc, err := h.documentService.ToggleStatus(r.Context(), sess, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DeleteDocument removes the record and, best effort, its binaries.
func (h *AdminHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	sess, _ := GetSessionFromContext(r)
	id := mux.Vars(r)["id"]

	if err := h.documentService.Delete(r.Context(), sess, id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":      id,
		"message": "Document deleted successfully",
	})
}

// CreateChapter handles POST /admin/documents/{id}/chapters
func (h *AdminHandler) CreateChapter(w http.ResponseWriter, r *http.Request) {
	sess, _ := GetSessionFromContext(r)

	var chapter domain.Chapter
	if err := decodeJSON(r, &chapter); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	chapter.DocumentID = mux.Vars(r)["id"]

	created, err := h.chapterService.Create(r.Context(), sess, &chapter)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateChapter handles PATCH /admin/chapters/{id}
func (h *AdminHandler) UpdateChapter(w http.ResponseWriter, r *http.Request) {
	sess, _ := GetSessionFromContext(r)

	var update domain.ChapterUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	chapter, err := h.chapterService.Update(r.Context(), sess, mux.Vars(r)["id"], &update)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, chapter)
}

// DeleteChapter handles DELETE /admin/chapters/{id}
func (h *AdminHandler) DeleteChapter(w http.ResponseWriter, r *http.Request) {
	sess, _ := GetSessionFromContext(r)

	if err := h.chapterService.Delete(r.Context(), sess, mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
