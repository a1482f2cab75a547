package handler

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"

	"book-sanctuary/internal/domain"
	apperrors "book-sanctuary/pkg/errors"
)

type contextKey string

const sessionContextKey contextKey = "session"

// maxJSONBody bounds request bodies decoded by decodeJSON.
const maxJSONBody = 1 << 20

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// WithSession stores the authenticated caller on ctx.
func WithSession(ctx context.Context, sess *domain.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// GetSessionFromContext extracts the authenticated caller from request context
func GetSessionFromContext(r *http.Request) (*domain.Session, bool) {
	sess, ok := r.Context().Value(sessionContextKey).(*domain.Session)
	return sess, ok && sess != nil
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Error: message})
}

func writePNG(w http.ResponseWriter, img image.Image) error {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	return png.Encode(w, img)
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		return apperrors.NewValidationError("Invalid request body", err.Error())
	}
	return nil
}

// writeServiceError maps an error returned by a service to a status code and
// a user-facing message. Server-side failures are logged.
func writeServiceError(w http.ResponseWriter, logger domain.Logger, err error) {
	status, resp := classifyError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", err, "status", status)
	}
	writeJSON(w, status, resp)
}

func classifyError(err error) (int, errorResponse) {
	if appErr, ok := apperrors.As(err); ok {
		msg := appErr.Message
		if appErr.Type == apperrors.ErrorTypeFormat {
			msg = "Failed to load PDF: " + msg
		}
		return appErr.StatusCode, errorResponse{Error: msg, Retryable: appErr.Retryable()}
	}

	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest, errorResponse{Error: validation.Error()}
	}

	switch {
	case errors.Is(err, domain.ErrDocumentEncrypted):
		return http.StatusUnprocessableEntity, errorResponse{Error: "Failed to load PDF: " + domain.ErrDocumentEncrypted.Error()}
	case errors.Is(err, domain.ErrDocumentCorrupt):
		return http.StatusUnprocessableEntity, errorResponse{Error: "Failed to load PDF: " + domain.ErrDocumentCorrupt.Error()}
	case errors.Is(err, domain.ErrDocumentMissing):
		return http.StatusNotFound, errorResponse{Error: "Failed to load PDF: " + domain.ErrDocumentMissing.Error()}
	case errors.Is(err, domain.ErrPageOutOfRange):
		return http.StatusBadRequest, errorResponse{Error: "Page out of range"}
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound, errorResponse{Error: "Document not found"}
	case errors.Is(err, domain.ErrBookmarkNotFound):
		return http.StatusNotFound, errorResponse{Error: "Bookmark not found"}
	case errors.Is(err, domain.ErrChapterNotFound):
		return http.StatusNotFound, errorResponse{Error: "Chapter not found"}
	case errors.Is(err, domain.ErrHighlightNotFound):
		return http.StatusNotFound, errorResponse{Error: "Highlight not found"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "User not found"}
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, errorResponse{Error: "Reader session not found"}
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusGone, errorResponse{Error: "Reader session closed"}
	case errors.Is(err, domain.ErrReaderShutdown):
		return http.StatusServiceUnavailable, errorResponse{Error: "Reader is shutting down", Retryable: true}
	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden, errorResponse{Error: "Access denied"}
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, errorResponse{Error: "Invalid token"}
	case errors.Is(err, domain.ErrDisallowedHost):
		return http.StatusBadRequest, errorResponse{Error: "Invalid PDF URL"}
	case errors.Is(err, domain.ErrInvalidFile):
		return http.StatusBadRequest, errorResponse{Error: "Invalid file"}
	case errors.Is(err, context.Canceled):
		// The client went away; the status is never read.
		return 499, errorResponse{Error: "Request canceled"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errorResponse{Error: "Request timed out", Retryable: true}
	}
	return http.StatusInternalServerError, errorResponse{Error: "Internal server error"}
}
