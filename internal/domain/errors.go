package domain

import "errors"

// Domain errors
var (
	ErrDocumentNotFound  = errors.New("document not found")
	ErrBookmarkNotFound  = errors.New("bookmark not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrChapterNotFound   = errors.New("chapter not found")
	ErrHighlightNotFound = errors.New("highlight not found")
	ErrSessionNotFound   = errors.New("reader session not found")
	ErrSessionClosed     = errors.New("reader session closed")
	ErrReaderShutdown    = errors.New("reader is shutting down")
	ErrObjectNotFound    = errors.New("object not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidFile       = errors.New("invalid file")
	ErrDisallowedHost    = errors.New("host not allowed")

	// Decode failures. They are never retryable.
	ErrDocumentMissing   = errors.New("PDF file not found")
	ErrDocumentCorrupt   = errors.New("Invalid PDF file")
	ErrDocumentEncrypted = errors.New("PDF is password protected")
	ErrPageOutOfRange    = errors.New("page out of range")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
