package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"book-sanctuary/internal/domain"
	apperrors "book-sanctuary/pkg/errors"
)

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, http.StatusTeapot, "nope")

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content type application/json, got %s", ct)
	}
	if strings.TrimSpace(rr.Body.String()) != `{"error":"nope"}` {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		message   string
		retryable bool
	}{
		{"network", apperrors.NewNetworkError("Failed to download PDF", errors.New("timeout")), http.StatusServiceUnavailable, "Failed to download PDF", true},
		{"format", apperrors.NewFormatError("PDF is password protected", domain.ErrDocumentEncrypted), http.StatusUnprocessableEntity, "Failed to load PDF: PDF is password protected", false},
		{"corrupt", fmt.Errorf("%w: bad xref", domain.ErrDocumentCorrupt), http.StatusUnprocessableEntity, "Failed to load PDF: Invalid PDF file", false},
		{"missing", domain.ErrDocumentMissing, http.StatusNotFound, "Failed to load PDF: PDF file not found", false},
		{"validation", apperrors.NewValidationError("bookId is required"), http.StatusBadRequest, "bookId is required", false},
		{"domain validation", &domain.ValidationError{Field: "theme", Message: "unknown theme"}, http.StatusBadRequest, "theme: unknown theme", false},
		{"not found", fmt.Errorf("load: %w", domain.ErrDocumentNotFound), http.StatusNotFound, "Document not found", false},
		{"page range", domain.ErrPageOutOfRange, http.StatusBadRequest, "Page out of range", false},
		{"reader shutdown", domain.ErrReaderShutdown, http.StatusServiceUnavailable, "Reader is shutting down", true},
		{"session", domain.ErrSessionNotFound, http.StatusNotFound, "Reader session not found", false},
		{"forbidden", apperrors.NewForbiddenError("Admin access required"), http.StatusForbidden, "Admin access required", false},
		{"internal", errors.New("firestore: unavailable"), http.StatusInternalServerError, "Internal server error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewMockHandlerLogger()
			rr := httptest.NewRecorder()
			writeServiceError(rr, logger, tt.err)

			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rr.Code)
			}
			body := rr.Body.String()
			if !strings.Contains(body, `"error":"`+tt.message+`"`) {
				t.Fatalf("unexpected response body: %s", body)
			}
			if got := strings.Contains(body, `"retryable":true`); got != tt.retryable {
				t.Fatalf("expected retryable %v in body: %s", tt.retryable, body)
			}
			if tt.status >= 500 && logger.Errors == 0 {
				t.Fatalf("expected server error to be logged")
			}
		})
	}
}
