package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorStatusCodes(t *testing.T) {
	cause := stderrors.New("boom")
	tests := []struct {
		name      string
		err       *AppError
		status    int
		retryable bool
	}{
		{"validation", NewValidationError("bad input", "title"), http.StatusBadRequest, false},
		{"format", NewFormatError("Invalid PDF file", cause), http.StatusUnprocessableEntity, false},
		{"not found", NewNotFoundError("missing"), http.StatusNotFound, false},
		{"unauthorized", NewUnauthorizedError("no token"), http.StatusUnauthorized, false},
		{"forbidden", NewForbiddenError("admins only"), http.StatusForbidden, false},
		{"internal", NewInternalError("db down", cause), http.StatusInternalServerError, false},
		{"network", NewNetworkError("timeout", cause), http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetStatusCode(tt.err); got != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, got)
			}
			if got := tt.err.Retryable(); got != tt.retryable {
				t.Fatalf("expected retryable %v, got %v", tt.retryable, got)
			}
		})
	}
}

func TestWrappedAppError(t *testing.T) {
	inner := NewNetworkError("upstream unreachable", stderrors.New("dial tcp"))
	wrapped := fmt.Errorf("fetch document: %w", inner)

	if !IsType(wrapped, ErrorTypeNetwork) {
		t.Fatalf("expected wrapped error to be a network error")
	}
	if GetStatusCode(wrapped) != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for wrapped network error, got %d", GetStatusCode(wrapped))
	}
	if GetStatusCode(stderrors.New("plain")) != http.StatusInternalServerError {
		t.Fatalf("expected 500 for plain error")
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := NewValidationError("title is required", "field=title")
	if err.Error() != "validation: title is required (field=title)" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	if NewNotFoundError("gone").Error() != "not_found: gone" {
		t.Fatalf("unexpected message: %s", NewNotFoundError("gone").Error())
	}
}
