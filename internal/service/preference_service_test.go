package service

import (
	"context"
	"testing"

	"book-sanctuary/internal/domain"
	apperrors "book-sanctuary/pkg/errors"
)

func TestPreferenceService_GetAndUpdate(t *testing.T) {
	users := NewMockUserRepository()
	users.Create(context.Background(), &domain.User{ID: "reader-1", Preferences: domain.Preferences{FontSize: "large"}})
	svc := NewPreferenceService(users, NewMockLogger())
	ctx := context.Background()

	prefs, err := svc.GetPreferences(ctx, readerSession)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if prefs.FontSize != "large" || prefs.Theme != "dark-academia" {
		t.Fatalf("expected stored values over defaults, got %+v", prefs)
	}

	updated, err := svc.UpdatePreferences(ctx, readerSession, domain.Preferences{Theme: "pink-floral"})
	if err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}
	if updated.Theme != "pink-floral" || updated.FontSize != "large" {
		t.Fatalf("expected partial update, got %+v", updated)
	}

	if _, err := svc.UpdatePreferences(ctx, readerSession, domain.Preferences{ReadingWidth: "enormous"}); !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
