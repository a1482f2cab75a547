package service

import (
	"context"

	"book-sanctuary/internal/domain"
	apperrors "book-sanctuary/pkg/errors"
)

type PreferenceService struct {
	users  domain.UserRepository
	logger domain.Logger
}

func NewPreferenceService(users domain.UserRepository, logger domain.Logger) *PreferenceService {
	return &PreferenceService{users: users, logger: logger}
}

// GetPreferences retrieves user preferences
func (s *PreferenceService) GetPreferences(ctx context.Context, sess *domain.Session) (*domain.Preferences, error) {
	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	prefs := domain.DefaultPreferences().Merge(user.Preferences)
	return &prefs, nil
}

// UpdatePreferences applies the non-empty fields of prefs
func (s *PreferenceService) UpdatePreferences(ctx context.Context, sess *domain.Session, prefs domain.Preferences) (*domain.Preferences, error) {
	current, err := s.GetPreferences(ctx, sess)
	if err != nil {
		return nil, err
	}

	merged := current.Merge(prefs)
	if err := merged.Validate(); err != nil {
		return nil, apperrors.NewValidationError("Invalid preferences", err.Error())
	}

	if err := s.users.UpdatePreferences(ctx, sess.UserID, merged); err != nil {
		return nil, err
	}
	s.logger.Debug("Preferences updated", "user_id", sess.UserID)
	return &merged, nil
}
