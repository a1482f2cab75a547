package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"book-sanctuary/internal/domain"
	apperrors "book-sanctuary/pkg/errors"
)

const adminFlagCacheTTL = 30 * time.Second

type adminFlagCacheEntry struct {
	isAdmin   bool
	expiresAt time.Time
}

type AuthService struct {
	users      domain.UserRepository
	identity   domain.IdentityProvider
	tokens     *SessionTokens
	adminEmail string
	logger     domain.Logger
	now        func() time.Time

	adminCacheMu sync.RWMutex
	adminCache   map[string]adminFlagCacheEntry
}

func NewAuthService(
	users domain.UserRepository,
	identity domain.IdentityProvider,
	tokens *SessionTokens,
	adminEmail string,
	logger domain.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		identity:   identity,
		tokens:     tokens,
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		adminCache: make(map[string]adminFlagCacheEntry),
	}
}

// SignIn verifies an identity provider credential, creates the user on first
// sign-in and issues a session token.
func (s *AuthService) SignIn(ctx context.Context, credential string) (*domain.Session, *domain.User, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, nil, apperrors.NewValidationError("credential is required")
	}

	identity, err := s.identity.Verify(ctx, credential)
	if err != nil {
		s.logger.Warn("Sign-in rejected", "error", err.Error())
		return nil, nil, apperrors.NewUnauthorizedError("Invalid credential")
	}

	now := s.now()
	user, err := s.users.GetByID(ctx, identity.Subject)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		user = &domain.User{
			ID:          identity.Subject,
			Email:       identity.Email,
			DisplayName: identity.DisplayName,
			PhotoURL:    identity.PhotoURL,
			IsAdmin:     s.adminEmail != "" && strings.EqualFold(identity.Email, s.adminEmail),
			Preferences: domain.DefaultPreferences(),
			CreatedAt:   now,
			LastLogin:   now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, nil, fmt.Errorf("create user: %w", err)
		}
		s.logger.Info("User created", "user_id", user.ID, "is_admin", user.IsAdmin)
	case err != nil:
		return nil, nil, fmt.Errorf("load user: %w", err)
	default:
		if err := s.users.TouchLogin(ctx, user.ID, identity.DisplayName, identity.PhotoURL, now); err != nil {
			s.logger.Error("Failed to record login", err, "user_id", user.ID)
		}
		user.DisplayName = identity.DisplayName
		user.PhotoURL = identity.PhotoURL
		user.LastLogin = now
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, nil, apperrors.NewInternalError("Failed to create session", err)
	}
	s.cacheAdminFlag(user.ID, user.IsAdmin)

	return &domain.Session{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		IsAdmin:     user.IsAdmin,
		Token:       token,
		ExpiresAt:   expiresAt,
	}, user, nil
}

// Authenticate turns a session token back into a Session. The admin flag is
// read from the user record so revocations apply within the cache TTL.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	isAdmin, err := s.isAdmin(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	sess := &domain.Session{
		UserID:      claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		PhotoURL:    claims.PhotoURL,
		IsAdmin:     isAdmin,
		Token:       token,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, sess *domain.Session) (*domain.User, error) {
	return s.users.GetByID(ctx, sess.UserID)
}

func (s *AuthService) isAdmin(ctx context.Context, userID string) (bool, error) {
	now := s.now()
	s.adminCacheMu.RLock()
	entry, ok := s.adminCache[userID]
	s.adminCacheMu.RUnlock()
	if ok && now.Before(entry.expiresAt) {
		return entry.isAdmin, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, domain.ErrInvalidToken
	}
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}

	s.cacheAdminFlag(userID, user.IsAdmin)
	return user.IsAdmin, nil
}

func (s *AuthService) cacheAdminFlag(userID string, isAdmin bool) {
	s.adminCacheMu.Lock()
	s.adminCache[userID] = adminFlagCacheEntry{isAdmin: isAdmin, expiresAt: s.now().Add(adminFlagCacheTTL)}
	s.adminCacheMu.Unlock()
}
