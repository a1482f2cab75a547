package repository

import (
	"context"
	"fmt"
	"time"

	"book-sanctuary/internal/domain"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type FirestoreUserRepository struct {
	client *firestore.Client
	logger domain.Logger
}

func NewFirestoreUserRepository(client *firestore.Client, logger domain.Logger) *FirestoreUserRepository {
	return &FirestoreUserRepository{client: client, logger: logger}
}

func (r *FirestoreUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	snap, err := r.client.Collection("users").Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return CanonicalUser(snap.Ref.ID, snap.Data()), nil
}

func (r *FirestoreUserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, map[string]interface{}{
		"uid":         user.ID,
		"email":       user.Email,
		"displayName": user.DisplayName,
		"photoURL":    user.PhotoURL,
		"isAdmin":     user.IsAdmin,
		"preferences": preferenceFields(user.Preferences),
		"createdAt":   user.CreatedAt,
		"lastLogin":   user.LastLogin,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *FirestoreUserRepository) TouchLogin(ctx context.Context, id, displayName, photoURL string, at time.Time) error {
	_, err := r.client.Collection("users").Doc(id).Update(ctx, []firestore.Update{
		{Path: "lastLogin", Value: at},
		{Path: "displayName", Value: displayName},
		{Path: "photoURL", Value: photoURL},
	})
	if status.Code(err) == codes.NotFound {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update login: %w", err)
	}
	return nil
}

func (r *FirestoreUserRepository) UpdatePreferences(ctx context.Context, id string, prefs domain.Preferences) error {
	_, err := r.client.Collection("users").Doc(id).Update(ctx, []firestore.Update{
		{Path: "preferences", Value: preferenceFields(prefs)},
	})
	if status.Code(err) == codes.NotFound {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}
	return nil
}
