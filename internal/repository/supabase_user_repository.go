package repository

import (
	"context"
	"fmt"
	"time"

	"book-sanctuary/internal/domain"
)

// SupabaseUserRepository keeps profiles in the users table with preferences
// as a jsonb column.
type SupabaseUserRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

func NewSupabaseUserRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) *SupabaseUserRepository {
	return &SupabaseUserRepository{supabaseClient: supabaseClient, logger: logger}
}

func (r *SupabaseUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return nil, err
	}
	data, _, err := client.From("users").Select("*", "", false).Eq("id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return CanonicalUser("", rows[0]), nil
}

func (r *SupabaseUserRepository) Create(ctx context.Context, user *domain.User) error {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return err
	}
	row := map[string]interface{}{
		"id":           user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"photo_url":    user.PhotoURL,
		"is_admin":     user.IsAdmin,
		"preferences":  preferenceFields(user.Preferences),
		"created_at":   user.CreatedAt,
		"last_login":   user.LastLogin,
	}
	if _, _, err := client.From("users").Insert(row, true, "id", "", "").Execute(); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *SupabaseUserRepository) TouchLogin(ctx context.Context, id, displayName, photoURL string, at time.Time) error {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return err
	}
	row := map[string]interface{}{
		"display_name": displayName,
		"photo_url":    photoURL,
		"last_login":   at,
	}
	if _, _, err := client.From("users").Update(row, "", "").Eq("id", id).Execute(); err != nil {
		return fmt.Errorf("failed to update login: %w", err)
	}
	return nil
}

func (r *SupabaseUserRepository) UpdatePreferences(ctx context.Context, id string, prefs domain.Preferences) error {
	client, err := supabaseDB(r.supabaseClient)
	if err != nil {
		return err
	}
	row := map[string]interface{}{"preferences": preferenceFields(prefs)}
	if _, _, err := client.From("users").Update(row, "", "").Eq("id", id).Execute(); err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}
	r.logger.Info("Preferences updated successfully", "user_id", id)
	return nil
}
