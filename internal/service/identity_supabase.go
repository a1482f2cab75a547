package service

import (
	"context"
	"fmt"

	"book-sanctuary/internal/domain"
)

// SupabaseIdentityProvider accepts Supabase Auth access tokens, e.g. from a
// Supabase Google OAuth flow.
type SupabaseIdentityProvider struct {
	client domain.SupabaseClient
	logger domain.Logger
}

func NewSupabaseIdentityProvider(client domain.SupabaseClient, logger domain.Logger) *SupabaseIdentityProvider {
	return &SupabaseIdentityProvider{client: client, logger: logger}
}

func (p *SupabaseIdentityProvider) Verify(ctx context.Context, credential string) (*domain.Identity, error) {
	user, err := p.client.ValidateToken(credential)
	if err != nil {
		p.logger.Error("Failed to validate token with Supabase", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	return &domain.Identity{
		Subject:     user.ID,
		Email:       user.Email,
		DisplayName: claimString(user.UserMetadata, "full_name", "name"),
		PhotoURL:    claimString(user.UserMetadata, "avatar_url", "picture"),
	}, nil
}
