package service

import (
	"context"
	"fmt"

	"book-sanctuary/internal/domain"

	"google.golang.org/api/idtoken"
)

type idTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// GoogleIdentityProvider verifies Google Sign-In ID tokens.
type GoogleIdentityProvider struct {
	audience string
	validate idTokenValidator
}

func NewGoogleIdentityProvider(clientID string) *GoogleIdentityProvider {
	return &GoogleIdentityProvider{audience: clientID, validate: idtoken.Validate}
}

func (p *GoogleIdentityProvider) Verify(ctx context.Context, credential string) (*domain.Identity, error) {
	payload, err := p.validate(ctx, credential, p.audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	email := claimString(payload.Claims, "email")
	if email == "" {
		return nil, fmt.Errorf("%w: token has no email", domain.ErrInvalidToken)
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, fmt.Errorf("%w: email not verified", domain.ErrInvalidToken)
	}

	return &domain.Identity{
		Subject:     payload.Subject,
		Email:       email,
		DisplayName: claimString(payload.Claims, "name"),
		PhotoURL:    claimString(payload.Claims, "picture"),
	}, nil
}

func claimString(claims map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
