package domain

import (
	"context"
	"time"
)

// Identity is what an external identity provider vouches for.
type Identity struct {
	Subject     string
	Email       string
	DisplayName string
	PhotoURL    string
}

// IdentityProvider verifies a sign-in credential issued by Google or Supabase.
type IdentityProvider interface {
	Verify(ctx context.Context, credential string) (*Identity, error)
}

// Session is the authenticated caller of a request. Services receive it
// explicitly instead of reading ambient auth state.
type Session struct {
	UserID      string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL,omitempty"`
	IsAdmin     bool      `json:"isAdmin"`
	Token       string    `json:"token,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type AuthService interface {
	SignIn(ctx context.Context, credential string) (*Session, *User, error)
	Authenticate(ctx context.Context, token string) (*Session, error)
	CurrentUser(ctx context.Context, sess *Session) (*User, error)
}
