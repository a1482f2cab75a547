package supabase

import (
	"fmt"

	"book-sanctuary/internal/domain"

	"github.com/supabase-community/supabase-go"
)

// Client implements domain.SupabaseClient
type Client struct {
	url    string
	key    string
	client *supabase.Client
	logger domain.Logger
}

func NewClient(url, key string, logger domain.Logger) *Client {
	return &Client{url: url, key: key, logger: logger}
}

func (c *Client) DB() *supabase.Client {
	return c.client
}

// Initialize establishes a connection to Supabase
func (c *Client) Initialize() error {
	if c.url == "" || c.key == "" {
		return fmt.Errorf("supabase URL and key must be provided")
	}

	client, err := supabase.NewClient(c.url, c.key, &supabase.ClientOptions{})
	if err != nil {
		return fmt.Errorf("failed to create Supabase client: %w", err)
	}

	c.client = client
	c.logger.Info("Supabase client initialized successfully", "url", c.url)
	return nil
}

// ValidateToken resolves a Supabase access token to its user
func (c *Client) ValidateToken(token string) (*domain.SupabaseUser, error) {
	if c.client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	// Headers set on the Supabase client do not reach GoTrue, so the token
	// goes through WithToken.
	user, err := c.client.Auth.WithToken(token).GetUser()
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	return &domain.SupabaseUser{
		ID:           user.ID.String(),
		Email:        user.Email,
		UserMetadata: user.UserMetadata,
	}, nil
}
