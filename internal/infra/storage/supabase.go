package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"book-sanctuary/internal/domain"
)

// SupabaseStore talks to the Supabase Storage REST API directly.
type SupabaseStore struct {
	baseURL string
	apiKey  string
	bucket  string
	client  *http.Client
}

func NewSupabaseStore(baseURL, apiKey, bucket string, client *http.Client) (*SupabaseStore, error) {
	if baseURL == "" || apiKey == "" {
		return nil, fmt.Errorf("supabase URL and key must be provided")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &SupabaseStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		bucket:  bucket,
		client:  client,
	}, nil
}

func (s *SupabaseStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	req, err := s.newRequest(ctx, http.MethodPost, s.objectURL(key), body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := statusError(resp, "storage upload failed"); err != nil {
		return "", err
	}
	return s.publicURL(key), nil
}

func (s *SupabaseStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	req, err := s.newRequest(ctx, http.MethodGet, s.objectURL(key), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if err := statusError(resp, "storage download failed"); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func (s *SupabaseStore) Delete(ctx context.Context, key string) error {
	req, err := s.newRequest(ctx, http.MethodDelete, s.objectURL(key), nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return statusError(resp, "storage delete failed")
}

func (s *SupabaseStore) KeyFromURL(rawURL string) (string, bool) {
	prefix := s.publicURL("")
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(rawURL, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	return key, key != ""
}

func (s *SupabaseStore) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("apikey", s.apiKey)
	return req, nil
}

func (s *SupabaseStore) objectURL(key string) string {
	return s.baseURL + "/storage/v1/object/" + s.bucket + "/" + key
}

func (s *SupabaseStore) publicURL(key string) string {
	return s.baseURL + "/storage/v1/object/public/" + s.bucket + "/" + key
}

func statusError(resp *http.Response, msg string) error {
	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrObjectNotFound, msg)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrAccessDenied, msg)
	}
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s: status %d: %s", msg, resp.StatusCode, strings.TrimSpace(string(detail)))
}
