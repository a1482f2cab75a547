package domain

import (
	"context"
	"io"
)

// ObjectStore holds document binaries and cover images.
type ObjectStore interface {
	// Put uploads body under key and returns its download URL.
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	// Get returns ErrObjectNotFound when the key does not exist.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL maps a download URL issued by this store back to its key.
	KeyFromURL(rawURL string) (string, bool)
}
