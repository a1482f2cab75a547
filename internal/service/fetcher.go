package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"book-sanctuary/internal/domain"
	apperrors "book-sanctuary/pkg/errors"
)

const downloadFailedMessage = "Could not download PDF. Please check your connection and try again."

// Fetcher downloads document binaries. When the direct download fails it
// retries through the object store, using the key encoded in the URL.
type Fetcher struct {
	client   *http.Client
	store    domain.ObjectStore
	maxBytes int64
	logger   domain.Logger
}

func NewFetcher(client *http.Client, store domain.ObjectStore, maxBytes int64, logger domain.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		client:   client,
		store:    store,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Fetch returns the bytes behind rawURL. Missing objects wrap
// domain.ErrDocumentMissing, refused access wraps domain.ErrAccessDenied and
// transport failures are retryable network errors.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if rawURL == "" {
		return nil, domain.ErrDocumentMissing
	}

	data, primaryErr := f.download(ctx, rawURL)
	if primaryErr == nil {
		return data, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if f.store == nil {
		return nil, primaryErr
	}
	key, ok := f.store.KeyFromURL(rawURL)
	if !ok {
		return nil, primaryErr
	}

	f.logger.Warn("Direct download failed, reading from object store",
		"key", key,
		"error", primaryErr.Error(),
	)

	data, fallbackErr := f.readObject(ctx, key)
	if fallbackErr == nil {
		return data, nil
	}

	f.logger.Error("Object store fallback failed", fallbackErr, "key", key)
	// The more specific classification wins.
	if errors.Is(fallbackErr, domain.ErrDocumentMissing) || errors.Is(fallbackErr, domain.ErrAccessDenied) {
		return nil, fallbackErr
	}
	return nil, primaryErr
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid PDF URL", err.Error())
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError(downloadFailedMessage, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: upstream returned 404", domain.ErrDocumentMissing)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: upstream returned %d", domain.ErrAccessDenied, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, apperrors.NewNetworkError(downloadFailedMessage,
			fmt.Errorf("upstream returned %d", resp.StatusCode))
	}

	return f.readLimited(resp.Body)
}

func (f *Fetcher) readObject(ctx context.Context, key string) ([]byte, error) {
	body, err := f.store.Get(ctx, key)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrObjectNotFound):
			return nil, fmt.Errorf("%w: %s", domain.ErrDocumentMissing, key)
		case errors.Is(err, domain.ErrAccessDenied):
			return nil, err
		default:
			return nil, apperrors.NewNetworkError(downloadFailedMessage, err)
		}
	}
	defer body.Close()

	return f.readLimited(body)
}

func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	if f.maxBytes > 0 {
		r = io.LimitReader(r, f.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewNetworkError(downloadFailedMessage, err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, apperrors.NewValidationError("PDF exceeds the maximum allowed size")
	}
	if len(data) == 0 {
		return nil, domain.ErrDocumentMissing
	}
	return data, nil
}
