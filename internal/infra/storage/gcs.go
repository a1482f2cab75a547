package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"book-sanctuary/internal/domain"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
)

const (
	firebaseHost      = "firebasestorage.googleapis.com"
	gcsHost           = "storage.googleapis.com"
	downloadTokenMeta = "firebaseStorageDownloadTokens"
)

// GCSStore keeps objects in a Cloud Storage bucket and hands out Firebase
// download URLs, which are what existing clients store in pdfUrl.
type GCSStore struct {
	client *storage.Client
	bucket string
	logger domain.Logger
}

func NewGCSStore(client *storage.Client, bucket string, logger domain.Logger) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("GCS_BUCKET is required")
	}
	return &GCSStore{client: client, bucket: bucket, logger: logger}, nil
}

func (s *GCSStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	token := uuid.New().String()

	writer := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	writer.ContentType = contentType
	writer.Metadata = map[string]string{downloadTokenMeta: token}

	if _, err := io.Copy(writer, body); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("failed to write to GCS: %w", classifyGCSError(err))
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize GCS write: %w", classifyGCSError(err))
	}

	s.logger.Debug("Object stored", "bucket", s.bucket, "key", key)
	return FirebaseDownloadURL(s.bucket, key, token), nil
}

func (s *GCSStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	reader, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, classifyGCSError(err)
	}
	return reader, nil
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Bucket(s.bucket).Object(key).Delete(ctx); err != nil {
		return classifyGCSError(err)
	}
	return nil
}

func (s *GCSStore) KeyFromURL(rawURL string) (string, bool) {
	return gcsKeyFromURL(s.bucket, rawURL)
}

// FirebaseDownloadURL builds the token-authorized media URL for key.
func FirebaseDownloadURL(bucket, key, token string) string {
	return fmt.Sprintf("https://%s/v0/b/%s/o/%s?alt=media&token=%s",
		firebaseHost, bucket, url.PathEscape(key), url.QueryEscape(token))
}

// gcsKeyFromURL accepts Firebase download URLs, public storage.googleapis.com
// URLs and gs:// URIs that point into bucket.
func gcsKeyFromURL(bucket, rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	var key string
	switch {
	case u.Scheme == "gs" && u.Host == bucket:
		key = strings.TrimPrefix(u.Path, "/")
	case u.Scheme == "https" && u.Host == firebaseHost:
		prefix := "/v0/b/" + bucket + "/o/"
		if !strings.HasPrefix(u.Path, prefix) {
			return "", false
		}
		key = strings.TrimPrefix(u.Path, prefix)
	case u.Scheme == "https" && u.Host == gcsHost:
		prefix := "/" + bucket + "/"
		if !strings.HasPrefix(u.Path, prefix) {
			return "", false
		}
		key = strings.TrimPrefix(u.Path, prefix)
	case u.Scheme == "https" && u.Host == bucket+"."+gcsHost:
		key = strings.TrimPrefix(u.Path, "/")
	default:
		return "", false
	}

	if key == "" {
		return "", false
	}
	return key, true
}

func classifyGCSError(err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("%w: %v", domain.ErrObjectNotFound, err)
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", domain.ErrObjectNotFound, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", domain.ErrAccessDenied, err)
		}
	}
	return err
}
