package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"cargo-backend/internal/shared/apperr"
	"cargo-backend/internal/shared/storage/object"
)

// Store implements object.Gateway on Google Cloud Storage.
type Store struct {
	client *storage.Client
	prefix string
}

// New builds a GCS gateway using application default credentials.
func New(ctx context.Context, prefix string) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return NewWithClient(client, prefix), nil
}

func NewWithClient(client *storage.Client, prefix string) *Store {
	return &Store{client: client, prefix: strings.Trim(strings.TrimSpace(prefix), "/")}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Fetch(ctx context.Context, bucket, key, localPath string) error {
	exists, err := s.Exists(ctx, bucket, key)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.Wrapf(apperr.ErrObjectNotFound, "bucket=%s key=%s", bucket, key)
	}

	name := s.objectName(key)
	r, err := s.client.Bucket(bucket).Object(name).NewReader(ctx)
	if err != nil {
		if isNotFound(err) {
			return apperr.Wrapf(apperr.ErrObjectNotFound, "bucket=%s key=%s", bucket, key)
		}
		return apperr.Wrap(apperr.ErrStorage, fmt.Errorf("gcs open reader %s/%s: %w", bucket, name, err))
	}
	defer r.Close()

	if _, err := object.WriteLocal(localPath, r); err != nil {
		return apperr.Wrap(apperr.ErrStorage, fmt.Errorf("gcs read %s/%s: %w", bucket, name, err))
	}
	return nil
}

func (s *Store) Store(ctx context.Context, localPath, key, bucket string, visibility object.Visibility) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open local file: %w", err)
	}
	defer f.Close()

	name := s.objectName(key)
	w := s.client.Bucket(bucket).Object(name).NewWriter(ctx)
	w.ContentType = object.ContentType(localPath)
	w.PredefinedACL = predefinedACL(visibility)

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return apperr.Wrap(apperr.ErrStorage, fmt.Errorf("gcs write %s/%s: %w", bucket, name, err))
	}
	if err := w.Close(); err != nil {
		return apperr.Wrap(apperr.ErrStorage, fmt.Errorf("gcs finalize %s/%s: %w", bucket, name, err))
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.Bucket(bucket).Object(s.objectName(key)).Attrs(ctx)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, apperr.Wrap(apperr.ErrStorage, fmt.Errorf("gcs attrs %s/%s: %w", bucket, key, err))
}

func (s *Store) PresignedURL(_ context.Context, bucket, key string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(bucket) == "" {
		return "", nil
	}
	url, err := s.client.Bucket(bucket).SignedURL(s.objectName(key), &storage.SignedURLOptions{
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
		Scheme:  storage.SigningSchemeV4,
	})
	if err != nil {
		return "", apperr.Wrap(apperr.ErrStorage, fmt.Errorf("gcs sign %s/%s: %w", bucket, key, err))
	}
	return url, nil
}

func (s *Store) objectName(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + strings.TrimLeft(key, "/")
}

func predefinedACL(v object.Visibility) string {
	switch v {
	case object.VisibilityPrivate:
		return "private"
	case object.VisibilityPublicRead:
		return "publicRead"
	default:
		return "authenticatedRead"
	}
}

func isNotFound(err error) bool {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return true
	}
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

var _ object.Gateway = (*Store)(nil)
