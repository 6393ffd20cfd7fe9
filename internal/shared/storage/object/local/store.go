package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cargo-backend/internal/shared/apperr"
	"cargo-backend/internal/shared/storage/object"
)

// Store implements object.Gateway using the local filesystem. Objects live at
// <baseDir>/<bucket>/<key>.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Fetch copies a stored object to localPath.
func (s *Store) Fetch(ctx context.Context, bucket, key, localPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := s.resolve(bucket, key)
	if err != nil {
		return err
	}

	f, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperr.Wrapf(apperr.ErrObjectNotFound, "bucket=%s key=%s", bucket, key)
		}
		return apperr.Wrap(apperr.ErrStorage, err)
	}
	defer f.Close()

	if _, err := object.WriteLocal(localPath, f); err != nil {
		return apperr.Wrap(apperr.ErrStorage, err)
	}
	return nil
}

// Store copies localPath into the store. Visibility has no meaning on disk.
func (s *Store) Store(ctx context.Context, localPath, key, bucket string, _ object.Visibility) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := s.resolve(bucket, key)
	if err != nil {
		return err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open local file: %w", err)
	}
	defer f.Close()

	if _, err := object.WriteLocal(dst, f); err != nil {
		return apperr.Wrap(apperr.ErrStorage, err)
	}
	return nil
}

// Exists reports whether an object is present.
func (s *Store) Exists(ctx context.Context, bucket, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p, err := s.resolve(bucket, key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, apperr.Wrap(apperr.ErrStorage, err)
	}
	return true, nil
}

// PresignedURL returns a file:// URL; there is nothing to sign locally.
func (s *Store) PresignedURL(ctx context.Context, bucket, key string, _ time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(bucket) == "" {
		return "", nil
	}
	p, err := s.resolve(bucket, key)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrStorage, err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

func (s *Store) resolve(bucket, key string) (string, error) {
	cleanBucket := filepath.Clean(strings.TrimSpace(bucket))
	cleanKey := filepath.Clean(strings.TrimLeft(key, "/"))
	for _, part := range []string{cleanBucket, cleanKey} {
		if part == "." || part == "" || strings.HasPrefix(part, "..") || filepath.IsAbs(part) {
			return "", apperr.Wrapf(apperr.ErrInvalidRequest, "invalid storage key bucket=%q key=%q", bucket, key)
		}
	}
	return filepath.Join(s.baseDir, cleanBucket, cleanKey), nil
}

var _ object.Gateway = (*Store)(nil)

// Reader opens a stored object directly. Tests use it to inspect uploads.
func (s *Store) Reader(bucket, key string) (io.ReadCloser, error) {
	p, err := s.resolve(bucket, key)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}
