package object

import (
	"context"
	"time"
)

// Visibility is the access-control level applied to stored objects.
type Visibility string

const (
	VisibilityPrivate           Visibility = "private"
	VisibilityAuthenticatedRead Visibility = "authenticated-read"
	VisibilityPublicRead        Visibility = "public-read"
)

// Gateway defines the contract for moving files between local disk and an object store.
// Missing objects are reported with apperr.ErrObjectNotFound and transport
// failures with apperr.ErrStorage.
type Gateway interface {
	// Fetch writes the object at bucket/key to localPath. No local file is created
	// when the object does not exist.
	Fetch(ctx context.Context, bucket, key, localPath string) error
	// Store uploads the file at localPath to bucket/key.
	Store(ctx context.Context, localPath, key, bucket string, visibility Visibility) error
	Exists(ctx context.Context, bucket, key string) (bool, error)
	// PresignedURL returns a time-limited GET URL, or "" when the bucket cannot be resolved.
	PresignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
