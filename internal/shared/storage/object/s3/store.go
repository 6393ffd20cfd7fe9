package s3

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"cargo-backend/internal/shared/apperr"
	"cargo-backend/internal/shared/storage/object"
)

// Store implements object.Gateway using Amazon S3.
type Store struct {
	client   *s3.Client
	presign  *s3.PresignClient
	prefix   string
	kmsKeyID string
}

// New creates a new S3-backed gateway using the default AWS credential chain.
func New(ctx context.Context, region, prefix, kmsKeyID string) (*Store, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return NewWithClient(s3.NewFromConfig(cfg), prefix, kmsKeyID), nil
}

// NewWithClient wraps an existing S3 client.
func NewWithClient(client *s3.Client, prefix, kmsKeyID string) *Store {
	return &Store{
		client:   client,
		presign:  s3.NewPresignClient(client),
		prefix:   normalizePrefix(prefix),
		kmsKeyID: strings.TrimSpace(kmsKeyID),
	}
}

// Fetch downloads bucket/key into localPath after confirming the object exists.
func (s *Store) Fetch(ctx context.Context, bucket, key, localPath string) error {
	exists, err := s.Exists(ctx, bucket, key)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.Wrapf(apperr.ErrObjectNotFound, "bucket=%s key=%s", bucket, key)
	}

	objectKey := applyPrefix(s.prefix, key)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return apperr.Wrap(apperr.ErrStorage, fmt.Errorf("s3 get object bucket=%s key=%s: %w", bucket, objectKey, err))
	}
	defer out.Body.Close()

	if _, err := object.WriteLocal(localPath, out.Body); err != nil {
		return apperr.Wrap(apperr.ErrStorage, fmt.Errorf("s3 read object bucket=%s key=%s: %w", bucket, objectKey, err))
	}
	return nil
}

// Store uploads localPath to bucket/key with the canned ACL for visibility.
func (s *Store) Store(ctx context.Context, localPath, key, bucket string, visibility object.Visibility) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open local file: %w", err)
	}
	defer f.Close()

	objectKey := applyPrefix(s.prefix, key)
	input := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(objectKey),
		Body:        f,
		ContentType: aws.String(object.ContentType(localPath)),
		ACL:         cannedACL(visibility),
	}
	if s.kmsKeyID != "" {
		input.ServerSideEncryption = s3types.ServerSideEncryptionAwsKms
		input.SSEKMSKeyId = aws.String(s.kmsKeyID)
	} else {
		input.ServerSideEncryption = s3types.ServerSideEncryptionAes256
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return apperr.Wrap(apperr.ErrStorage, fmt.Errorf("s3 put object bucket=%s key=%s: %w", bucket, objectKey, err))
	}
	return nil
}

// Exists issues a HEAD request for bucket/key.
func (s *Store) Exists(ctx context.Context, bucket, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	objectKey := applyPrefix(s.prefix, key)
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, apperr.Wrap(apperr.ErrStorage, fmt.Errorf("s3 head object bucket=%s key=%s: %w", bucket, objectKey, err))
}

// PresignedURL signs a GET for bucket/key valid for ttl.
func (s *Store) PresignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(bucket) == "" {
		return "", nil
	}
	out, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(applyPrefix(s.prefix, key)),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", apperr.Wrap(apperr.ErrStorage, fmt.Errorf("s3 presign bucket=%s key=%s: %w", bucket, key, err))
	}
	return out.URL, nil
}

func cannedACL(v object.Visibility) s3types.ObjectCannedACL {
	switch v {
	case object.VisibilityPrivate:
		return s3types.ObjectCannedACLPrivate
	case object.VisibilityPublicRead:
		return s3types.ObjectCannedACLPublicRead
	default:
		return s3types.ObjectCannedACLAuthenticatedRead
	}
}

func isNotFound(err error) bool {
	var nf *s3types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return true
	}
	return false
}

func normalizePrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

// applyPrefix joins prefix and key. Keys pass through untouched when there is no
// prefix, so objects written with a leading slash stay addressable.
func applyPrefix(prefix, key string) string {
	cleanPrefix := strings.Trim(prefix, "/")
	if cleanPrefix == "" {
		return key
	}
	cleanKey := strings.TrimLeft(key, "/")
	if cleanKey == "" {
		return cleanPrefix
	}
	return cleanPrefix + "/" + cleanKey
}

var _ object.Gateway = (*Store)(nil)
