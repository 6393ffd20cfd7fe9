package uploads

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"cargo-backend/internal/detect"
	"cargo-backend/internal/shared/apperr"
	"cargo-backend/internal/shared/metrics"
	"cargo-backend/internal/shared/storage/object"
	"cargo-backend/internal/shared/telemetry"
	"cargo-backend/internal/shared/util"
	"cargo-backend/internal/staging"
)

const (
	PipelineName = "upload"
	keyPrefix    = "/uploads"
	linkTTL      = time.Hour
)

var resumeTypes = []string{
	detect.MIMEMSWord,
	detect.MIMEPDF,
	"text/rtf",
	"text/plain",
	detect.MIMEDOCX,
}

var attachmentTypes = append(append([]string{}, resumeTypes...),
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/svg+xml",
	detect.MIMEZip,
	"application/x-tar",
)

// AllowedTypes returns the accepted MIME types for an upload.
func AllowedTypes(isResume bool) []string {
	if isResume {
		return resumeTypes
	}
	return attachmentTypes
}

func allowed(mimeType string, isResume bool) bool {
	for _, t := range AllowedTypes(isResume) {
		if t == mimeType {
			return true
		}
	}
	return false
}

type Request struct {
	File     io.Reader
	FileName string
	IsResume bool
}

// Service stores user uploads after checking their sniffed type.
type Service struct {
	Store   object.Gateway
	Staging *staging.Area
	Bucket  string
	NewID   func() string
}

// Upload stages the file, checks its type and stores it under /uploads/<id>/<name>.
func (s *Service) Upload(ctx context.Context, req Request) (key string, err error) {
	started := time.Now()
	defer func() { metrics.ObservePipeline(PipelineName, started, err) }()

	name, err := util.SanitizeFileName(req.FileName)
	if err != nil {
		return "", err
	}

	id := s.newID()
	localPath, err := s.Staging.Path(id, name)
	if err != nil {
		return "", err
	}
	if _, err := object.WriteLocal(localPath, req.File); err != nil {
		return "", err
	}

	mimeType, err := detect.File(localPath)
	if err != nil {
		return "", err
	}
	if !allowed(mimeType, req.IsResume) {
		return "", apperr.Wrapf(apperr.ErrInvalidFileType, "type=%s is_resume=%t", mimeType, req.IsResume)
	}

	key = path.Join(keyPrefix, id, name)
	if err := s.Store.Store(ctx, localPath, key, s.Bucket, object.VisibilityAuthenticatedRead); err != nil {
		return "", err
	}

	telemetry.Info("upload.stored", map[string]any{
		"key":       key,
		"mime_type": mimeType,
		"is_resume": req.IsResume,
	})
	return key, nil
}

// PublicLink presigns a one-hour GET for key. An unresolvable bucket reads as not found.
func (s *Service) PublicLink(ctx context.Context, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", apperr.Wrapf(apperr.ErrInvalidRequest, "missing key")
	}
	url, err := s.Store.PresignedURL(ctx, s.Bucket, key, linkTTL)
	if err != nil {
		return "", err
	}
	if url == "" {
		return "", apperr.Wrapf(apperr.ErrObjectNotFound, "no bucket for key=%s", key)
	}
	return url, nil
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}
