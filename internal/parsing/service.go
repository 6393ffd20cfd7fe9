package parsing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"cargo-backend/internal/shared/apperr"
	"cargo-backend/internal/shared/metrics"
	"cargo-backend/internal/shared/storage/object"
	"cargo-backend/internal/shared/telemetry"
	"cargo-backend/internal/sovren"
	"cargo-backend/internal/staging"
)

const PipelineName = "parsing"

var tracer = otel.Tracer("cargo-backend/internal/parsing")

// Client submits a document to the remote résumé parser.
type Client interface {
	Parse(ctx context.Context, document []byte) (sovren.Result, error)
}

type Request struct {
	UID       string
	FileName  string
	Key       string
	RequestID string
}

// Service downloads a résumé and has the remote parser extract its fields.
type Service struct {
	Store   object.Gateway
	Staging *staging.Area
	Parser  Client
	Bucket  string
}

// Parse fetches req.Key into staging and returns the reshaped parse.
// Empty files fail before the remote call.
func (s *Service) Parse(ctx context.Context, req Request) (res sovren.Result, err error) {
	started := time.Now()
	ctx, span := tracer.Start(ctx, "parsing.parse", trace.WithAttributes(attribute.String("uid", req.UID)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		metrics.ObservePipeline(PipelineName, started, err)
	}()

	if strings.TrimSpace(req.FileName) == "" {
		return sovren.Result{}, apperr.Wrapf(apperr.ErrInvalidRequest, "missing file_name")
	}

	dir, err := s.Staging.Dir(req.UID)
	if err != nil {
		return sovren.Result{}, err
	}
	localPath := filepath.Join(dir, req.UID+filepath.Ext(req.FileName))

	logStep(req.UID, "download")
	if err := s.Store.Fetch(ctx, s.Bucket, req.Key, localPath); err != nil {
		return sovren.Result{}, err
	}

	document, err := os.ReadFile(localPath)
	if err != nil {
		return sovren.Result{}, err
	}
	if len(document) == 0 {
		return sovren.Result{}, apperr.Wrapf(apperr.ErrInvalidFile, "uid=%s key=%s is empty", req.UID, req.Key)
	}

	logStep(req.UID, "remote_parse")
	return s.Parser.Parse(ctx, document)
}

func logStep(uid, step string) {
	telemetry.Info("parsing.step", map[string]any{"uid": uid, "step": step})
}
