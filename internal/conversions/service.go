package conversions

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"cargo-backend/internal/convert"
	"cargo-backend/internal/detect"
	"cargo-backend/internal/queue"
	"cargo-backend/internal/shared/apperr"
	"cargo-backend/internal/shared/metrics"
	"cargo-backend/internal/shared/storage/object"
	"cargo-backend/internal/shared/telemetry"
	"cargo-backend/internal/staging"
)

const (
	PipelineName = "conversion"
	OutputPrefix = "/enlist-converted-resumes"
)

// officeTypes are the non-PDF inputs soffice is trusted with.
var officeTypes = map[string]struct{}{
	detect.MIMEMSWord:   {},
	detect.MIMEDOCX:     {},
	"text/plain":        {},
	"application/rtf":   {},
	"application/x-rtf": {},
	"text/rtf":          {},
	"text/richtext":     {},
}

var tracer = otel.Tracer("cargo-backend/internal/conversions")

// Request identifies one conversion. All fields are required.
type Request struct {
	UID       string
	FileName  string
	FileExt   string
	Key       string
	RequestID string
}

// Result holds the storage keys of the rendered outputs.
type Result struct {
	HTMLKey string
	PDFKey  string
}

// Service converts a stored document to PDF and HTML and uploads both.
type Service struct {
	Store     object.Gateway
	Staging   *staging.Area
	Office    convert.OfficeConverter
	Renderer  convert.HTMLRenderer
	Inspector convert.PDFInspector
	Queue     queue.Client
	Bucket    string
	Now       func() time.Time
}

// Convert runs download, detection, PDF conversion, HTML rendering and upload in order.
// The first failing step aborts the run; nothing already uploaded is removed.
func (s *Service) Convert(ctx context.Context, req Request) (res Result, err error) {
	started := time.Now()
	ctx, span := tracer.Start(ctx, "conversion.convert", trace.WithAttributes(attribute.String("uid", req.UID)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		metrics.ObservePipeline(PipelineName, started, err)
	}()

	if err := req.validate(); err != nil {
		return Result{}, err
	}

	dir, err := s.Staging.Dir(req.UID)
	if err != nil {
		return Result{}, err
	}
	input := filepath.Join(dir, req.UID+"."+normalizeExt(req.FileExt))

	if _, statErr := os.Stat(input); errors.Is(statErr, os.ErrNotExist) {
		err = s.step(ctx, req.UID, "download", func(ctx context.Context) error {
			return s.Store.Fetch(ctx, s.Bucket, req.Key, input)
		})
		if err != nil {
			return Result{}, err
		}
	}

	var mimeType string
	err = s.step(ctx, req.UID, "detect", func(context.Context) error {
		var detectErr error
		mimeType, detectErr = detect.File(input)
		return detectErr
	})
	if err != nil {
		return Result{}, err
	}

	pdfPath := input
	if mimeType == detect.MIMEPDF {
		// pdf2htmlEX repairs damaged xref tables the inspector refuses; let it decide.
		if verifyErr := convert.VerifyPDF(s.Inspector, pdfPath); verifyErr != nil {
			telemetry.Warn("convert.pdf_unreadable", map[string]any{"uid": req.UID, "error": verifyErr})
		}
	} else {
		if !convertible(mimeType, input) {
			return Result{}, apperr.Wrapf(apperr.ErrInvalidFileType, "uid=%s type=%s", req.UID, mimeType)
		}
		err = s.step(ctx, req.UID, "office_to_pdf", func(ctx context.Context) error {
			var convErr error
			pdfPath, convErr = s.Office.ConvertToPDF(ctx, input, dir)
			return convErr
		})
		if err != nil {
			return Result{}, err
		}
		err = s.step(ctx, req.UID, "verify_pdf", func(context.Context) error {
			return convert.VerifyPDF(s.Inspector, pdfPath)
		})
		if err != nil {
			return Result{}, err
		}
	}

	var htmlPath string
	err = s.step(ctx, req.UID, "render_html", func(ctx context.Context) error {
		var renderErr error
		htmlPath, renderErr = s.Renderer.RenderHTML(ctx, pdfPath, dir, req.UID+".html")
		return renderErr
	})
	if err != nil {
		return Result{}, err
	}

	res = Result{
		HTMLKey: path.Join(OutputPrefix, req.UID, req.UID+".html"),
		PDFKey:  path.Join(OutputPrefix, req.UID, req.UID+".pdf"),
	}
	err = s.step(ctx, req.UID, "upload", func(ctx context.Context) error {
		if err := s.Store.Store(ctx, htmlPath, res.HTMLKey, s.Bucket, object.VisibilityAuthenticatedRead); err != nil {
			return err
		}
		return s.Store.Store(ctx, pdfPath, res.PDFKey, s.Bucket, object.VisibilityAuthenticatedRead)
	})
	if err != nil {
		return Result{}, err
	}

	s.notify(ctx, req, res)
	return res, nil
}

func (s *Service) step(ctx context.Context, uid, name string, fn func(context.Context) error) error {
	ctx, span := tracer.Start(ctx, "conversion."+name)
	defer span.End()

	telemetry.Info("conversion.step", map[string]any{"uid": uid, "step": name})
	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s *Service) notify(ctx context.Context, req Request, res Result) {
	if s.Queue == nil {
		return
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	msg := queue.ConversionCompleted(req.UID, req.RequestID, s.Bucket, res.HTMLKey, res.PDFKey, now())
	if err := s.Queue.Send(ctx, msg); err != nil {
		telemetry.Warn("conversion.notify_failed", map[string]any{
			"uid":   req.UID,
			"event": msg.Event,
			"error": err,
		})
	}
}

func (r Request) validate() error {
	var missing []string
	for _, f := range [][2]string{{"uid", r.UID}, {"file_name", r.FileName}, {"file_ext", r.FileExt}, {"key", r.Key}} {
		if strings.TrimSpace(f[1]) == "" {
			missing = append(missing, f[0])
		}
	}
	if len(missing) > 0 {
		return apperr.Wrapf(apperr.ErrInvalidRequest, "missing %s", strings.Join(missing, ", "))
	}
	if strings.ContainsAny(r.FileExt, `/\`) || strings.Contains(r.FileExt, "..") {
		return apperr.Wrapf(apperr.ErrInvalidRequest, "bad file_ext %q", r.FileExt)
	}
	return nil
}

func convertible(mimeType, stagedPath string) bool {
	if _, ok := officeTypes[mimeType]; ok {
		return true
	}
	return detect.IsDocxContainer(mimeType, stagedPath)
}

func normalizeExt(ext string) string {
	return strings.TrimPrefix(strings.TrimSpace(ext), ".")
}
