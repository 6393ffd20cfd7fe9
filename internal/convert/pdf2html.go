package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"cargo-backend/internal/shared/apperr"
	"cargo-backend/internal/shared/metrics"
	"cargo-backend/internal/shared/telemetry"
)

// Pdf2HTML renders PDFs with pdf2htmlEX.
type Pdf2HTML struct {
	path string
	zoom float64
	run  Runner
}

func NewPdf2HTML(path string, zoom float64, run Runner) *Pdf2HTML {
	if path == "" {
		path = DefaultPdf2HTML
	}
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	if run == nil {
		run = ExecRunner
	}
	return &Pdf2HTML{path: path, zoom: zoom, run: run}
}

func (p *Pdf2HTML) RenderHTML(ctx context.Context, pdfPath, destDir, outName string) (htmlPath string, err error) {
	defer func() { metrics.IncToolRun(ToolPdf2HTML, err) }()

	out, runErr := p.run(ctx, p.path,
		"--zoom", strconv.FormatFloat(p.zoom, 'f', -1, 64),
		"--dest-dir", destDir,
		pdfPath, outName,
	)
	if runErr != nil {
		telemetry.Error("convert.pdf2html_failed", map[string]any{
			"input":  pdfPath,
			"output": tail(out),
			"error":  runErr,
		})
		return "", apperr.Wrap(apperr.ErrConversion, fmt.Errorf("pdf2htmlEX %s: %w", filepath.Base(pdfPath), runErr))
	}

	htmlPath = filepath.Join(destDir, outName)
	if statErr := requireFile(htmlPath); statErr != nil {
		return "", apperr.Wrap(apperr.ErrConversion, fmt.Errorf("pdf2htmlEX produced no html: %w", statErr))
	}
	return htmlPath, nil
}
