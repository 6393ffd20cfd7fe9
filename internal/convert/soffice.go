package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"cargo-backend/internal/shared/apperr"
	"cargo-backend/internal/shared/metrics"
	"cargo-backend/internal/shared/telemetry"
)

// Soffice converts documents with LibreOffice in headless mode.
type Soffice struct {
	path string
	run  Runner
}

func NewSoffice(path string, run Runner) *Soffice {
	if run == nil {
		run = ExecRunner
	}
	return &Soffice{path: path, run: run}
}

// ConvertToPDF writes <outDir>/<input basename>.pdf.
func (s *Soffice) ConvertToPDF(ctx context.Context, inputPath, outDir string) (pdfPath string, err error) {
	defer func() { metrics.IncToolRun(ToolSoffice, err) }()

	out, runErr := s.run(ctx, s.path, "--headless", "--convert-to", "pdf", "--outdir", outDir, inputPath)
	if runErr != nil {
		telemetry.Error("convert.soffice_failed", map[string]any{
			"input":  inputPath,
			"output": tail(out),
			"error":  runErr,
		})
		return "", apperr.Wrap(apperr.ErrConversion, fmt.Errorf("soffice %s: %w", filepath.Base(inputPath), runErr))
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	pdfPath = filepath.Join(outDir, base+".pdf")
	if statErr := requireFile(pdfPath); statErr != nil {
		return "", apperr.Wrap(apperr.ErrConversion, fmt.Errorf("soffice produced no pdf: %w", statErr))
	}
	return pdfPath, nil
}
