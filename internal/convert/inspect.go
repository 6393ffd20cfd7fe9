package convert

import (
	"fmt"

	"github.com/ledongthuc/pdf"

	"cargo-backend/internal/shared/apperr"
)

// PageCounter opens PDFs with github.com/ledongthuc/pdf.
type PageCounter struct{}

func (PageCounter) PageCount(path string) (n int, err error) {
	// the reader panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("read pdf %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()
	return r.NumPage(), nil
}

// VerifyPDF fails with ErrInvalidFile unless path is a readable PDF with pages.
func VerifyPDF(inspector PDFInspector, path string) error {
	pages, err := inspector.PageCount(path)
	if err != nil {
		return apperr.Wrap(apperr.ErrInvalidFile, err)
	}
	if pages < 1 {
		return apperr.Wrapf(apperr.ErrInvalidFile, "pdf %s has no pages", path)
	}
	return nil
}
