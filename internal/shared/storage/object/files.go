package object

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// CreateLocal opens localPath for writing, creating parent directories.
func CreateLocal(localPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(localPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// WriteLocal streams r into localPath. A partially written file is removed on failure.
func WriteLocal(localPath string, r io.Reader) (int64, error) {
	f, err := CreateLocal(localPath)
	if err != nil {
		return 0, err
	}
	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil {
		_ = os.Remove(localPath)
		return n, fmt.Errorf("write body: %w", copyErr)
	}
	if closeErr != nil {
		_ = os.Remove(localPath)
		return n, fmt.Errorf("close file: %w", closeErr)
	}
	return n, nil
}

// ContentType sniffs the content type of a local file for upload metadata.
func ContentType(localPath string) string {
	mt, err := mimetype.DetectFile(localPath)
	if err != nil {
		return "application/octet-stream"
	}
	return mt.String()
}
