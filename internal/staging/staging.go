package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cargo-backend/internal/shared/apperr"
)

// Area hands out per-request working directories under a single root.
type Area struct {
	root string
}

func New(root string) *Area {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "cargo-tmp"
	}
	return &Area{root: filepath.Clean(root)}
}

func (a *Area) Root() string {
	return a.root
}

// Dir returns <root>/<uid>. The directory and its nested <uid>/<uid> child are
// created on first use and left in place afterwards.
func (a *Area) Dir(uid string) (string, error) {
	if err := validateID(uid); err != nil {
		return "", err
	}
	dir := filepath.Join(a.root, uid)
	if err := os.MkdirAll(filepath.Join(dir, uid), 0o755); err != nil {
		return "", fmt.Errorf("create staging dir %s: %w", dir, err)
	}
	return dir, nil
}

// Path joins name onto the staging directory for uid.
func (a *Area) Path(uid, name string) (string, error) {
	dir, err := a.Dir(uid)
	if err != nil {
		return "", err
	}
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", apperr.Wrapf(apperr.ErrInvalidRequest, "invalid staging file name %q", name)
	}
	return filepath.Join(dir, name), nil
}

// Cleanup removes everything staged for uid.
func (a *Area) Cleanup(uid string) error {
	if err := validateID(uid); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(a.root, uid)); err != nil {
		return fmt.Errorf("cleanup staging dir %s: %w", uid, err)
	}
	return nil
}

func validateID(uid string) error {
	uid = strings.TrimSpace(uid)
	if uid == "" || uid == "." || strings.Contains(uid, "..") || strings.ContainsAny(uid, `/\`) {
		return apperr.Wrapf(apperr.ErrInvalidRequest, "invalid staging id %q", uid)
	}
	return nil
}
