package util

import (
	"strings"
	"unicode"

	"cargo-backend/internal/shared/apperr"
)

// SanitizeFileName makes an uploaded file name safe to use as the last segment of
// a storage key. Separators become underscores and control characters are dropped.
// Names that end up empty, "." or ".." are rejected with apperr.ErrInvalidRequest.
func SanitizeFileName(name string) (string, error) {
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, name)
	s = strings.TrimSpace(s)
	if s == "" || s == "." || s == ".." {
		return "", apperr.Wrapf(apperr.ErrInvalidRequest, "invalid file name %q", name)
	}
	return s, nil
}
