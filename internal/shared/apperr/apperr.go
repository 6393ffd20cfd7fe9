// Package apperr defines the error kinds shared by the storage gateway and the pipelines.
// Every failure a pipeline returns wraps exactly one of these kinds.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrObjectNotFound  = errors.New("object not found")
	ErrStorage         = errors.New("storage error")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidFile     = errors.New("invalid file")
	ErrRemoteService   = errors.New("remote service error")
	ErrConversion      = errors.New("conversion failed")
)

const (
	CodeInvalidFileType = "invalid_file_type"
	CodeObjectNotFound  = "object_not_found"
	CodeStorage         = "storage_error"
	CodeInvalidRequest  = "required_keys_missing"
	CodeInvalidFile     = "invalid_file"
	CodeRemoteService   = "remote_service_error"
	CodeConversion      = "conversion_error"
	CodeIO              = "io_error"
)

// Wrap tags cause with kind. The result matches both with errors.Is.
func Wrap(kind error, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

// Wrapf tags a formatted message with kind.
func Wrapf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// Describe returns the response code and human-readable message for err.
// Unknown errors are reported as IO failures, matching how the API has always
// surfaced unexpected local filesystem problems.
func Describe(err error) (code string, message string) {
	switch {
	case errors.Is(err, ErrInvalidFileType):
		return CodeInvalidFileType, "The file type you're trying to convert is not supported"
	case errors.Is(err, ErrObjectNotFound):
		return CodeObjectNotFound, "The file you're trying to convert does not exist"
	case errors.Is(err, ErrStorage):
		return CodeStorage, "Something went wrong with S3"
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest, "required_keys_missing"
	case errors.Is(err, ErrInvalidFile):
		return CodeInvalidFile, "The file you're trying to process is empty or unreadable"
	case errors.Is(err, ErrRemoteService):
		return CodeRemoteService, "Something went wrong with the parsing service"
	case errors.Is(err, ErrConversion):
		return CodeConversion, "Something went wrong converting the file"
	default:
		return CodeIO, "Something went wrong with reading the file (IO)."
	}
}
