// Package workerproc decodes queued conversion jobs and runs them through the conversion pipeline.
package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"cargo-backend/internal/conversions"
	"cargo-backend/internal/queue"
	"cargo-backend/internal/shared/apperr"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrMissingFields indicates a job without one of uid, file_name, file_ext or key.
type ErrMissingFields struct {
	Meta      MessageMeta
	RequestID string
	Missing   []string
}

func (e ErrMissingFields) Error() string {
	return "missing fields: " + strings.Join(e.Missing, ",")
}

// ErrUnknownEvent indicates a job stamped with an event this worker does not handle.
type ErrUnknownEvent struct {
	Meta      MessageMeta
	RequestID string
	Event     string
}

func (e ErrUnknownEvent) Error() string { return "unknown event: " + e.Event }

// ErrProcess indicates the pipeline failed after the job was decoded.
type ErrProcess struct {
	UID       string
	RequestID string
	Err       error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process conversion"
	}
	return "process conversion: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// Converter runs one conversion. *conversions.Service satisfies it.
type Converter interface {
	Convert(ctx context.Context, req conversions.Request) (conversions.Result, error)
}

// ParseJob validates and decodes the queue payload.
func ParseJob(body string) (queue.ConversionJob, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.ConversionJob{}, meta, ErrEmptyBody{Meta: meta}
	}

	job, err := queue.DecodeJob([]byte(body))
	if err != nil {
		return queue.ConversionJob{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if event := strings.TrimSpace(job.Event); event != "" && event != queue.EventConversionRequested {
		return job, meta, ErrUnknownEvent{Meta: meta, RequestID: job.RequestID, Event: event}
	}
	if missing := missingFields(job); len(missing) > 0 {
		return job, meta, ErrMissingFields{Meta: meta, RequestID: job.RequestID, Missing: missing}
	}
	return job, meta, nil
}

func missingFields(job queue.ConversionJob) []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"uid", job.UID},
		{"file_name", job.FileName},
		{"file_ext", job.FileExt},
		{"key", job.Key},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// HandleJob runs a decoded job through conv.
func HandleJob(ctx context.Context, conv Converter, job queue.ConversionJob) (conversions.Result, error) {
	if conv == nil {
		return conversions.Result{}, errors.New("conversion service not configured")
	}
	res, err := conv.Convert(ctx, conversions.Request{
		UID:       job.UID,
		FileName:  job.FileName,
		FileExt:   job.FileExt,
		Key:       job.Key,
		RequestID: job.RequestID,
	})
	if err != nil {
		return conversions.Result{}, ErrProcess{UID: job.UID, RequestID: job.RequestID, Err: err}
	}
	return res, nil
}

// Unrecoverable reports whether redelivering the job could never succeed.
// Malformed payloads and input-side pipeline failures qualify; storage and
// converter failures are left for the queue to redeliver.
func Unrecoverable(err error) bool {
	switch err.(type) {
	case ErrEmptyBody, ErrDecode, ErrMissingFields, ErrUnknownEvent:
		return true
	}
	return errors.Is(err, apperr.ErrInvalidFileType) ||
		errors.Is(err, apperr.ErrObjectNotFound) ||
		errors.Is(err, apperr.ErrInvalidRequest) ||
		errors.Is(err, apperr.ErrInvalidFile)
}
