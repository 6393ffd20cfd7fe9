package workerproc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargo-backend/internal/conversions"
	"cargo-backend/internal/shared/apperr"
)

type stubConverter struct {
	got conversions.Request
	err error
}

func (s *stubConverter) Convert(ctx context.Context, req conversions.Request) (conversions.Result, error) {
	s.got = req
	if s.err != nil {
		return conversions.Result{}, s.err
	}
	return conversions.Result{HTMLKey: "h", PDFKey: "p"}, nil
}

const validJob = `{"event":"conversion.requested","uid":"u-1","file_name":"cv","file_ext":"docx","key":"/uploads/x/cv.docx","requestId":"req-1"}`

func TestParseJob(t *testing.T) {
	job, meta, err := ParseJob(validJob)
	require.NoError(t, err)
	assert.Equal(t, "u-1", job.UID)
	assert.Equal(t, "req-1", job.RequestID)
	assert.Equal(t, len(validJob), meta.BodyLen)
	assert.Len(t, meta.BodySHA, 64)
}

func TestParseJobErrors(t *testing.T) {
	_, _, err := ParseJob("  ")
	assert.IsType(t, ErrEmptyBody{}, err)

	_, _, err = ParseJob("{bad-json")
	assert.IsType(t, ErrDecode{}, err)

	_, _, err = ParseJob(`{"uid":"u-1","file_name":"cv","requestId":"req-2"}`)
	var missing ErrMissingFields
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"file_ext", "key"}, missing.Missing)
	assert.Equal(t, "req-2", missing.RequestID)
}

func TestParseJobEvent(t *testing.T) {
	job, _, err := ParseJob(`{"uid":"u-1","file_name":"cv","file_ext":"docx","key":"/uploads/x/cv.docx"}`)
	require.NoError(t, err, "unstamped jobs are accepted")
	assert.Equal(t, "u-1", job.UID)

	_, _, err = ParseJob(`{"event":"conversion.completed","uid":"u-1","file_name":"cv","file_ext":"docx","key":"/uploads/x/cv.docx","requestId":"req-3"}`)
	var unknown ErrUnknownEvent
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "conversion.completed", unknown.Event)
	assert.Equal(t, "req-3", unknown.RequestID)
	assert.True(t, Unrecoverable(err))
}

func TestHandleJobPassesRequest(t *testing.T) {
	job, _, err := ParseJob(validJob)
	require.NoError(t, err)

	conv := &stubConverter{}
	res, err := HandleJob(context.Background(), conv, job)
	require.NoError(t, err)
	assert.Equal(t, "h", res.HTMLKey)
	assert.Equal(t, conversions.Request{UID: "u-1", FileName: "cv", FileExt: "docx", Key: "/uploads/x/cv.docx", RequestID: "req-1"}, conv.got)
}

func TestHandleJobWrapsFailure(t *testing.T) {
	job, _, _ := ParseJob(validJob)
	conv := &stubConverter{err: fmt.Errorf("fetch: %w", apperr.ErrObjectNotFound)}

	_, err := HandleJob(context.Background(), conv, job)
	var procErr ErrProcess
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, "u-1", procErr.UID)
	assert.True(t, Unrecoverable(err))
}

func TestUnrecoverable(t *testing.T) {
	assert.True(t, Unrecoverable(ErrDecode{}))
	assert.True(t, Unrecoverable(ErrProcess{Err: apperr.ErrInvalidFileType}))
	assert.False(t, Unrecoverable(ErrProcess{Err: apperr.ErrStorage}))
	assert.False(t, Unrecoverable(ErrProcess{Err: apperr.ErrConversion}))
	assert.False(t, Unrecoverable(errors.New("boom")))
}
