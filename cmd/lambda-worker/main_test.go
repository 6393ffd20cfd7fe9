package main

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"

	"cargo-backend/internal/conversions"
	"cargo-backend/internal/shared/apperr"
)

type keyedConverter map[string]error

func (k keyedConverter) Convert(ctx context.Context, req conversions.Request) (conversions.Result, error) {
	return conversions.Result{}, k[req.UID]
}

func record(id, uid string) events.SQSMessage {
	return events.SQSMessage{
		MessageId: id,
		Body:      `{"uid":"` + uid + `","file_name":"cv","file_ext":"pdf","key":"/uploads/x/cv.pdf"}`,
	}
}

func TestHandleEventReportsOnlyTransientFailures(t *testing.T) {
	conv := keyedConverter{
		"bad-type": apperr.ErrInvalidFileType,
		"s3-down":  apperr.ErrStorage,
	}
	event := events.SQSEvent{Records: []events.SQSMessage{
		record("1", "ok"),
		record("2", "bad-type"),
		record("3", "s3-down"),
		{MessageId: "4", Body: "not json"},
	}}

	resp := handleEvent(context.Background(), conv, event)

	assert.Equal(t, []events.SQSBatchItemFailure{{ItemIdentifier: "3"}}, resp.BatchItemFailures)
}
