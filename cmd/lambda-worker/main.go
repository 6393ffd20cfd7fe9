package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=amd64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"cargo-backend/internal/bootstrap"
	"cargo-backend/internal/shared/config"
	"cargo-backend/internal/shared/metrics"
	"cargo-backend/internal/shared/telemetry"
	"cargo-backend/internal/workerproc"
)

var (
	initOnce sync.Once
	initErr  error
	app      *bootstrap.App
)

func initApp() {
	cfg := config.Load()
	telemetry.Configure(cfg.LogLevel)
	built, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		return
	}
	app = built
}

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		telemetry.Error("bootstrap.failed", map[string]any{"error": initErr})
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, initErr
	}
	return handleEvent(ctx, app.ConversionService, event), nil
}

// handleEvent reports transient failures back to SQS; unrecoverable ones are dropped.
func handleEvent(ctx context.Context, conv workerproc.Converter, event events.SQSEvent) events.SQSEventResponse {
	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		metrics.IncWorkerJob(metrics.JobReceived)
		job, _, err := workerproc.ParseJob(record.Body)
		if err == nil {
			_, err = workerproc.HandleJob(ctx, conv, job)
		}
		if err == nil {
			metrics.IncWorkerJob(metrics.JobCompleted)
			continue
		}

		fields := map[string]any{"sqs_message_id": record.MessageId, "uid": job.UID, "error": err.Error()}
		if workerproc.Unrecoverable(err) {
			telemetry.Error("worker.conversion.rejected", fields)
			metrics.IncWorkerJob(metrics.JobUnrecoverable)
			continue
		}
		telemetry.Error("worker.conversion.failed", fields)
		metrics.IncWorkerJob(metrics.JobFailed)
		failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
	}
	return events.SQSEventResponse{BatchItemFailures: failures}
}

func main() {
	lambda.Start(handler)
}
