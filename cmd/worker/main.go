package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"cargo-backend/internal/bootstrap"
	"cargo-backend/internal/shared/config"
	"cargo-backend/internal/shared/metrics"
	"cargo-backend/internal/shared/telemetry"
	"cargo-backend/internal/workerproc"
)

const defaultRegion = "us-east-1"

func main() {
	cfg := config.Load()
	telemetry.Configure(cfg.LogLevel)
	defer telemetry.Sync()

	queueURL := cfg.WorkerQueueURL
	if queueURL == "" {
		log.Fatal("CONVERT_SQS_QUEUE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	region := cfg.AWSRegion
	if strings.TrimSpace(region) == "" {
		region = defaultRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	var sqsClient sqsAPI = sqs.NewFromConfig(awsCfg)

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	concurrency := max(1, cfg.WorkerConcurrency)
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	telemetry.Info("worker.started", map[string]any{
		"queue":              queueURL,
		"concurrency":        concurrency,
		"visibility_seconds": cfg.WorkerVisibilitySeconds,
	})

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		resp, err := sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   int32(cfg.WorkerVisibilitySeconds),
			AttributeNames:      []sqstypes.QueueAttributeName{sqstypes.QueueAttributeName("ApproximateReceiveCount")},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break pollLoop
			}
			telemetry.Error("worker.receive_failed", map[string]any{"error": err})
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			metrics.IncWorkerJob(metrics.JobReceived)
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				handleMessage(ctx, sqsClient, queueURL, app.ConversionService, m)
			}(msg)
		}
	}

	telemetry.Info("worker.draining", map[string]any{"timeout": cfg.ShutdownTimeout.String()})
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(cfg.ShutdownTimeout):
		telemetry.Warn("worker.shutdown_timeout", nil)
	}
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// handleMessage deletes the message on success and on unrecoverable failures.
// Anything else stays on the queue until its visibility timeout expires.
func handleMessage(ctx context.Context, client sqsAPI, queueURL string, conv workerproc.Converter, msg sqstypes.Message) {
	job, meta, err := workerproc.ParseJob(aws.ToString(msg.Body))
	if err != nil {
		fields := baseFields(msg, job.UID, job.RequestID)
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		fields["error"] = err.Error()
		telemetry.Error("worker.conversion.rejected", fields)
		if deleteMessage(ctx, client, queueURL, msg, job.UID, job.RequestID) {
			metrics.IncWorkerJob(metrics.JobUnrecoverable)
		}
		return
	}

	telemetry.Info("worker.conversion.received", baseFields(msg, job.UID, job.RequestID))

	res, err := workerproc.HandleJob(ctx, conv, job)
	if err != nil {
		fields := baseFields(msg, job.UID, job.RequestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.conversion.failed", fields)
		metrics.IncWorkerJob(metrics.JobFailed)
		if workerproc.Unrecoverable(err) && deleteMessage(ctx, client, queueURL, msg, job.UID, job.RequestID) {
			metrics.IncWorkerJob(metrics.JobUnrecoverable)
		}
		return
	}

	if deleteMessage(ctx, client, queueURL, msg, job.UID, job.RequestID) {
		fields := baseFields(msg, job.UID, job.RequestID)
		fields["html_key"] = res.HTMLKey
		fields["pdf_key"] = res.PDFKey
		telemetry.Info("worker.conversion.completed", fields)
		metrics.IncWorkerJob(metrics.JobCompleted)
	}
}

func deleteMessage(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message, uid, requestID string) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		fields := baseFields(msg, uid, requestID)
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.conversion.delete_failed", fields)
		return false
	}
	if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields := baseFields(msg, uid, requestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.conversion.delete_failed", fields)
		return false
	}
	return true
}

func baseFields(msg sqstypes.Message, uid, requestID string) map[string]any {
	fields := map[string]any{
		"uid":            uid,
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if strings.TrimSpace(requestID) != "" {
		fields["request_id"] = requestID
	}
	return fields
}

func receiveCount(msg sqstypes.Message) int {
	if msg.Attributes == nil {
		return 0
	}
	parsed, err := strconv.Atoi(msg.Attributes["ApproximateReceiveCount"])
	if err != nil {
		return 0
	}
	return parsed
}
