package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestConversionCompletedPayload(t *testing.T) {
	at := time.Date(2026, time.January, 30, 22, 0, 0, 0, time.FixedZone("EST", -5*3600))
	msg := ConversionCompleted("u-1", "req-9", "attachments", "/enlist-converted-resumes/u-1/u-1.html", "/enlist-converted-resumes/u-1/u-1.pdf", at)

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	if raw["event"] != EventConversionCompleted {
		t.Fatalf("unexpected event %v", raw["event"])
	}
	if raw["completedAt"] != "2026-01-31T03:00:00Z" {
		t.Fatalf("expected UTC timestamp, got %v", raw["completedAt"])
	}
	if raw["htmlKey"] != "/enlist-converted-resumes/u-1/u-1.html" {
		t.Fatalf("unexpected htmlKey %v", raw["htmlKey"])
	}
	if raw["version"] != float64(1) || raw["uid"] != "u-1" {
		t.Fatalf("unexpected payload %v", raw)
	}
}

func TestDecodeJob(t *testing.T) {
	job, err := DecodeJob([]byte(`{"event":"conversion.requested","uid":"u-1","file_name":"cv","file_ext":"pdf","key":"/uploads/a/cv.pdf"}`))
	if err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if job.Event != EventConversionRequested || job.Key != "/uploads/a/cv.pdf" {
		t.Fatalf("unexpected job %+v", job)
	}
	if _, err := DecodeJob([]byte("not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestNewSQSClientRequiresQueueURL(t *testing.T) {
	if _, err := NewSQSClient(context.Background(), "us-east-1", "  "); err == nil {
		t.Fatal("expected error for empty queue url")
	}
}
