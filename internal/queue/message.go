package queue

import (
	"encoding/json"
	"time"
)

const (
	EventConversionCompleted = "conversion.completed"
	messageVersion           = 1
)

// Message is the payload sent to downstream consumers once a pipeline finishes.
type Message struct {
	Event       string `json:"event"`
	UID         string `json:"uid"`
	RequestID   string `json:"requestId,omitempty"`
	Bucket      string `json:"bucket"`
	HTMLKey     string `json:"htmlKey"`
	PDFKey      string `json:"pdfKey"`
	CompletedAt string `json:"completedAt"`
	Version     int    `json:"version"`
}

// ConversionCompleted builds the event announcing a finished conversion.
func ConversionCompleted(uid, requestID, bucket, htmlKey, pdfKey string, at time.Time) Message {
	return Message{
		Event:       EventConversionCompleted,
		UID:         uid,
		RequestID:   requestID,
		Bucket:      bucket,
		HTMLKey:     htmlKey,
		PDFKey:      pdfKey,
		CompletedAt: at.UTC().Format(time.RFC3339),
		Version:     messageVersion,
	}
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
