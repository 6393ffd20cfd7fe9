package queue

import "encoding/json"

const EventConversionRequested = "conversion.requested"

// ConversionJob asks the worker to run the conversion pipeline for one stored document.
// The fields mirror the POST /converter body.
type ConversionJob struct {
	Event     string `json:"event,omitempty"`
	UID       string `json:"uid"`
	FileName  string `json:"file_name"`
	FileExt   string `json:"file_ext"`
	Key       string `json:"key"`
	RequestID string `json:"requestId,omitempty"`
}

func DecodeJob(payload []byte) (ConversionJob, error) {
	var job ConversionJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return ConversionJob{}, err
	}
	return job, nil
}
