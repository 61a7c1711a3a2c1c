package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-screener/internal/types"
)

// Result statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Request is a queued analysis request. The resume comes either inline as
// ResumeText or as an object key to download, or both.
type Request struct {
	ID              uuid.UUID `json:"id"`
	JobText         string    `json:"job_text"`
	ResumeText      string    `json:"resume_text,omitempty"`
	ResumeObjectKey string    `json:"resume_object_key,omitempty"`
	ResumeMIME      string    `json:"resume_mime,omitempty"`
	ResumeName      string    `json:"resume_name,omitempty"`
	Strategy        string    `json:"strategy,omitempty"`
	// ReplyTo names the queue the result goes to; empty uses the result queue.
	ReplyTo string `json:"reply_to,omitempty"`
}

// Result is published once per request.
type Result struct {
	RequestID uuid.UUID     `json:"request_id"`
	Status    string        `json:"status"`
	Report    *types.Report `json:"report,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
