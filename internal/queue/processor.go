// Package queue runs resume analyses requested over AMQP and publishes the
// reports back.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"time"

	"github.com/jonathan/resume-screener/internal/analysis"
	"github.com/jonathan/resume-screener/internal/schemas"
)

// Downloader fetches resume documents by object key.
type Downloader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// Processor turns request bodies into results. It has no AMQP dependency.
type Processor struct {
	analyzer *analysis.Analyzer
	store    Downloader
	now      func() time.Time
}

// NewProcessor creates a Processor. store may be nil when requests only
// carry inline resume text.
func NewProcessor(analyzer *analysis.Analyzer, store Downloader) *Processor {
	return &Processor{analyzer: analyzer, store: store, now: time.Now}
}

// Process validates and runs one request. The returned Result is always
// publishable; a non-nil error means the request was not attempted because
// ctx ended and the message should be redelivered.
func (p *Processor) Process(ctx context.Context, body []byte) (*Request, *Result, error) {
	var req Request
	if err := schemas.Validate(schemas.AnalysisRequest, body); err != nil {
		// Best effort so the failure can still be correlated.
		_ = json.Unmarshal(body, &req)
		return &req, p.failed(&req, err), nil
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return &req, p.failed(&req, err), nil
	}

	areq := analysis.Request{
		ResumeText: req.ResumeText,
		JobText:    req.JobText,
		Strategy:   req.Strategy,
	}

	if req.ResumeObjectKey != "" {
		if p.store == nil {
			return &req, p.failed(&req, errors.New("resume_object_key given but object storage is not configured")), nil
		}
		data, err := p.store.Download(ctx, req.ResumeObjectKey)
		if err != nil {
			if ctx.Err() != nil {
				return &req, nil, ctx.Err()
			}
			return &req, p.failed(&req, err), nil
		}
		name := req.ResumeName
		if name == "" {
			name = path.Base(req.ResumeObjectKey)
		}
		areq.ResumeFile = &analysis.ResumeFile{Name: name, MIME: req.ResumeMIME, Data: data}
	}

	report, err := p.analyzer.AnalyzeRequest(ctx, areq)
	if err != nil {
		if ctx.Err() != nil {
			return &req, nil, ctx.Err()
		}
		return &req, p.failed(&req, err), nil
	}

	return &req, &Result{
		RequestID: req.ID,
		Status:    StatusCompleted,
		Report:    report,
		Timestamp: p.now().UTC(),
	}, nil
}

func (p *Processor) failed(req *Request, err error) *Result {
	return &Result{
		RequestID: req.ID,
		Status:    StatusFailed,
		Error:     err.Error(),
		Timestamp: p.now().UTC(),
	}
}
