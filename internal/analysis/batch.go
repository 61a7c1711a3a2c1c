package analysis

import (
	"context"
	"errors"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-screener/internal/types"
)

// DefaultBatchLimit bounds concurrent scoring when the caller passes limit <= 0.
const DefaultBatchLimit = 4

// Candidate is one resume in a batch.
type Candidate struct {
	Name string      `json:"name"`
	Text string      `json:"text,omitempty"`
	File *ResumeFile `json:"-"`
}

// BatchItem is the outcome for one candidate. Exactly one of Report and
// Error is set.
type BatchItem struct {
	Name   string        `json:"name"`
	Report *types.Report `json:"report,omitempty"`
	Error  string        `json:"error,omitempty"`
	Err    error         `json:"-"`
}

// AnalyzeBatch scores every candidate against jobText with at most limit
// running at once. Items are ranked by score (highest first), failures last,
// ties broken by name. A blank job description fails the whole batch; a
// failing candidate only fails its own item.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, jobText string, candidates []Candidate, limit int) ([]BatchItem, error) {
	if isBlank(jobText) {
		return nil, &InputError{Field: "job_text", Message: "Please provide Job Description"}
	}
	if len(candidates) == 0 {
		return nil, &InputError{Field: "resumes", Message: "Please provide at least one Resume"}
	}
	if limit <= 0 {
		limit = DefaultBatchLimit
	}

	items := make([]BatchItem, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, c := range candidates {
		g.Go(func() error {
			items[i].Name = c.Name
			report, err := a.AnalyzeRequest(gctx, Request{
				ResumeText: c.Text,
				ResumeFile: c.File,
				JobText:    jobText,
			})
			if err != nil {
				// Cancellation aborts the batch; anything else belongs to the candidate.
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				items[i].Err = err
				items[i].Error = err.Error()
				return nil
			}
			items[i].Report = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	Rank(items)
	return items, nil
}

// Rank orders items by score descending, failed items last, then by name.
func Rank(items []BatchItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if (a.Report == nil) != (b.Report == nil) {
			return a.Report != nil
		}
		if a.Report != nil && a.Report.Result.Score != b.Report.Result.Score {
			return a.Report.Result.Score > b.Report.Result.Score
		}
		return a.Name < b.Name
	})
}
