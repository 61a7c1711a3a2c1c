// Package analysis is the request/response entry point for screening a resume
// against a job description. Callers pass text (or a document) in and get a
// MatchResult or Report back; nothing is stored between calls.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-screener/internal/extraction"
	"github.com/jonathan/resume-screener/internal/scoring"
	"github.com/jonathan/resume-screener/internal/skills"
	"github.com/jonathan/resume-screener/internal/suggest"
	"github.com/jonathan/resume-screener/internal/types"
)

// Observer is notified after every scoring attempt.
type Observer interface {
	ObserveAnalysis(strategy string, score float64, err error)
}

// ResumeFile is an uploaded resume document.
type ResumeFile struct {
	Name string
	MIME string
	Data []byte
}

// Request is one analysis call. ResumeText and ResumeFile may both be set, in
// which case the extracted file text is appended to the pasted text.
type Request struct {
	ResumeText string
	ResumeFile *ResumeFile
	JobText    string
	// Strategy overrides the analyzer's default when non-empty.
	Strategy string
}

// Analyzer scores resumes against job descriptions with a fixed vocabulary.
// It holds no per-request state and is safe for concurrent use.
type Analyzer struct {
	extractor *skills.Extractor
	scorers   map[string]scoring.Scorer
	strategy  string
	observer  Observer
	now       func() time.Time
}

// Option configures an Analyzer.
type Option func(*config)

type config struct {
	strategy string
	weights  scoring.Weights
	observer Observer
	now      func() time.Time
}

// WithStrategy sets the default scoring strategy.
func WithStrategy(name string) Option {
	return func(c *config) { c.strategy = name }
}

// WithWeights sets the overlap strategy's weights.
func WithWeights(w scoring.Weights) Option {
	return func(c *config) { c.weights = w }
}

// WithObserver registers an observer for scoring outcomes.
func WithObserver(o Observer) Option {
	return func(c *config) { c.observer = o }
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// New builds an Analyzer around vocab. A nil vocab uses the default vocabulary.
func New(vocab *skills.Vocabulary, opts ...Option) (*Analyzer, error) {
	c := config{
		strategy: scoring.StrategyOverlap,
		weights:  scoring.DefaultWeights(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if vocab == nil {
		vocab = skills.DefaultVocabulary()
	}

	extractor := skills.NewExtractor(vocab)
	scorers := make(map[string]scoring.Scorer, len(scoring.Strategies()))
	for _, name := range scoring.Strategies() {
		s, err := scoring.New(name, extractor, scoring.WithWeights(c.weights))
		if err != nil {
			return nil, fmt.Errorf("failed to build %s scorer: %w", name, err)
		}
		scorers[name] = s
	}
	if _, ok := scorers[c.strategy]; !ok {
		return nil, fmt.Errorf("unknown scoring strategy %q (want one of %v)", c.strategy, scoring.Strategies())
	}

	return &Analyzer{
		extractor: extractor,
		scorers:   scorers,
		strategy:  c.strategy,
		observer:  c.observer,
		now:       c.now,
	}, nil
}

// Strategy returns the default strategy name.
func (a *Analyzer) Strategy() string {
	return a.strategy
}

// Vocabulary returns the vocabulary skills are matched against.
func (a *Analyzer) Vocabulary() *skills.Vocabulary {
	return a.extractor.Vocabulary()
}

// Analyze scores resumeText against jobText with the default strategy.
func (a *Analyzer) Analyze(resumeText, jobText string) (*types.MatchResult, error) {
	return a.AnalyzeWith(a.strategy, resumeText, jobText)
}

// AnalyzeWith scores with the named strategy ("" selects the default).
func (a *Analyzer) AnalyzeWith(strategy, resumeText, jobText string) (*types.MatchResult, error) {
	if isBlank(jobText) {
		return nil, &InputError{Field: "job_text", Message: "Please provide Job Description"}
	}
	if isBlank(resumeText) {
		return nil, &InputError{Field: "resume_text", Message: "Please provide Resume"}
	}
	return a.score(strategy, resumeText, jobText)
}

// AnalyzeRequest validates req, extracts any uploaded document and returns a
// full Report with suggestions.
func (a *Analyzer) AnalyzeRequest(ctx context.Context, req Request) (*types.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if isBlank(req.JobText) {
		return nil, &InputError{Field: "job_text", Message: "Please provide Job Description"}
	}

	resumeText, err := resolveResumeText(req.ResumeText, req.ResumeFile)
	if err != nil {
		return nil, err
	}
	if isBlank(resumeText) {
		return nil, &InputError{Field: "resume_text", Message: "Please provide Resume"}
	}

	result, err := a.score(req.Strategy, resumeText, req.JobText)
	if err != nil {
		return nil, err
	}
	return a.report(result), nil
}

func (a *Analyzer) score(strategy, resumeText, jobText string) (*types.MatchResult, error) {
	if strategy == "" {
		strategy = a.strategy
	}
	scorer, ok := a.scorers[strategy]
	if !ok {
		return nil, &InputError{Field: "strategy", Message: fmt.Sprintf("unknown strategy %q", strategy)}
	}

	result, err := scorer.Score(resumeText, jobText)
	if a.observer != nil {
		var score float64
		if result != nil {
			score = result.Score
		}
		a.observer.ObserveAnalysis(strategy, score, err)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (a *Analyzer) report(result *types.MatchResult) *types.Report {
	return &types.Report{
		ID:          uuid.New(),
		Strategy:    result.Strategy,
		Result:      result,
		Suggestions: suggest.FromResult(result),
		CreatedAt:   a.now().UTC(),
	}
}

func resolveResumeText(pasted string, file *ResumeFile) (string, error) {
	if file == nil || len(file.Data) == 0 {
		return pasted, nil
	}
	text, err := extraction.ExtractText(file.Name, file.MIME, file.Data)
	if err != nil {
		return "", err
	}
	if isBlank(pasted) {
		return text, nil
	}
	return pasted + " " + text, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
