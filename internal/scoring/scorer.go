// Package scoring computes how well a resume matches a job description.
//
// Two strategies are available behind the Scorer interface: vocabulary overlap
// (the default) and TF-IDF cosine similarity over the two documents.
package scoring

import (
	"fmt"
	"math"

	"github.com/jonathan/resume-screener/internal/parsing"
	"github.com/jonathan/resume-screener/internal/skills"
	"github.com/jonathan/resume-screener/internal/types"
)

// Strategy names accepted by New.
const (
	StrategyOverlap     = "overlap"
	StrategyStatistical = "statistical"
)

// Scorer scores one resume against one job description. Implementations are
// stateless after construction and safe for concurrent use.
type Scorer interface {
	Name() string
	Score(resumeText, jobText string) (*types.MatchResult, error)
}

// Option configures a Scorer built by New.
type Option func(*options)

type options struct {
	weights   Weights
	stopWords parsing.StopWords
}

// WithWeights overrides the overlap strategy's skill/experience split.
func WithWeights(w Weights) Option {
	return func(o *options) { o.weights = w }
}

// WithStopWords overrides the statistical strategy's stop-word list.
func WithStopWords(s parsing.StopWords) Option {
	return func(o *options) { o.stopWords = s }
}

// Strategies lists the accepted strategy names.
func Strategies() []string {
	return []string{StrategyOverlap, StrategyStatistical}
}

// New builds the scorer for strategy. An empty strategy selects overlap.
// extractor is required for the overlap strategy and ignored otherwise.
func New(strategy string, extractor *skills.Extractor, opts ...Option) (Scorer, error) {
	o := options{
		weights:   DefaultWeights(),
		stopWords: parsing.EnglishStopWords(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	switch strategy {
	case "", StrategyOverlap:
		if extractor == nil {
			return nil, fmt.Errorf("overlap strategy requires a skill extractor")
		}
		return NewOverlapScorer(extractor, o.weights)
	case StrategyStatistical:
		return NewStatisticalScorer(o.stopWords), nil
	default:
		return nil, fmt.Errorf("unknown scoring strategy %q (want one of %v)", strategy, Strategies())
	}
}

// round2 rounds to two decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
