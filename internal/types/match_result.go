package types

import (
	"time"

	"github.com/google/uuid"
)

// Document is one side of an analysis (resume or job description): the raw
// text as supplied plus its normalized form and whitespace tokens.
type Document struct {
	Raw        string
	Normalized string
	Tokens     []string
}

// IsEmpty reports whether normalization left nothing to compare.
func (d Document) IsEmpty() bool {
	return len(d.Tokens) == 0
}

// MatchResult is the outcome of scoring one resume against one job description.
type MatchResult struct {
	Strategy      string   `json:"strategy"`
	Score         float64  `json:"score"`
	Matched       SkillSet `json:"matched"`
	Missing       SkillSet `json:"missing"`
	ResumeYears   int      `json:"resume_years"`
	RequiredYears int      `json:"required_years"`
	// RequirementStated is false when the job text mentions no year count at
	// all, which is otherwise indistinguishable from RequiredYears == 0.
	RequirementStated bool `json:"requirement_stated"`
}

// ExperienceMet reports whether the resume's stated years cover the requirement.
func (r *MatchResult) ExperienceMet() bool {
	return r.ResumeYears >= r.RequiredYears
}

// SuggestionList is an ordered list of rewrite suggestions derived from a MatchResult.
type SuggestionList []string

// Report bundles a MatchResult with its suggestions for presentation layers.
// Reports are returned to the caller and never stored.
type Report struct {
	ID          uuid.UUID      `json:"id"`
	Strategy    string         `json:"strategy"`
	Result      *MatchResult   `json:"result"`
	Suggestions SuggestionList `json:"suggestions"`
	CreatedAt   time.Time      `json:"created_at"`
}
