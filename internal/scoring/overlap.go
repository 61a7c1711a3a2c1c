package scoring

import (
	"fmt"
	"math"

	"github.com/jonathan/resume-screener/internal/parsing"
	"github.com/jonathan/resume-screener/internal/skills"
	"github.com/jonathan/resume-screener/internal/types"
)

// Weights splits the 100 available points between skill coverage and
// experience. Both must be non-negative and sum to 100.
type Weights struct {
	Skill      float64 `json:"skill"`
	Experience float64 `json:"experience"`
}

// DefaultWeights reserves 70 points for skill coverage and 30 for experience.
func DefaultWeights() Weights {
	return Weights{Skill: 70, Experience: 30}
}

// Validate checks the weights keep scores within [0, 100].
func (w Weights) Validate() error {
	if w.Skill < 0 || w.Experience < 0 {
		return fmt.Errorf("weights must be non-negative (skill=%v, experience=%v)", w.Skill, w.Experience)
	}
	if math.Abs(w.Skill+w.Experience-100) > 1e-9 {
		return fmt.Errorf("weights must sum to 100 (skill=%v, experience=%v)", w.Skill, w.Experience)
	}
	return nil
}

// OverlapScorer scores by vocabulary overlap plus a proportional experience term:
//
//	skill      = |matched| / max(|job skills|, 1) * Weights.Skill
//	experience = Weights.Experience                                  if resume years >= required
//	           = resume years / max(required, 1) * Weights.Experience otherwise
//
// The sum is never clamped; it lies in [0, 100] by construction.
type OverlapScorer struct {
	extractor *skills.Extractor
	weights   Weights
}

// NewOverlapScorer returns an overlap scorer using extractor and weights.
func NewOverlapScorer(extractor *skills.Extractor, weights Weights) (*OverlapScorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &OverlapScorer{extractor: extractor, weights: weights}, nil
}

// Name returns StrategyOverlap.
func (s *OverlapScorer) Name() string {
	return StrategyOverlap
}

// Score extracts skills and years from both texts and scores them.
func (s *OverlapScorer) Score(resumeText, jobText string) (*types.MatchResult, error) {
	resume := parsing.NewDocument(resumeText, parsing.ModeKeyword, nil)
	job := parsing.NewDocument(jobText, parsing.ModeKeyword, nil)

	resumeSkills := s.extractor.ExtractNormalized(resume.Normalized)
	jobSkills := s.extractor.ExtractNormalized(job.Normalized)

	resumeYears := parsing.ExtractYears(resume.Raw)
	requiredYears, stated := parsing.ExtractExperience(job.Raw)

	result := s.ScoreSets(resumeSkills, jobSkills, resumeYears, requiredYears)
	result.RequirementStated = stated
	return &result, nil
}

// ScoreSets scores already-extracted skill sets and year counts.
// matched ∪ missing always equals jobSkills and the two never intersect.
// RequirementStated is left false; only the caller knows whether the job text
// stated a requirement (see parsing.ExtractExperience).
func (s *OverlapScorer) ScoreSets(resumeSkills, jobSkills types.SkillSet, resumeYears, requiredYears int) types.MatchResult {
	matched := resumeSkills.Intersect(jobSkills)
	missing := jobSkills.Difference(resumeSkills)

	skillScore := float64(matched.Len()) / float64(max(jobSkills.Len(), 1)) * s.weights.Skill

	var experienceScore float64
	if resumeYears >= requiredYears {
		experienceScore = s.weights.Experience
	} else {
		experienceScore = float64(max(resumeYears, 0)) / float64(max(requiredYears, 1)) * s.weights.Experience
	}

	return types.MatchResult{
		Strategy:      StrategyOverlap,
		Score:         round2(skillScore + experienceScore),
		Matched:       matched,
		Missing:       missing,
		ResumeYears:   resumeYears,
		RequiredYears: requiredYears,
	}
}
