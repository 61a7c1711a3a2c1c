package skills

import (
	"strings"

	"github.com/jonathan/resume-screener/internal/parsing"
	"github.com/jonathan/resume-screener/internal/types"
)

// Extractor finds vocabulary phrases in text. It is safe for concurrent use.
//
// Matching is plain substring containment on normalized text, not token
// matching: "ai" is found inside "maintain" and "sql" inside "nosql". Callers
// that need word-level precision should pick phrases accordingly.
type Extractor struct {
	vocab *Vocabulary
	// patterns[i] is vocab.phrases[i] run through parsing.Normalize, so phrases
	// with punctuation ("make.com", "scikit-learn") can match normalized text.
	patterns []string
}

// NewExtractor prepares an extractor for the given vocabulary.
func NewExtractor(v *Vocabulary) *Extractor {
	patterns := make([]string, len(v.phrases))
	for i, p := range v.phrases {
		patterns[i] = parsing.Normalize(p)
	}
	return &Extractor{vocab: v, patterns: patterns}
}

// Vocabulary returns the vocabulary the extractor matches against.
func (e *Extractor) Vocabulary() *Vocabulary {
	return e.vocab
}

// Extract returns the vocabulary phrases present in text. text may be raw or
// already normalized; it is normalized again either way.
func (e *Extractor) Extract(text string) types.SkillSet {
	return e.ExtractNormalized(parsing.Normalize(text))
}

// ExtractNormalized is Extract for text already passed through parsing.Normalize.
func (e *Extractor) ExtractNormalized(normalized string) types.SkillSet {
	found := make([]string, 0)
	for i, pattern := range e.patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		if strings.Contains(normalized, pattern) {
			found = append(found, e.vocab.phrases[i])
		}
	}
	return types.NewSkillSet(found...)
}

// ExtractSkills is a convenience wrapper around NewExtractor(v).Extract(text).
func ExtractSkills(text string, v *Vocabulary) types.SkillSet {
	return NewExtractor(v).Extract(text)
}
