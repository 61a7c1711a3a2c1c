// Package skills matches a fixed vocabulary of skill phrases against resume and job text.
package skills

import (
	"fmt"
	"strings"
)

// defaultPhrases is the built-in skill vocabulary, in its canonical order.
var defaultPhrases = []string{
	"python", "machine learning", "deep learning", "sql", "nlp",
	"data science", "pandas", "numpy", "scikit-learn",
	"tensorflow", "pytorch", "aws", "docker", "kubernetes",
	"api", "automation", "n8n", "make.com", "zoho",
	"ai", "ml", "cloud", "computer vision",
}

// Vocabulary is an ordered, immutable set of known skill phrases.
// Multi-word phrases such as "machine learning" are allowed.
type Vocabulary struct {
	phrases []string
}

// NewVocabulary builds a vocabulary from phrases. Phrases are trimmed and
// lowercased; duplicates keep their first position. Blank phrases are rejected,
// as is an empty list.
func NewVocabulary(phrases []string) (*Vocabulary, error) {
	if len(phrases) == 0 {
		return nil, &ValidationError{Message: "vocabulary is empty"}
	}

	seen := make(map[string]bool, len(phrases))
	out := make([]string, 0, len(phrases))
	for i, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			return nil, &ValidationError{Message: fmt.Sprintf("phrase %d is blank", i)}
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}

	return &Vocabulary{phrases: out}, nil
}

// DefaultVocabulary returns the built-in vocabulary.
func DefaultVocabulary() *Vocabulary {
	v, err := NewVocabulary(defaultPhrases)
	if err != nil {
		panic(fmt.Sprintf("skills: invalid built-in vocabulary: %v", err))
	}
	return v
}

// Phrases returns a copy of the phrases in vocabulary order.
func (v *Vocabulary) Phrases() []string {
	out := make([]string, len(v.phrases))
	copy(out, v.phrases)
	return out
}

// Len returns the number of phrases.
func (v *Vocabulary) Len() int {
	return len(v.phrases)
}
