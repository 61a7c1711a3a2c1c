package skills

import (
	"context"
	"encoding/json"
	"os"

	"github.com/jonathan/resume-screener/internal/schemas"
)

// File is the on-disk vocabulary format.
type File struct {
	Name   string   `json:"name,omitempty"`
	Skills []string `json:"skills"`
}

// Source supplies vocabulary phrases from an external store.
type Source interface {
	ListVocabulary(ctx context.Context) ([]string, error)
}

// LoadVocabularyFile reads a vocabulary JSON file, validates it against the
// embedded vocabulary schema and builds a Vocabulary from it.
func LoadVocabularyFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Message: "failed to read file", Cause: err}
	}
	return ParseVocabulary(path, data)
}

// ParseVocabulary builds a Vocabulary from vocabulary JSON content.
// source is only used in error messages.
func ParseVocabulary(source string, data []byte) (*Vocabulary, error) {
	if err := schemas.Validate(schemas.Vocabulary, data); err != nil {
		return nil, &LoadError{Source: source, Message: "schema validation failed", Cause: err}
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &LoadError{Source: source, Message: "failed to parse JSON", Cause: err}
	}

	return NewVocabulary(f.Skills)
}

// LoadVocabulary reads phrases from src and builds a Vocabulary from them.
func LoadVocabulary(ctx context.Context, name string, src Source) (*Vocabulary, error) {
	phrases, err := src.ListVocabulary(ctx)
	if err != nil {
		return nil, &LoadError{Source: name, Message: "query failed", Cause: err}
	}
	return NewVocabulary(phrases)
}
