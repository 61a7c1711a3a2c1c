package scoring

import "fmt"

// VocabularyError is returned by the statistical strategy when a document has
// no terms left after normalization and cosine similarity is undefined.
type VocabularyError struct {
	Document string
}

func (e *VocabularyError) Error() string {
	return fmt.Sprintf("statistical scoring needs non-empty documents: %s has no terms after normalization", e.Document)
}
