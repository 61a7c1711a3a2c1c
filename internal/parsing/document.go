package parsing

import "github.com/jonathan/resume-screener/internal/types"

// Mode selects how a Document's normalized form is derived.
type Mode int

const (
	// ModeKeyword keeps letters and digits, for vocabulary matching.
	ModeKeyword Mode = iota
	// ModeStatistical keeps letters only and drops stop words, for TF-IDF.
	ModeStatistical
)

// NewDocument derives the normalized text and token list for raw.
// stop is only consulted in ModeStatistical; nil means no filtering.
func NewDocument(raw string, mode Mode, stop StopWords) types.Document {
	var normalized string
	switch mode {
	case ModeStatistical:
		normalized = RemoveStopWords(NormalizeLetters(raw), stop)
	default:
		normalized = Normalize(raw)
	}
	return types.Document{
		Raw:        raw,
		Normalized: normalized,
		Tokens:     Tokens(normalized),
	}
}
