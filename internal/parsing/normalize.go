// Package parsing turns raw resume and job description text into comparable forms.
package parsing

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches a single character outside [a-z0-9] and ASCII whitespace.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]`)
	// nonLetter matches a single character outside [a-z] and ASCII whitespace.
	nonLetter = regexp.MustCompile(`[^a-z\s]`)
)

// Normalize lowercases text and replaces every character outside [a-z0-9] and
// whitespace with a single space. Whitespace runs are left as they are.
// The result is stable: Normalize(Normalize(t)) == Normalize(t).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(text), " ")
}

// NormalizeLetters lowercases text and deletes every character outside [a-z]
// and whitespace. Digits are dropped, so "python3" becomes "python".
func NormalizeLetters(text string) string {
	if text == "" {
		return ""
	}
	return nonLetter.ReplaceAllString(strings.ToLower(text), "")
}

// Tokens splits text on whitespace.
func Tokens(text string) []string {
	return strings.Fields(text)
}

// RemoveStopWords rebuilds text from its whitespace tokens, dropping members of
// stop and joining the survivors with single spaces. Token order is preserved.
func RemoveStopWords(text string, stop StopWords) string {
	tokens := Tokens(text)
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if stop.Contains(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}
