// Package suggest turns a match result into copy-paste resume bullet suggestions.
package suggest

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/resume-screener/internal/types"
)

// MaxMissingNamed caps how many missing skills the growth bullet names.
const MaxMissingNamed = 5

const closingBullet = "Optimized solutions following ATS best practices and industry-aligned keywords."

// Generate builds the suggestion list: one bullet per matched skill, an
// experience bullet when years are known, a bullet naming up to
// MaxMissingNamed missing skills, and a closing bullet. Output is
// deterministic for a given input.
func Generate(matched, missing types.SkillSet, resumeYears int) types.SuggestionList {
	caser := cases.Title(language.English)
	out := make(types.SuggestionList, 0, matched.Len()+3)

	for _, skill := range matched.Sorted() {
		out = append(out, fmt.Sprintf(
			"Applied %s in real-world projects to deliver scalable and efficient solutions.",
			caser.String(skill)))
	}

	if resumeYears > 0 {
		out = append(out, fmt.Sprintf(
			"Demonstrated %d+ years of hands-on experience working on production-level systems.",
			resumeYears))
	}

	if !missing.IsEmpty() {
		names := missing.Sorted()
		if len(names) > MaxMissingNamed {
			names = names[:MaxMissingNamed]
		}
		out = append(out, fmt.Sprintf(
			"Currently enhancing expertise in %s to align with advanced role requirements.",
			strings.Join(names, ", ")))
	}

	return append(out, closingBullet)
}

// FromResult generates suggestions for a scored match.
func FromResult(r *types.MatchResult) types.SuggestionList {
	if r == nil {
		return types.SuggestionList{closingBullet}
	}
	return Generate(r.Matched, r.Missing, r.ResumeYears)
}
