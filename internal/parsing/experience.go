package parsing

import (
	"regexp"
	"strconv"
)

// yearsPattern matches "5 years", "10+ years", "3+year" and similar phrases.
var yearsPattern = regexp.MustCompile(`(?i)(\d+)\s*\+?\s*years?`)

// ExtractYears returns the largest year count stated in text, or 0 when none is
// stated. Smaller counts (e.g. "2 years with Kafka" next to "8 years overall")
// are discarded.
func ExtractYears(text string) int {
	years, _ := ExtractExperience(text)
	return years
}

// ExtractExperience is ExtractYears that also reports whether any year phrase
// was found, so "0 years" and "not mentioned" can be told apart.
// Digit groups too large for an int are skipped.
func ExtractExperience(text string) (years int, stated bool) {
	for _, m := range yearsPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if !stated || n > years {
			years = n
		}
		stated = true
	}
	return years, stated
}
