package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractYears(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"Takes the maximum", "5 years, 10+ years experience", 10},
		{"No year phrases", "no years mentioned", 0},
		{"Empty text", "", 0},
		{"Singular year", "1 year of Go", 1},
		{"Plus with spaces", "7 + years", 7},
		{"Case insensitive", "3 YEARS", 3},
		{"No space before years", "4years", 4},
		{"Explicit zero", "0 years required", 0},
		{"Ignores bare numbers", "managed 40 engineers", 0},
		{"Normalized text still matches", "6  years", 6},
		{"Overflowing digits are skipped", "99999999999999999999999 years and 2 years", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractYears(tt.input))
		})
	}
}

func TestExtractExperience_Stated(t *testing.T) {
	years, stated := ExtractExperience("0 years required")
	assert.Equal(t, 0, years)
	assert.True(t, stated)

	years, stated = ExtractExperience("no experience needed")
	assert.Equal(t, 0, years)
	assert.False(t, stated)

	years, stated = ExtractExperience("2 years with Kafka, 8+ years overall")
	assert.Equal(t, 8, years)
	assert.True(t, stated)
}
