// Package observability provides formatted terminal output for analysis reports.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-screener/internal/analysis"
	"github.com/jonathan/resume-screener/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted report output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. Long lines wrap.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(wrapped, inner))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintReport outputs the full analysis: score, skills, experience and suggestions.
func (p *Printer) PrintReport(report *types.Report) {
	if report == nil || report.Result == nil {
		return
	}
	p.PrintResult(report.Result)
	p.PrintSuggestions(report.Suggestions)
}

// PrintResult outputs the score, matched and missing skills and the experience check.
func (p *Printer) PrintResult(r *types.MatchResult) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match Percentage: %.2f%%\n", r.Score))
	sb.WriteString(fmt.Sprintf("%s\n", scoreBar(r.Score, boxWidth-6)))
	sb.WriteString(fmt.Sprintf("Strategy: %s\n\n", r.Strategy))

	writeList(&sb, "Missing Skills", r.Missing.Sorted())
	sb.WriteString("\n")
	writeList(&sb, "Matched Skills", r.Matched.Sorted())
	sb.WriteString("\n")
	sb.WriteString(ExperienceLine(r))

	p.printBox("ATS MATCH SCORE", sb.String())
}

// PrintSuggestions outputs the rewrite suggestions as copy-paste bullets.
func (p *Printer) PrintSuggestions(suggestions types.SuggestionList) {
	if len(suggestions) == 0 {
		return
	}

	lines := make([]string, len(suggestions))
	for i, s := range suggestions {
		lines[i] = "• " + s
	}
	p.printBox("OPTIMIZED RESUME POINTS", strings.Join(lines, "\n"))
}

// PrintBatch outputs a ranked table of batch results.
func (p *Printer) PrintBatch(items []analysis.BatchItem) {
	if len(items) == 0 {
		return
	}

	var sb strings.Builder
	for i, item := range items {
		if item.Report == nil {
			sb.WriteString(fmt.Sprintf("  -  %s: %s\n", item.Name, item.Error))
			continue
		}
		r := item.Report.Result
		sb.WriteString(fmt.Sprintf("#%d  %s  %.2f%%  (%d/%d skills)\n",
			i+1, item.Name, r.Score, r.Matched.Len(), r.Matched.Len()+r.Missing.Len()))
	}

	p.printBox("RANKED CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintVocabulary outputs the skill phrases in use.
func (p *Printer) PrintVocabulary(source string, phrases []string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source: %s\n", source))
	sb.WriteString(fmt.Sprintf("Phrases: %d\n\n", len(phrases)))
	sb.WriteString(strings.Join(phrases, ", "))

	p.printBox("SKILL VOCABULARY", sb.String())
}

// ExperienceLine summarizes the experience check in one line.
func ExperienceLine(r *types.MatchResult) string {
	if !r.RequirementStated {
		return fmt.Sprintf("Experience OK (%d years, no requirement stated)", r.ResumeYears)
	}
	if r.ExperienceMet() {
		return fmt.Sprintf("Experience OK (%d / %d years)", r.ResumeYears, r.RequiredYears)
	}
	return fmt.Sprintf("Experience Gap (%d / %d years)", r.ResumeYears, r.RequiredYears)
}

func writeList(sb *strings.Builder, title string, items []string) {
	sb.WriteString(title + ":\n")
	if len(items) == 0 {
		sb.WriteString("  (none)\n")
		return
	}
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

func scoreBar(score float64, width int) string {
	filled := int(score / 100 * float64(width))
	filled = max(0, min(filled, width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// pad right-pads s with spaces to width runes.
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// wrap breaks line at word boundaries into pieces of at most width runes.
// Continuation lines keep the original indentation plus two spaces.
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
	cont := indent + "  "

	var out []string
	current := indent
	for _, word := range strings.Fields(line) {
		candidate := current + word
		if current != indent && current != cont {
			candidate = current + " " + word
		}
		if utf8.RuneCountInString(candidate) > width && current != indent && current != cont {
			out = append(out, current)
			current = cont + word
			continue
		}
		current = candidate
	}
	return append(out, current)
}
