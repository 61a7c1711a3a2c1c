package fetch

import (
	"net/url"
	"strings"
)

// Board is a known job board, detected from the posting URL.
type Board string

const (
	BoardGreenhouse      Board = "greenhouse"
	BoardLever           Board = "lever"
	BoardWorkday         Board = "workday"
	BoardAshby           Board = "ashby"
	BoardSmartRecruiters Board = "smartrecruiters"
	BoardUnknown         Board = "unknown"
)

type boardRule struct {
	hosts   []string
	content []string
	noise   []string
}

var boardRules = map[Board]boardRule{
	BoardGreenhouse: {
		hosts:   []string{"greenhouse.io"},
		content: []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:   []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply"},
	},
	BoardLever: {
		hosts:   []string{"lever.co"},
		content: []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:   []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	BoardWorkday: {
		hosts:   []string{"myworkdayjobs.com", "workday.com"},
		content: []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
		noise:   []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	BoardAshby: {
		hosts:   []string{"ashbyhq.com"},
		content: []string{"[class*='_descriptionText']", "[class*='_description']", "main"},
		noise:   []string{"[class*='_applicationForm']"},
	},
	BoardSmartRecruiters: {
		hosts:   []string{"smartrecruiters.com"},
		content: []string{"[itemprop='description']", ".job-sections", "main"},
		noise:   []string{".apply-btn-container", ".job-share"},
	},
}

// sharedNoise applies to every board: application forms, legal boilerplate
// and share widgets never describe the job.
var sharedNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	"[data-testid='application-form']",
	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	".legal-disclosure",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

var genericContent = []string{
	".job-description",
	".job-content",
	"#job-description",
	"#job-content",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
	".content",
	"#content",
}

// DetectBoard identifies the job board from a URL's host.
func DetectBoard(rawURL string) Board {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return BoardUnknown
	}
	host := strings.ToLower(parsed.Hostname())

	for board, rule := range boardRules {
		for _, h := range rule.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return board
			}
		}
	}
	return BoardUnknown
}

// ContentSelectors returns the selectors tried, in order, for the description.
func (b Board) ContentSelectors() []string {
	rule, ok := boardRules[b]
	if !ok {
		return genericContent
	}
	return append(append([]string{}, rule.content...), genericContent...)
}

// NoiseSelectors returns the selectors removed before extraction.
func (b Board) NoiseSelectors() []string {
	return append(append([]string{}, sharedNoise...), boardRules[b].noise...)
}
