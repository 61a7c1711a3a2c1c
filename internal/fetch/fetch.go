// Package fetch retrieves job descriptions from job board URLs as plain text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is the user agent string for HTTP requests.
	DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeScreener/1.0)"
	// MaxBodyBytes caps how much of a response body is read.
	MaxBodyBytes = 5 << 20
	// MinContentLength is the shortest extracted text accepted without trying
	// a browser render; shorter pages are likely client-side rendered.
	MinContentLength = 500
)

// Options configures a Fetcher.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	// Render, when set, is used for pages whose static HTML yields too little text.
	Render  Renderer
	Verbose bool
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Page is a fetched job posting.
type Page struct {
	URL        string
	Board      Board
	HTML       string
	Text       string
	StatusCode int
	// Rendered is true when the text came from a browser render.
	Rendered bool
}

// Fetcher downloads job pages and reduces them to text.
type Fetcher struct {
	client *http.Client
	opts   Options
}

// New creates a Fetcher. A nil opts uses DefaultOptions.
func New(opts *Options) *Fetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	o := *opts
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	return &Fetcher{
		client: &http.Client{Timeout: o.Timeout},
		opts:   o,
	}
}

// JobText fetches rawURL and returns the job description text using the
// board's selectors, falling back to a browser render for thin pages when a
// Renderer is configured.
func (f *Fetcher) JobText(ctx context.Context, rawURL string) (*Page, error) {
	html, status, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	board := DetectBoard(rawURL)
	page := &Page{URL: rawURL, Board: board, HTML: html, StatusCode: status}

	page.Text, err = ExtractMainText(html, board.ContentSelectors(), board.NoiseSelectors()...)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to extract text", Cause: err}
	}

	if f.opts.Render != nil && tooShort(page.Text) {
		if f.opts.Verbose {
			log.Printf("[fetch] %s: %d chars of static text, rendering in browser", rawURL, len(page.Text))
		}
		rendered, err := f.opts.Render(ctx, rawURL)
		if err != nil {
			log.Printf("[fetch] %s: browser render failed, keeping static text: %v", rawURL, err)
		} else if text, err := ExtractMainText(rendered, board.ContentSelectors(), board.NoiseSelectors()...); err == nil && len(text) > len(page.Text) {
			page.HTML, page.Text, page.Rendered = rendered, text, true
		}
	}

	if strings.TrimSpace(page.Text) == "" {
		return nil, &Error{URL: rawURL, Message: "page has no readable text", StatusCode: status}
	}
	return page, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (string, int, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", 0, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", 0, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	for key, value := range f.opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, &Error{
			URL:        rawURL,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return "", resp.StatusCode, &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
	}
	return string(body), resp.StatusCode, nil
}

func tooShort(text string) bool {
	return len(strings.TrimSpace(text)) < MinContentLength
}
