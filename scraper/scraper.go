package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// DefaultMaxChars bounds the preview text when no limit is configured.
const DefaultMaxChars = 4000

// Preview is the readable part of a story's linked page.
type Preview struct {
	Title     string
	Byline    string
	Text      string
	Truncated bool
}

// Reader fetches a story URL and extracts its readable text.
type Reader interface {
	Read(ctx context.Context, pageURL string) (*Preview, error)
}

type httpReader struct {
	client   *http.Client
	maxChars int
}

// NewReader creates a Reader with the given HTTP timeout and text limit.
// A non-positive maxChars means DefaultMaxChars.
func NewReader(timeout time.Duration, maxChars int) Reader {
	return NewReaderWithClient(&http.Client{Timeout: timeout}, maxChars)
}

// NewReaderWithClient creates a Reader with a custom HTTP client.
func NewReaderWithClient(client *http.Client, maxChars int) Reader {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &httpReader{
		client:   client,
		maxChars: maxChars,
	}
}

// Read fetches pageURL and extracts readable text, cut to the configured
// number of characters.
func (r *httpReader) Read(ctx context.Context, pageURL string) (*Preview, error) {
	if pageURL == "" {
		return nil, fmt.Errorf("story has no URL")
	}
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating preview request for %s: %w", pageURL, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s returned status %d", pageURL, resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return nil, fmt.Errorf("extracting content from %s: %w", pageURL, err)
	}

	text, truncated := truncate(strings.TrimSpace(article.TextContent), r.maxChars)
	return &Preview{
		Title:     article.Title,
		Byline:    article.Byline,
		Text:      text,
		Truncated: truncated,
	}, nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) (string, bool) {
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, false
}
