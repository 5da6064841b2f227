package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Test Article</title></head>
<body>
<article>
<h1>Test Article</h1>
<p>This is a test article with meaningful content that should be extracted by the readability parser. It contains enough text to be considered article content.</p>
<p>The readability library needs a reasonable amount of content to identify the main article body. This second paragraph adds more substance to the article.</p>
<p>Adding a third paragraph ensures the content is substantial enough for extraction. The go-readability library uses heuristics to find the main content area.</p>
</article>
</body>
</html>`

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRead_Success(t *testing.T) {
	server := serveHTML(t, articleHTML)

	r := NewReaderWithClient(server.Client(), 0)
	p, err := r.Read(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Text == "" {
		t.Fatal("expected non-empty text")
	}
	if !strings.Contains(p.Text, "readability") {
		t.Errorf("expected text to contain article body, got: %s", p.Text)
	}
	if p.Truncated {
		t.Error("short article should not be truncated")
	}
}

func TestRead_Truncation(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html><head><title>Long</title></head><body><article>`)
	for i := 0; i < 200; i++ {
		sb.WriteString(fmt.Sprintf("<p>Paragraph %d with enough text, and some ümlauts, to make the article long enough for truncation.</p>", i))
	}
	sb.WriteString(`</article></body></html>`)
	server := serveHTML(t, sb.String())

	r := NewReaderWithClient(server.Client(), 500)
	p, err := r.Read(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := utf8.RuneCountInString(p.Text); n != 500 {
		t.Errorf("expected 500 runes, got %d", n)
	}
	if !utf8.ValidString(p.Text) {
		t.Error("truncated text is not valid UTF-8")
	}
	if !p.Truncated {
		t.Error("expected Truncated to be set")
	}
}

func TestRead_HTTPError(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusNotFound} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		r := NewReaderWithClient(server.Client(), 0)
		_, err := r.Read(context.Background(), server.URL)
		if err == nil {
			t.Errorf("expected error for HTTP %d response", status)
		}
		server.Close()
	}
}

func TestRead_EmptyURL(t *testing.T) {
	r := NewReader(time.Second, 0)
	if _, err := r.Read(context.Background(), ""); err == nil {
		t.Fatal("expected error for story without URL")
	}
}

func TestRead_Unreachable(t *testing.T) {
	r := NewReader(5*time.Second, 0)
	if _, err := r.Read(context.Background(), "http://localhost:1/nonexistent"); err == nil {
		t.Fatal("expected error for unreachable URL")
	}
}

func TestRead_ContextCancellation(t *testing.T) {
	server := serveHTML(t, articleHTML)

	r := NewReaderWithClient(server.Client(), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Read(ctx, server.URL); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in        string
		n         int
		want      string
		truncated bool
	}{
		{"hello", 10, "hello", false},
		{"hello", 5, "hello", false},
		{"hello", 3, "hel", true},
		{"héllo", 2, "hé", true},
		{"", 3, "", false},
	}
	for _, tt := range tests {
		got, truncated := truncate(tt.in, tt.n)
		if got != tt.want || truncated != tt.truncated {
			t.Errorf("truncate(%q, %d) = (%q, %v), want (%q, %v)", tt.in, tt.n, got, truncated, tt.want, tt.truncated)
		}
	}
}
