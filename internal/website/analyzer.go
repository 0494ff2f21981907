// Package website extracts plain text signals from a brand's public site.
package website

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/replyforge/replyforge/internal/metrics"
)

const (
	maxBodyText = 5000
	// Anything past this is ignored; a brand page rarely comes close.
	maxPageBytes = 2 << 20
	maxHeadings  = 20
	userAgent    = "ReplyForgeBot/1.0 (+https://replyforge.app)"
)

// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs.
var ErrInvalidURL = errors.New("website url must be an absolute http or https url")

// Analysis is the extracted content of a page.
type Analysis struct {
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	MetaDescription string   `json:"metaDescription"`
	Headings        []string `json:"headings"`
	BodyText        string   `json:"bodyText"`
}

// Analyzer fetches pages with a fixed timeout.
type Analyzer struct {
	client  *http.Client
	timeout time.Duration
}

// NewAnalyzer creates an Analyzer. Each fetch is bounded by timeout.
func NewAnalyzer(client *http.Client, timeout time.Duration) *Analyzer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Analyzer{client: client, timeout: timeout}
}

// Analyze fetches rawURL and extracts title, description, headings and body text.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (result *Analysis, err error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidURL
	}

	start := time.Now()
	defer func() { metrics.ObserveUpstream("website", "fetch", start, err) }()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetching %s: status %d", u.Host, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	return extract(doc, u.String()), nil
}

func extract(doc *goquery.Document, pageURL string) *Analysis {
	out := &Analysis{
		URL:      pageURL,
		Title:    collapse(doc.Find("title").First().Text()),
		Headings: []string{},
	}

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		out.MetaDescription = collapse(desc)
	} else if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		out.MetaDescription = collapse(desc)
	}

	doc.Find("h1, h2, h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if text := collapse(s.Text()); text != "" {
			out.Headings = append(out.Headings, text)
		}
		return len(out.Headings) < maxHeadings
	})

	body := doc.Find("body").Clone()
	body.Find("script, style, noscript, svg").Remove()
	out.BodyText = truncate(collapse(body.Text()), maxBodyText)

	return out
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
