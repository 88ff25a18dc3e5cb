// Package extract fetches a web page and pulls out its readable text using
// the same heuristic the browser front-end applies to the active tab.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html/charset"

	"github.com/localrivet/pagesummary/internal/errortypes"
	"github.com/localrivet/pagesummary/internal/telemetry"
)

const (
	// MinContentChars is the shortest extraction result worth summarizing.
	MinContentChars = 50

	// BodyTextLimit caps the last-resort body text.
	BodyTextLimit = 30000

	// substantialChars is the length a candidate must exceed to be accepted.
	substantialChars = 250

	// minParagraphs is the paragraph count the paragraph scan requires.
	minParagraphs = 3

	// paragraphChars is the length a paragraph must exceed to be kept.
	paragraphChars = 50

	// maxPageBytes limits how much of a response body is read.
	maxPageBytes = 5 << 20

	userAgent = "pagesummary/1.0 (+https://github.com/localrivet/pagesummary)"
)

// ErrNoContent is returned when a page yields too little text to summarize.
var ErrNoContent = errors.New("Could not extract meaningful content from this page.")

// contentSelectors are tried in order; the first element with substantial
// text wins.
var contentSelectors = []string{
	"article",
	`[role="article"]`,
	".article-content",
	".post-content",
	".entry-content",
	".content-article",
	"#article-body",
	"main",
	".main-content",
}

// Method names the heuristic step that produced a Page.
type Method string

const (
	MethodSelector    Method = "selector"
	MethodParagraphs  Method = "paragraphs"
	MethodReadability Method = "readability"
	MethodBody        Method = "body"
)

// Page is the readable text of one web page.
type Page struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
	Method  Method `json:"method"`
}

// Extractor downloads pages and extracts their text.
type Extractor struct {
	client  *http.Client
	logger  *slog.Logger
	metrics *telemetry.MetricsCollector
}

// New creates an Extractor. A nil client gets a 30 second timeout; nil
// logger and metrics are replaced with no-op instances.
func New(client *http.Client, logger *slog.Logger, metrics *telemetry.MetricsCollector) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if metrics == nil {
		metrics = telemetry.NewMetricsCollector()
	}
	return &Extractor{
		client:  client,
		logger:  logger.With("component", "extract"),
		metrics: metrics,
	}
}

// ParseURL accepts absolute http and https URLs only.
func ParseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, errortypes.ValidationError(err, "invalid page URL")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errortypes.ValidationError(fmt.Errorf("unsupported URL %q", rawURL), "invalid page URL")
	}
	return u, nil
}

// Fetch downloads rawURL and extracts its text.
func (e *Extractor) Fetch(ctx context.Context, rawURL string) (Page, error) {
	start := time.Now()
	e.metrics.IncrementCounter(telemetry.MetricExtractRequests, 1)

	page, err := e.fetch(ctx, rawURL)
	e.metrics.RecordTimer(telemetry.MetricExtractTime, time.Since(start))
	if err != nil {
		e.metrics.IncrementCounter(telemetry.MetricExtractFailures, 1)
		errortypes.LogError(e.logger.With("url", rawURL), err)
		return Page{}, err
	}

	e.logger.Info("page extracted",
		"url", page.URL,
		"method", string(page.Method),
		"content_chars", utf8.RuneCountInString(page.Content),
		"duration", time.Since(start),
	)
	return page, nil
}

func (e *Extractor) fetch(ctx context.Context, rawURL string) (Page, error) {
	u, err := ParseURL(rawURL)
	if err != nil {
		return Page{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Page{}, errortypes.NetworkError(err, "failed to create page request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := e.client.Do(req)
	if err != nil {
		return Page{}, errortypes.NetworkError(err, "failed to fetch page").WithField("url", u.String())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Page{}, errortypes.NetworkError(
			fmt.Errorf("unexpected status %d", resp.StatusCode), "failed to fetch page").
			WithField("url", u.String()).
			WithField("status_code", resp.StatusCode)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxPageBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return Page{}, errortypes.NetworkError(err, "failed to decode page")
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return Page{}, errortypes.NetworkError(err, "failed to read page")
	}

	return ExtractFromHTML(bytes.NewReader(raw), u.String())
}

// ExtractFromHTML runs the extraction heuristic over an HTML document that
// is already UTF-8:
//
//  1. the first element matching a content selector whose text exceeds 250 characters
//  2. more than three paragraphs, keeping those over 50 characters, if they total over 250
//  3. the readability article text, if over 250 characters
//  4. the body text, capped at 30000 characters
//
// Results shorter than MinContentChars fail with ErrNoContent.
func ExtractFromHTML(r io.Reader, pageURL string) (Page, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Page{}, errortypes.InternalError(err, "failed to read HTML")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return Page{}, errortypes.InternalError(err, "failed to parse HTML")
	}

	page := Page{
		URL:   pageURL,
		Title: collapse(doc.Find("title").First().Text()),
	}
	doc.Find("script, style, noscript, template").Remove()

	if text, ok := fromSelectors(doc); ok {
		page.Content, page.Method = text, MethodSelector
	} else if text, ok := fromParagraphs(raw); ok {
		page.Content, page.Method = text, MethodParagraphs
	} else if text, ok := fromReadability(raw, pageURL); ok {
		page.Content, page.Method = text, MethodReadability
	} else {
		page.Content, page.Method = fromBody(doc), MethodBody
	}

	if utf8.RuneCountInString(page.Content) < MinContentChars {
		return Page{}, ErrNoContent
	}
	return page, nil
}

func fromSelectors(doc *goquery.Document) (string, bool) {
	for _, selector := range contentSelectors {
		var found string
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := collapse(s.Text())
			if utf8.RuneCountInString(text) > substantialChars {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return found, true
		}
	}
	return "", false
}

// paragraphPolicy keeps paragraphs and inline text markup only.
func paragraphPolicy() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("p", "a", "strong", "em")
	return policy
}

func fromParagraphs(raw []byte) (string, bool) {
	cleaned := paragraphPolicy().SanitizeReader(bytes.NewReader(raw))
	doc, err := goquery.NewDocumentFromReader(cleaned)
	if err != nil {
		return "", false
	}

	paragraphs := doc.Find("p")
	if paragraphs.Length() <= minParagraphs {
		return "", false
	}

	var kept []string
	paragraphs.Each(func(_ int, s *goquery.Selection) {
		text := collapse(s.Text())
		if utf8.RuneCountInString(text) > paragraphChars {
			kept = append(kept, text)
		}
	})

	joined := strings.Join(kept, "\n\n")
	if utf8.RuneCountInString(joined) > substantialChars {
		return joined, true
	}
	return "", false
}

func fromReadability(raw []byte, pageURL string) (string, bool) {
	var base *url.URL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		base = u
	}

	article, err := readability.FromReader(bytes.NewReader(raw), base)
	if err != nil {
		return "", false
	}

	var buf strings.Builder
	if err := article.RenderText(&buf); err != nil {
		return "", false
	}
	text := strings.TrimSpace(buf.String())
	if utf8.RuneCountInString(text) > substantialChars {
		return text, true
	}
	return "", false
}

func fromBody(doc *goquery.Document) string {
	text := strings.TrimSpace(doc.Find("body").Text())
	if text == "" {
		text = strings.TrimSpace(doc.Text())
	}
	return limitRunes(text, BodyTextLimit)
}

// collapse trims s and folds whitespace runs into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func limitRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
