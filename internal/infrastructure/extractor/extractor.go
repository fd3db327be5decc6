package extractor

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"HNSummarizer/internal/config"
	"HNSummarizer/internal/domain"
	"HNSummarizer/internal/ports"
)

const (
	noTitle          = "No title found"
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
)

var (
	whitespaceExpr = regexp.MustCompile(`\s+`)

	// Content-region names tried against element ids and classes, in
	// order. A "main-" prefix is accepted for both.
	contentIDs     = []string{"content", "main", "article", "post", "entry"}
	contentClasses = []string{"content", "article", "post", "entry", "story"}
)

// Extractor fetches a story's page and reduces it to plain text using a
// fallback chain of content-region heuristics. Unreachable or unreadable
// pages are classified as access-restricted, never surfaced as errors.
type Extractor struct {
	client *resty.Client
	logger *slog.Logger
}

var _ ports.ContentExtractor = (*Extractor)(nil)

// New wires a resty client with the configured timeout and user agent.
func New(cfg config.ExtractorConfig, log *slog.Logger) *Extractor {
	client := resty.New().
		SetTimeout(cfg.Timeout()).
		SetHeader("User-Agent", cfg.UserAgent)

	return &Extractor{client: client, logger: log}
}

// Extract fetches rawURL and returns its main content as plain text.
func (e *Extractor) Extract(ctx context.Context, rawURL string) domain.ExtractedContent {
	domainName := hostOf(rawURL)

	resp, err := e.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		e.warn("page fetch failed", "url", rawURL, "error", err)
		return restricted(rawURL, domainName)
	}
	if resp.IsError() {
		e.warn("page returned error status", "url", rawURL, "status", resp.Status())
		return restricted(rawURL, domainName)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		e.warn("page parse failed", "url", rawURL, "error", err)
		return restricted(rawURL, domainName)
	}

	title := pageTitle(doc)
	text := mainContentText(doc)
	if text == "" {
		// Nothing readable survived stripping; classify like an
		// unreachable page rather than a parse error.
		e.debug("empty content after stripping", "url", rawURL)
		result := restricted(rawURL, domainName)
		result.Title = title
		return result
	}

	e.debug("extracted content", "url", rawURL, "chars", len(text))

	return domain.ExtractedContent{
		URL:         rawURL,
		Domain:      domainName,
		Title:       title,
		Text:        text,
		ExtractedAt: time.Now().UTC(),
	}
}

func restricted(rawURL, domainName string) domain.ExtractedContent {
	return domain.ExtractedContent{
		URL:              rawURL,
		Domain:           domainName,
		Title:            noTitle,
		AccessRestricted: true,
		ExtractedAt:      time.Now().UTC(),
	}
}

func pageTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return noTitle
	}
	return title
}

// mainContentText strips non-content elements and walks the selection
// fallback chain: id match, class match, <article>, <body>, document.
func mainContentText(doc *goquery.Document) string {
	doc.Find("script, style, nav, header, footer, aside").Remove()

	selection := findByAttr(doc, "id", contentIDs)
	if selection == nil {
		selection = findByAttr(doc, "class", contentClasses)
	}
	if selection == nil {
		if article := doc.Find("article").First(); article.Length() > 0 {
			selection = article
		}
	}
	if selection == nil {
		if body := doc.Find("body").First(); body.Length() > 0 {
			selection = body
		}
	}
	if selection == nil {
		selection = doc.Selection
	}

	text := selection.Text()
	return strings.TrimSpace(whitespaceExpr.ReplaceAllString(text, " "))
}

func findByAttr(doc *goquery.Document, attr string, names []string) *goquery.Selection {
	for _, name := range names {
		var match *goquery.Selection
		doc.Find("[" + attr + "]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			value, _ := sel.Attr(attr)
			if attrMatches(attr, value, name) {
				match = sel
				return false
			}
			return true
		})
		if match != nil {
			return match
		}
	}
	return nil
}

// attrMatches compares an id value, or any class token, against a
// content-region name, case-insensitively, accepting a main- prefix.
func attrMatches(attr, value, name string) bool {
	if attr == "class" {
		for _, token := range strings.Fields(value) {
			if tokenMatches(token, name) {
				return true
			}
		}
		return false
	}
	return tokenMatches(value, name)
}

func tokenMatches(token, name string) bool {
	token = strings.ToLower(strings.TrimSpace(token))
	return token == name || token == "main-"+name
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}

func (e *Extractor) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

func (e *Extractor) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
