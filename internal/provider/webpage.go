package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/lepinkainen/scribe/internal/citation"
)

// Package-level variables for the generic web page client.
// These can be overridden in tests for dependency injection.
var (
	webpageHTTPClient    *http.Client
	webpageClientOnce    sync.Once
	webpageHTTPClientNew = func() *http.Client {
		return &http.Client{Timeout: 15 * time.Second}
	}
)

func getWebpageHTTPClient() *http.Client {
	webpageClientOnce.Do(func() {
		webpageHTTPClient = webpageHTTPClientNew()
	})
	return webpageHTTPClient
}

// Meta-tag names checked in order for each field. The first match wins.
var (
	webpageDateMetaNames = []string{
		"article:published_time",
		"og:article:published_time",
		"datePublished",
		"date",
		"pubdate",
		"publishdate",
	}
	webpageAuthorMetaNames = []string{
		"author",
		"article:author",
		"og:article:author",
		"parsely-author",
	}
)

// Webpage resolves arbitrary URLs by scraping Open Graph and standard meta
// tags from the fetched document. The resulting record is always a website.
type Webpage struct{}

func (Webpage) Name() string { return "webpage" }

// Resolve fetches the page and extracts title, author, publication date and
// site name from its markup. A page without a usable title still yields a
// minimal "Untitled" record; only fetch/parse failures surface as misses.
func (w Webpage) Resolve(ctx context.Context, pageURL string) (*citation.Record, error) {
	doc, err := fetchWebpage(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	meta := extractPageMeta(doc)

	rec := &citation.Record{
		Type:     citation.TypeWebsite,
		Title:    meta.ogTitle,
		SiteName: meta.siteName,
		URL:      pageURL,
	}
	if rec.Title == "" {
		rec.Title = meta.docTitle
	}
	if author := firstMeta(meta.tags, webpageAuthorMetaNames); author != "" {
		rec.Authors = []string{author}
	}
	if date := firstMeta(meta.tags, webpageDateMetaNames); date != "" {
		applyCalendarDate(rec, date)
	}

	rec.Normalize()
	return rec, nil
}

func fetchWebpage(ctx context.Context, pageURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "scribe/1.0 (citation generator)")

	slog.Debug("Fetching web page for metadata", "url", pageURL)

	resp, err := getWebpageHTTPClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("page fetch failed for %s: %w", pageURL, ErrNotFound)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page fetch returned status %d for %s: %w", resp.StatusCode, pageURL, ErrNotFound)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page %s: %w", pageURL, ErrNotFound)
	}
	return doc, nil
}

type pageMeta struct {
	docTitle string
	ogTitle  string
	siteName string
	tags     map[string]string
}

// extractPageMeta walks the document once, collecting the title element and
// every meta tag keyed by its name or property attribute. Script and style
// subtrees carry no metadata and are skipped.
func extractPageMeta(doc *html.Node) pageMeta {
	meta := pageMeta{tags: map[string]string{}}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			case "title":
				if n.FirstChild != nil && meta.docTitle == "" {
					meta.docTitle = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				key := attrValue(n, "property")
				if key == "" {
					key = attrValue(n, "name")
				}
				content := strings.TrimSpace(attrValue(n, "content"))
				if key != "" && content != "" {
					if _, seen := meta.tags[key]; !seen {
						meta.tags[key] = content
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	meta.ogTitle = meta.tags["og:title"]
	meta.siteName = meta.tags["og:site_name"]
	return meta
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func firstMeta(tags map[string]string, names []string) string {
	for _, name := range names {
		if v, ok := tags[name]; ok {
			return v
		}
	}
	return ""
}

// applyCalendarDate parses a meta-tag date value. The record's date fields
// are populated only when parsing succeeds; unparseable values leave the
// date unknown rather than guessing.
func applyCalendarDate(rec *citation.Record, s string) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
		"January 2, 2006",
		"Jan 2, 2006",
		"2 January 2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			rec.Year = strconv.Itoa(t.Year())
			rec.Month = t.Month().String()
			rec.Day = strconv.Itoa(t.Day())
			return
		}
	}
}
