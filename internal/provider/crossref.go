package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lepinkainen/scribe/internal/cache"
	"github.com/lepinkainen/scribe/internal/citation"
	"github.com/lepinkainen/scribe/internal/errors"
	"github.com/lepinkainen/scribe/internal/ratelimit"
)

// Package-level variables for the CrossRef API client.
// These can be overridden in tests for dependency injection.
var (
	crossrefHTTPClient    *http.Client
	crossrefClientOnce    sync.Once
	crossrefHTTPClientNew = func() *http.Client {
		return &http.Client{Timeout: 10 * time.Second}
	}
	crossrefBaseURL     = "https://api.crossref.org"
	crossrefLimiter     *ratelimit.Limiter
	crossrefLimiterOnce sync.Once
)

func getCrossrefHTTPClient() *http.Client {
	crossrefClientOnce.Do(func() {
		crossrefHTTPClient = crossrefHTTPClientNew()
	})
	return crossrefHTTPClient
}

// getCrossrefLimiter returns a singleton rate limiter for CrossRef (2 req/sec,
// the polite-pool guideline).
func getCrossrefLimiter() *ratelimit.Limiter {
	crossrefLimiterOnce.Do(func() {
		crossrefLimiter = ratelimit.New("CrossRef", 2)
	})
	return crossrefLimiter
}

// crossrefResponse models the subset of the CrossRef works payload we
// consume. Unknown fields are ignored by the decoder.
type crossrefResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefWork struct {
	Title           []string       `json:"title"`
	Author          []crossrefName `json:"author"`
	ContainerTitle  []string       `json:"container-title"`
	Publisher       string         `json:"publisher"`
	Published       crossrefDate   `json:"published"`
	PublishedOnline crossrefDate   `json:"published-online"`
	PublishedPrint  crossrefDate   `json:"published-print"`
}

type crossrefName struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

// CrossRef resolves DOIs against the CrossRef works registry. The resulting
// record is always an article.
type CrossRef struct{}

func (CrossRef) Name() string { return "crossref" }

// Resolve fetches work metadata for a bare DOI.
func (c CrossRef) Resolve(ctx context.Context, doi string) (*citation.Record, error) {
	work, _, err := cache.GetOrFetch("crossref_cache", doi, func() (*crossrefWork, error) {
		return fetchCrossrefWork(ctx, doi)
	})
	if err != nil {
		return nil, err
	}

	rec := &citation.Record{
		Type: citation.TypeArticle,
		URL:  "https://doi.org/" + doi,
	}
	if len(work.Title) > 0 {
		rec.Title = work.Title[0]
	}
	for _, a := range work.Author {
		rec.Authors = append(rec.Authors, combineName(a))
	}
	if len(work.ContainerTitle) > 0 {
		rec.SiteName = work.ContainerTitle[0]
	} else {
		rec.SiteName = work.Publisher
	}
	rec.Publisher = work.Publisher

	// Prefer the generic published date, then online, then print.
	for _, d := range []crossrefDate{work.Published, work.PublishedOnline, work.PublishedPrint} {
		if len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 {
			applyDateParts(rec, d.DateParts[0])
			break
		}
	}

	rec.Normalize()
	return rec, nil
}

func fetchCrossrefWork(ctx context.Context, doi string) (*crossrefWork, error) {
	if err := getCrossrefLimiter().Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	endpoint := fmt.Sprintf("%s/works/%s", crossrefBaseURL, url.PathEscape(doi))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("Fetching work from CrossRef", "doi", doi)

	resp, err := getCrossrefHTTPClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("crossRef API request failed for DOI %s: %w", doi, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("no data found in CrossRef for DOI %s: %w", doi, ErrNotFound)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.NewRateLimitError("CrossRef API request limit reached")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crossRef API returned non-200 status code: %d for DOI: %s", resp.StatusCode, doi)
	}

	var result crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode CrossRef response for DOI %s: %w", doi, err)
	}
	return &result.Message, nil
}

// combineName joins a CrossRef author into the "Family, Given" display form.
func combineName(n crossrefName) string {
	family := strings.TrimSpace(n.Family)
	given := strings.TrimSpace(n.Given)
	switch {
	case family == "":
		return given
	case given == "":
		return family
	default:
		return family + ", " + given
	}
}

// applyDateParts fills year/month/day from the 1-3 positional components of a
// CrossRef date-parts entry, converting the month numeral to its full name.
func applyDateParts(rec *citation.Record, parts []int) {
	if len(parts) > 0 && parts[0] > 0 {
		rec.Year = strconv.Itoa(parts[0])
	}
	if len(parts) > 1 {
		rec.Month = citation.MonthName(parts[1])
	}
	if len(parts) > 2 && parts[2] > 0 {
		rec.Day = strconv.Itoa(parts[2])
	}
}
