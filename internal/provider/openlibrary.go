package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/lepinkainen/scribe/internal/cache"
	"github.com/lepinkainen/scribe/internal/citation"
	"github.com/lepinkainen/scribe/internal/errors"
	"github.com/lepinkainen/scribe/internal/ratelimit"
)

// Package-level variables for the OpenLibrary API client.
// These can be overridden in tests for dependency injection.
var (
	openLibraryHTTPClient    *http.Client
	openLibraryClientOnce    sync.Once
	openLibraryHTTPClientNew = func() *http.Client {
		return &http.Client{Timeout: 10 * time.Second}
	}
	openLibraryBaseURL = "https://openlibrary.org"
	openLibraryLimiter *ratelimit.Limiter
	olRateLimiterOnce  sync.Once
)

func getOpenLibraryHTTPClient() *http.Client {
	openLibraryClientOnce.Do(func() {
		openLibraryHTTPClient = openLibraryHTTPClientNew()
	})
	return openLibraryHTTPClient
}

// getOLRateLimiter returns a singleton rate limiter for OpenLibrary (1 req/sec).
func getOLRateLimiter() *ratelimit.Limiter {
	olRateLimiterOnce.Do(func() {
		openLibraryLimiter = ratelimit.New("OpenLibrary", 1)
	})
	return openLibraryLimiter
}

// OpenLibraryBook models the jscmd=data book payload.
type OpenLibraryBook struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Publishers []struct {
		Name string `json:"name"`
	} `json:"publishers"`
	PublishDate string `json:"publish_date"`
}

// OpenLibraryDoc is a single search.json result document.
type OpenLibraryDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	Publisher        []string `json:"publisher"`
	FirstPublishYear int      `json:"first_publish_year"`
}

// OpenLibrary resolves ISBNs against the OpenLibrary books API and serves
// free-text searches for the aggregator.
type OpenLibrary struct{}

func (OpenLibrary) Name() string { return "openlibrary" }

// Resolve fetches book metadata for a normalized (hyphen-free) ISBN.
func (o OpenLibrary) Resolve(ctx context.Context, isbn string) (*citation.Record, error) {
	book, _, err := cache.GetOrFetch("openlibrary_cache", isbn, func() (*OpenLibraryBook, error) {
		return fetchOpenLibraryBook(ctx, isbn)
	})
	if err != nil {
		return nil, err
	}

	rec := &citation.Record{
		Type:     citation.TypeBook,
		Title:    book.Title,
		SiteName: "Open Library",
		URL:      book.URL,
	}
	if rec.URL == "" {
		rec.URL = fmt.Sprintf("%s/isbn/%s", openLibraryBaseURL, isbn)
	}
	for _, a := range book.Authors {
		rec.Authors = append(rec.Authors, a.Name)
	}
	if len(book.Publishers) > 0 {
		rec.Publisher = book.Publishers[0].Name
	}
	applyFlexibleDate(rec, book.PublishDate)
	rec.Normalize()
	return rec, nil
}

// SearchDocs runs a free-text search and returns up to max raw documents.
func (o OpenLibrary) SearchDocs(ctx context.Context, query string, max int) ([]OpenLibraryDoc, error) {
	if err := getOLRateLimiter().Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	v := url.Values{}
	v.Set("q", query)
	v.Set("limit", strconv.Itoa(max))
	endpoint := fmt.Sprintf("%s/search.json?%s", openLibraryBaseURL, v.Encode())

	slog.Debug("Searching OpenLibrary", "query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := getOpenLibraryHTTPClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("openLibrary search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.NewRateLimitError("OpenLibrary API request limit reached")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openLibrary search returned status: %s", resp.Status)
	}

	var result struct {
		Docs []OpenLibraryDoc `json:"docs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode OpenLibrary search response: %w", err)
	}
	return result.Docs, nil
}

// OpenLibraryWorkURL constructs the catalog URL from a work/edition key.
func OpenLibraryWorkURL(key string) string {
	return openLibraryBaseURL + key
}

func fetchOpenLibraryBook(ctx context.Context, isbn string) (*OpenLibraryBook, error) {
	if err := getOLRateLimiter().Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	// jscmd=data returns the richer, stable projection of the book.
	endpoint := fmt.Sprintf("%s/api/books?bibkeys=ISBN:%s&format=json&jscmd=data", openLibraryBaseURL, isbn)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	slog.Debug("Fetching book data from OpenLibrary", "isbn", isbn)

	resp, err := getOpenLibraryHTTPClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("openLibrary API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.NewRateLimitError("OpenLibrary API request limit reached")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openLibrary API returned status: %s", resp.Status)
	}

	var result map[string]OpenLibraryBook
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode OpenLibrary response: %w", err)
	}

	book, ok := result["ISBN:"+isbn]
	if !ok {
		return nil, fmt.Errorf("no data found in OpenLibrary for ISBN %s: %w", isbn, ErrNotFound)
	}
	return &book, nil
}
