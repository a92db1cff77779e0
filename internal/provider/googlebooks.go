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
	"github.com/lepinkainen/scribe/internal/config"
	"github.com/lepinkainen/scribe/internal/errors"
)

// Package-level variables for the Google Books API client.
// These can be overridden in tests for dependency injection.
var (
	googleBooksHTTPClient    *http.Client
	googleBooksClientOnce    sync.Once
	googleBooksHTTPClientNew = func() *http.Client {
		return &http.Client{Timeout: 10 * time.Second}
	}
	googleBooksBaseURL = "https://www.googleapis.com/books/v1"
)

func getGoogleBooksHTTPClient() *http.Client {
	googleBooksClientOnce.Do(func() {
		googleBooksHTTPClient = googleBooksHTTPClientNew()
	})
	return googleBooksHTTPClient
}

// GoogleBooksResponse models the volumes list payload.
type GoogleBooksResponse struct {
	TotalItems int               `json:"totalItems"`
	Items      []GoogleBooksBook `json:"items"`
}

// GoogleBooksBook is a single volume entry.
type GoogleBooksBook struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title         string   `json:"title"`
		Authors       []string `json:"authors"`
		Publisher     string   `json:"publisher"`
		PublishedDate string   `json:"publishedDate"`
		InfoLink      string   `json:"infoLink"`
	} `json:"volumeInfo"`
}

// GoogleBooks resolves ISBNs against the Google Books volumes API and serves
// free-text volume searches for the aggregator.
type GoogleBooks struct{}

func (GoogleBooks) Name() string { return "googlebooks" }

// Resolve fetches book metadata for a normalized (hyphen-free) ISBN.
func (g GoogleBooks) Resolve(ctx context.Context, isbn string) (*citation.Record, error) {
	book, _, err := cache.GetOrFetch("googlebooks_cache", isbn, func() (*GoogleBooksBook, error) {
		return fetchGoogleBooksVolume(ctx, "isbn:"+isbn, 1)
	})
	if err != nil {
		return nil, err
	}
	return googleBookRecord(book), nil
}

// SearchVolumes runs a free-text volume search and returns up to max raw
// volume entries.
func (g GoogleBooks) SearchVolumes(ctx context.Context, query string, max int) ([]GoogleBooksBook, error) {
	result, err := fetchGoogleBooksVolumes(ctx, query, max)
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

func fetchGoogleBooksVolume(ctx context.Context, query string, max int) (*GoogleBooksBook, error) {
	result, err := fetchGoogleBooksVolumes(ctx, query, max)
	if err != nil {
		return nil, err
	}
	if result.TotalItems == 0 || len(result.Items) == 0 {
		return nil, fmt.Errorf("no data found in Google Books for %q: %w", query, ErrNotFound)
	}
	return &result.Items[0], nil
}

func fetchGoogleBooksVolumes(ctx context.Context, query string, max int) (*GoogleBooksResponse, error) {
	v := url.Values{}
	v.Set("q", query)
	if max > 0 {
		v.Set("maxResults", strconv.Itoa(max))
	}
	if config.GoogleBooksAPIKey != "" {
		v.Set("key", config.GoogleBooksAPIKey)
	}
	endpoint := fmt.Sprintf("%s/volumes?%s", googleBooksBaseURL, v.Encode())

	slog.Debug("Fetching volumes from Google Books", "query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := getGoogleBooksHTTPClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("google Books API request failed for %q: %w", query, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.NewRateLimitError("Google Books API request limit reached")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google Books API returned non-200 status code: %d for query: %s", resp.StatusCode, query)
	}

	var result GoogleBooksResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode Google Books response for %q: %w", query, err)
	}
	return &result, nil
}

// googleBookRecord maps a volume entry into a normalized book record.
func googleBookRecord(book *GoogleBooksBook) *citation.Record {
	rec := &citation.Record{
		Type:      citation.TypeBook,
		Title:     book.VolumeInfo.Title,
		Authors:   book.VolumeInfo.Authors,
		Publisher: book.VolumeInfo.Publisher,
		SiteName:  "Google Books",
		URL:       GoogleVolumeURL(book),
		ID:        "google_" + book.ID,
	}
	applyFlexibleDate(rec, book.VolumeInfo.PublishedDate)
	rec.Normalize()
	return rec
}

// GoogleVolumeURL derives the canonical volume URL: the infoLink when the API
// supplied one, otherwise a constructed catalog URL from the volume ID.
func GoogleVolumeURL(book *GoogleBooksBook) string {
	if link := strings.TrimSpace(book.VolumeInfo.InfoLink); link != "" {
		return link
	}
	return "https://books.google.com/books?id=" + book.ID
}

// applyFlexibleDate parses the loose date formats book catalogs emit
// ("2006", "2006-01", "2006-01-02") into the record's date fields.
func applyFlexibleDate(rec *citation.Record, s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	for _, layout := range []string{"2006-01-02", "2006-01", "2006", "January 2, 2006", "January 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			rec.Year = strconv.Itoa(t.Year())
			if layout != "2006" {
				rec.Month = t.Month().String()
			}
			if layout == "2006-01-02" || layout == "January 2, 2006" {
				rec.Day = strconv.Itoa(t.Day())
			}
			return
		}
	}
	// Fall back to a leading year if nothing parsed cleanly.
	if len(s) >= 4 {
		if _, err := strconv.Atoi(s[:4]); err == nil {
			rec.Year = s[:4]
		}
	}
}
