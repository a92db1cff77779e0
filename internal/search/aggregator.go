// Package search fans a free-text query out to the book catalogs and merges
// the results into a single ranked candidate list.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/lepinkainen/scribe/internal/citation"
	"github.com/lepinkainen/scribe/internal/provider"
)

// MaxResults caps the merged candidate list.
const MaxResults = 10

// perSourceLimit is how many raw results each catalog is asked for. Asking
// for more than the final cap keeps the merged list full after deduplication.
const perSourceLimit = 10

// Candidate is one selectable search result.
type Candidate struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Year      string   `json:"year,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
	URL       string   `json:"url"`
	Source    string   `json:"source"`
}

// Record converts the candidate into a normalized book record.
func (c *Candidate) Record() *citation.Record {
	rec := &citation.Record{
		Type:      citation.TypeBook,
		Title:     c.Title,
		Authors:   append([]string(nil), c.Authors...),
		Publisher: c.Publisher,
		Year:      c.Year,
		URL:       c.URL,
		ID:        c.ID,
	}
	switch c.Source {
	case "googlebooks":
		rec.SiteName = "Google Books"
	case "openlibrary":
		rec.SiteName = "Open Library"
	}
	rec.Normalize()
	return rec
}

// Label returns the human-readable one-line form used in pickers.
func (c *Candidate) Label() string {
	parts := []string{c.Title}
	if len(c.Authors) > 0 {
		parts = append(parts, strings.Join(c.Authors, ", "))
	}
	if c.Year != "" {
		parts = append(parts, c.Year)
	}
	return strings.Join(parts, " - ")
}

// Aggregator queries both book catalogs concurrently. The search functions
// are fields so tests can substitute canned results.
type Aggregator struct {
	googleSearch  func(ctx context.Context, query string, max int) ([]provider.GoogleBooksBook, error)
	openLibSearch func(ctx context.Context, query string, max int) ([]provider.OpenLibraryDoc, error)
}

// New returns an aggregator backed by the live catalog clients.
func New() *Aggregator {
	return &Aggregator{
		googleSearch:  provider.GoogleBooks{}.SearchVolumes,
		openLibSearch: provider.OpenLibrary{}.SearchDocs,
	}
}

// Search runs the query against both catalogs, deduplicates the merged list
// and returns the top candidates sorted by metadata completeness. A single
// failing catalog degrades to the other's results; only a dual failure is an
// error.
func (a *Aggregator) Search(ctx context.Context, query string) ([]Candidate, error) {
	var (
		wg         sync.WaitGroup
		googleRes  []provider.GoogleBooksBook
		openLibRes []provider.OpenLibraryDoc
		googleErr  error
		openLibErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		googleRes, googleErr = a.googleSearch(ctx, query, perSourceLimit)
		if googleErr != nil {
			slog.Debug("Google Books search failed", "query", query, "error", googleErr)
		}
	}()
	go func() {
		defer wg.Done()
		openLibRes, openLibErr = a.openLibSearch(ctx, query, perSourceLimit)
		if openLibErr != nil {
			slog.Debug("OpenLibrary search failed", "query", query, "error", openLibErr)
		}
	}()
	wg.Wait()

	if googleErr != nil && openLibErr != nil {
		return nil, fmt.Errorf("all search providers failed: %w", googleErr)
	}

	candidates := make([]Candidate, 0, len(googleRes)+len(openLibRes))
	for _, b := range googleRes {
		candidates = append(candidates, googleCandidate(b))
	}
	for _, d := range openLibRes {
		candidates = append(candidates, openLibraryCandidate(d))
	}

	candidates = dedupe(candidates)

	sort.SliceStable(candidates, func(i, j int) bool {
		return completeness(candidates[i]) > completeness(candidates[j])
	})

	if len(candidates) > MaxResults {
		candidates = candidates[:MaxResults]
	}
	return candidates, nil
}

func googleCandidate(b provider.GoogleBooksBook) Candidate {
	return Candidate{
		ID:        "google_" + b.ID,
		Title:     b.VolumeInfo.Title,
		Authors:   b.VolumeInfo.Authors,
		Year:      leadingYear(b.VolumeInfo.PublishedDate),
		Publisher: b.VolumeInfo.Publisher,
		URL:       provider.GoogleVolumeURL(&b),
		Source:    "googlebooks",
	}
}

func openLibraryCandidate(d provider.OpenLibraryDoc) Candidate {
	c := Candidate{
		ID:      "openlibrary_" + strings.TrimPrefix(d.Key, "/works/"),
		Title:   d.Title,
		Authors: d.AuthorName,
		URL:     provider.OpenLibraryWorkURL(d.Key),
		Source:  "openlibrary",
	}
	if d.FirstPublishYear > 0 {
		c.Year = strconv.Itoa(d.FirstPublishYear)
	}
	if len(d.Publisher) > 0 {
		c.Publisher = d.Publisher[0]
	}
	return c
}

// dedupe removes candidates whose case-insensitive title and first author
// match an earlier entry. Candidates without authors are never merged; a
// title collision between unattributed entries is too weak a signal.
func dedupe(candidates []Candidate) []Candidate {
	seen := make(map[string]bool, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		if len(c.Authors) == 0 {
			out = append(out, c)
			continue
		}
		key := strings.ToLower(c.Title) + "|" + strings.ToLower(c.Authors[0])
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// completeness scores a candidate by how many of the citation-relevant
// fields it carries. Ties keep their source order.
func completeness(c Candidate) int {
	score := 0
	if c.Year != "" {
		score++
	}
	if c.Publisher != "" {
		score++
	}
	if len(c.Authors) > 0 {
		score++
	}
	return score
}

// leadingYear pulls a 4-digit year prefix from the loose catalog date forms.
func leadingYear(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return ""
	}
	if _, err := strconv.Atoi(s[:4]); err != nil {
		return ""
	}
	return s[:4]
}
