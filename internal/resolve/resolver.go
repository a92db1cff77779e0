// Package resolve orchestrates a single citation request: classify the
// input, run exactly one provider adapter, and fall back to AI generation
// when no structured source had an answer.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lepinkainen/scribe/internal/ai"
	"github.com/lepinkainen/scribe/internal/citation"
	"github.com/lepinkainen/scribe/internal/provider"
	"github.com/lepinkainen/scribe/internal/search"
)

// AccessDateLayout is the long date form stamped on every resolved record.
const AccessDateLayout = "January 2, 2006"

// ErrNeedsSearch signals that the input is free text and must go through the
// search flow instead of direct resolution.
var ErrNeedsSearch = errors.New("input is free text, use search")

// ErrEmptyInput is returned for blank input.
var ErrEmptyInput = errors.New("input is empty")

// Result is the outcome of one resolution. Record is nil when the AI
// fallback produced the citations, since the fallback returns formatted
// strings rather than structured metadata.
type Result struct {
	Record    *citation.Record   `json:"record,omitempty"`
	Citations citation.Citations `json:"citations"`
	Source    string             `json:"source"`
}

// Resolver routes each input to its provider adapter. Adapter and clock
// fields are settable so tests can substitute fakes.
type Resolver struct {
	crossref  provider.Resolver
	isbn      provider.Resolver
	youtube   provider.Resolver
	wikipedia provider.Resolver
	webpage   provider.Resolver
	fallback  ai.Fallback
	nowFunc   func() time.Time
}

// New returns a resolver backed by the live providers and fallback client.
func New() *Resolver {
	return &Resolver{
		crossref:  provider.CrossRef{},
		isbn:      provider.NewISBN(),
		youtube:   provider.YouTube{},
		wikipedia: provider.Wikipedia{},
		webpage:   provider.Webpage{},
		fallback:  ai.NewOpenAI(),
		nowFunc:   time.Now,
	}
}

// Resolve turns one input into citations. Free-text input returns
// ErrNeedsSearch; everything else runs exactly one adapter, falling back to
// AI generation when the adapter comes up empty.
func (r *Resolver) Resolve(ctx context.Context, input string) (*Result, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	var (
		adapter provider.Resolver
		id      string
	)
	switch citation.Classify(input) {
	case citation.InputDOI:
		adapter, id = r.crossref, citation.ExtractDOI(input)
	case citation.InputISBN:
		adapter, id = r.isbn, citation.ExtractISBN(input)
	case citation.InputYouTube:
		adapter, id = r.youtube, input
	case citation.InputWikipedia:
		adapter, id = r.wikipedia, input
	case citation.InputURL:
		adapter, id = r.webpage, input
	default:
		return nil, ErrNeedsSearch
	}

	rec, err := adapter.Resolve(ctx, id)
	if err != nil {
		slog.Debug("Provider returned no record, trying AI fallback",
			"provider", adapter.Name(), "input", input, "error", err)
		return r.generateFallback(ctx, input, r.nowFunc().Format(AccessDateLayout))
	}

	// Stamp after the adapter returns so a slow fetch still records the
	// moment of resolution.
	rec.AccessDate = r.nowFunc().Format(AccessDateLayout)
	return &Result{
		Record:    rec,
		Citations: citation.All(rec),
		Source:    adapter.Name(),
	}, nil
}

// ResolveCandidate converts a selected search result into citations. No
// further provider call is needed; the candidate already carries the
// metadata.
func (r *Resolver) ResolveCandidate(c *search.Candidate) *Result {
	rec := c.Record()
	rec.AccessDate = r.nowFunc().Format(AccessDateLayout)
	return &Result{
		Record:    rec,
		Citations: citation.All(rec),
		Source:    c.Source,
	}
}

func (r *Resolver) generateFallback(ctx context.Context, input, accessDate string) (*Result, error) {
	cites, err := r.fallback.Generate(ctx, input, accessDate)
	if err != nil {
		return nil, fmt.Errorf("failed to generate citation: %w", err)
	}
	return &Result{
		Citations: *cites,
		Source:    "ai",
	}, nil
}
