// Package cite implements the cite command: one input in, four citation
// styles out.
package cite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lepinkainen/scribe/internal/citation"
	"github.com/lepinkainen/scribe/internal/resolve"
	"github.com/lepinkainen/scribe/internal/search"
	"github.com/lepinkainen/scribe/internal/tui"
)

// Options carries the parsed command flags.
type Options struct {
	Input         string
	Style         string
	JSON          bool
	NoInteractive bool
	Out           io.Writer
}

// citationResolver is the slice of the resolver the command needs; tests
// substitute a fake.
type citationResolver interface {
	Resolve(ctx context.Context, input string) (*resolve.Result, error)
	ResolveCandidate(c *search.Candidate) *resolve.Result
}

// Injection points for tests.
var (
	newResolver = func() citationResolver { return resolve.New() }
	searchFunc  = func(ctx context.Context, query string) ([]search.Candidate, error) {
		return search.New().Search(ctx, query)
	}
	selectFunc = tui.Select
)

// Run resolves the input and writes the citations. Free-text input routes
// through catalog search, with either an interactive picker or automatic
// best-match selection.
func Run(opts Options) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if err := validateStyle(opts.Style); err != nil {
		return err
	}

	ctx := context.Background()
	resolver := newResolver()

	result, err := resolver.Resolve(ctx, opts.Input)
	if errors.Is(err, resolve.ErrNeedsSearch) {
		result, err = citeFromSearch(ctx, resolver, opts)
	}
	if err != nil {
		return err
	}

	return writeResult(opts, result)
}

func citeFromSearch(ctx context.Context, resolver citationResolver, opts Options) (*resolve.Result, error) {
	candidates, err := searchFunc(ctx, opts.Input)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no results found for %q", opts.Input)
	}

	if opts.NoInteractive {
		// The list is sorted by completeness, so the first entry is the
		// best match.
		return resolver.ResolveCandidate(&candidates[0]), nil
	}

	selection, err := selectFunc(opts.Input, candidates)
	if err != nil {
		return nil, err
	}
	if selection.Action != tui.ActionSelected {
		return nil, fmt.Errorf("no result selected")
	}
	return resolver.ResolveCandidate(selection.Selection), nil
}

func writeResult(opts Options, result *resolve.Result) error {
	if opts.JSON {
		enc := json.NewEncoder(opts.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if opts.Style != "" {
		_, err := fmt.Fprintln(opts.Out, styleValue(result.Citations, opts.Style))
		return err
	}

	_, err := fmt.Fprintf(opts.Out, "APA 7:   %s\nMLA 9:   %s\nChicago: %s\nHarvard: %s\n",
		result.Citations.APA7,
		result.Citations.MLA9,
		result.Citations.Chicago,
		result.Citations.Harvard,
	)
	return err
}

func validateStyle(style string) error {
	switch citation.Style(style) {
	case "", citation.StyleAPA7, citation.StyleMLA9, citation.StyleChicago, citation.StyleHarvard:
		return nil
	}
	return fmt.Errorf("unknown style %q; valid styles are: apa7, mla9, chicago, harvard", style)
}

func styleValue(c citation.Citations, style string) string {
	switch citation.Style(style) {
	case citation.StyleAPA7:
		return c.APA7
	case citation.StyleMLA9:
		return c.MLA9
	case citation.StyleChicago:
		return c.Chicago
	case citation.StyleHarvard:
		return c.Harvard
	}
	return ""
}
