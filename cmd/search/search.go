// Package search implements the search command, which lists catalog
// matches for a free-text query without generating citations.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lepinkainen/scribe/internal/search"
)

// Options carries the parsed command flags.
type Options struct {
	Query string
	JSON  bool
	Out   io.Writer
}

var searchFunc = func(ctx context.Context, query string) ([]search.Candidate, error) {
	return search.New().Search(ctx, query)
}

// Run queries the book catalogs and prints the merged candidate list.
func Run(opts Options) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	candidates, err := searchFunc(context.Background(), opts.Query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if opts.JSON {
		enc := json.NewEncoder(opts.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(candidates)
	}

	if len(candidates) == 0 {
		_, err := fmt.Fprintf(opts.Out, "No results found for %q\n", opts.Query)
		return err
	}

	for i, c := range candidates {
		fmt.Fprintf(opts.Out, "%2d. %s [%s]\n", i+1, c.Label(), c.Source)
		if c.URL != "" {
			fmt.Fprintf(opts.Out, "    %s\n", c.URL)
		}
	}
	return nil
}
