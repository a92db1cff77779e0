package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/lepinkainen/scribe/internal/citation"
)

// Wikipedia derives an encyclopedia record from the article URL alone; no
// network call is made. Encyclopedia entries are cited by title, so the
// author list stays empty.
type Wikipedia struct{}

func (Wikipedia) Name() string { return "wikipedia" }

// Resolve extracts the article slug from the URL path, replaces underscores
// with spaces and percent-decodes it.
func (w Wikipedia) Resolve(_ context.Context, articleURL string) (*citation.Record, error) {
	u, err := url.Parse(articleURL)
	if err != nil {
		return nil, fmt.Errorf("invalid wikipedia url %q: %w", articleURL, ErrNotFound)
	}

	slug := u.Path
	if i := strings.Index(slug, "/wiki/"); i >= 0 {
		slug = slug[i+len("/wiki/"):]
	} else {
		slug = strings.TrimPrefix(slug[strings.LastIndex(slug, "/")+1:], "/")
	}
	if slug == "" {
		return nil, fmt.Errorf("no article slug in %q: %w", articleURL, ErrNotFound)
	}

	title := strings.ReplaceAll(slug, "_", " ")
	if decoded, err := url.PathUnescape(title); err == nil {
		title = decoded
	}

	rec := &citation.Record{
		Type:      citation.TypeEncyclopedia,
		Title:     title,
		SiteName:  "Wikipedia",
		Publisher: "Wikimedia Foundation",
		URL:       articleURL,
	}
	rec.Normalize()
	return rec, nil
}
