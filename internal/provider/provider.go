// Package provider contains the adapters that translate external metadata
// sources into the normalized citation record. Every adapter degrades to
// ErrNotFound on a miss or provider fault so the orchestrator's fallback
// chain can continue; no adapter failure aborts a request.
package provider

import (
	"context"
	"errors"

	"github.com/lepinkainen/scribe/internal/citation"
)

// ErrNotFound signals that a provider had no data for the identifier. It
// covers both ordinary misses and provider faults (network/parse errors are
// wrapped separately but handled identically upstream).
var ErrNotFound = errors.New("source not found")

// Resolver fetches metadata for one identifier from one external source.
type Resolver interface {
	// Name returns the short provider name used in logs and cache keys.
	Name() string

	// Resolve maps the identifier to a normalized record, or ErrNotFound.
	Resolve(ctx context.Context, id string) (*citation.Record, error)
}
