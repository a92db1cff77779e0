package provider

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/lepinkainen/scribe/internal/citation"
)

// ISBN queries the commercial catalog (Google Books) and the library catalog
// (OpenLibrary) concurrently and merges the two results. A failed branch
// participates as "no data"; only when both branches miss does the lookup
// fail.
type ISBN struct {
	google  GoogleBooks
	openlib OpenLibrary
}

// NewISBN returns the dual-source ISBN resolver.
func NewISBN() *ISBN { return &ISBN{} }

func (*ISBN) Name() string { return "isbn" }

// Resolve fans out to both catalogs, joins unconditionally on both branches
// and merges whatever came back.
func (i *ISBN) Resolve(ctx context.Context, isbn string) (*citation.Record, error) {
	var (
		wg             sync.WaitGroup
		googleRec      *citation.Record
		openLibraryRec *citation.Record
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		rec, err := i.google.Resolve(ctx, isbn)
		if err != nil {
			slog.Debug("Google Books branch returned no data", "isbn", isbn, "error", err)
			return
		}
		googleRec = rec
	}()
	go func() {
		defer wg.Done()
		rec, err := i.openlib.Resolve(ctx, isbn)
		if err != nil {
			slog.Debug("OpenLibrary branch returned no data", "isbn", isbn, "error", err)
			return
		}
		openLibraryRec = rec
	}()
	wg.Wait()

	switch {
	case googleRec == nil && openLibraryRec == nil:
		return nil, ErrNotFound
	case googleRec == nil:
		return openLibraryRec, nil
	case openLibraryRec == nil:
		return googleRec, nil
	}
	return mergeBookRecords(googleRec, openLibraryRec), nil
}

// mergeBookRecords combines the two catalog records. The commercial catalog
// record is the base; the earlier publication year wins (treated as the
// original-publication year) and the first non-empty publisher is kept.
func mergeBookRecords(base, other *citation.Record) *citation.Record {
	merged := *base

	if merged.Title == "" || merged.Title == citation.UntitledTitle {
		merged.Title = other.Title
	}
	if len(merged.Authors) == 0 {
		merged.Authors = other.Authors
	}
	if merged.Publisher == "" {
		merged.Publisher = other.Publisher
	}
	if earlierYear(other.Year, merged.Year) {
		merged.Year = other.Year
		merged.Month = other.Month
		merged.Day = other.Day
	}
	if merged.URL == "" {
		merged.URL = other.URL
	}

	merged.Normalize()
	return &merged
}

// earlierYear reports whether a is a known year strictly before b, or b is
// unknown while a is known.
func earlierYear(a, b string) bool {
	ay, errA := strconv.Atoi(a)
	by, errB := strconv.Atoi(b)
	if errA != nil {
		return false
	}
	if errB != nil {
		return true
	}
	return ay < by
}
