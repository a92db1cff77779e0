package provider

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/scribe/internal/citation"
)

func TestISBNResolveMergesBothSources(t *testing.T) {
	setupTestCacheDB(t)

	withGoogleBooksServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"totalItems": 1,
			"items": [{
				"id": "g1",
				"volumeInfo": {
					"title": "Dune",
					"authors": ["Frank Herbert"],
					"publishedDate": "1990-09-01",
					"infoLink": "https://books.google.com/books?id=g1"
				}
			}]
		}`))
	}))

	mux := http.NewServeMux()
	mux.HandleFunc("/api/books", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"ISBN:9780441013593": {
				"title": "Dune",
				"url": "https://openlibrary.org/books/OL1532634M",
				"publishers": [{"name": "Chilton Books"}],
				"publish_date": "1965"
			}
		}`))
	})
	withOpenLibraryServer(t, mux)

	rec, err := NewISBN().Resolve(context.Background(), "9780441013593")
	require.NoError(t, err)

	require.Equal(t, citation.TypeBook, rec.Type)
	require.Equal(t, "Dune", rec.Title)
	require.Equal(t, []string{"Frank Herbert"}, rec.Authors)
	// The earlier publication year is treated as the original edition.
	require.Equal(t, "1965", rec.Year)
	require.Empty(t, rec.Month)
	// Publisher only came from the library catalog.
	require.Equal(t, "Chilton Books", rec.Publisher)
	// The commercial catalog record is the base, so its URL wins.
	require.Equal(t, "https://books.google.com/books?id=g1", rec.URL)
}

func TestISBNResolveGoogleBranchFails(t *testing.T) {
	setupTestCacheDB(t)

	withGoogleBooksServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	mux := http.NewServeMux()
	mux.HandleFunc("/api/books", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"ISBN:123": {
				"title": "Only Library Knows",
				"publishers": [{"name": "Small Press"}],
				"publish_date": "2001"
			}
		}`))
	})
	withOpenLibraryServer(t, mux)

	rec, err := NewISBN().Resolve(context.Background(), "123")
	require.NoError(t, err)
	require.Equal(t, "Only Library Knows", rec.Title)
	require.Equal(t, "Small Press", rec.Publisher)
	require.Equal(t, "2001", rec.Year)
}

func TestISBNResolveBothBranchesFail(t *testing.T) {
	setupTestCacheDB(t)

	withGoogleBooksServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	}))

	mux := http.NewServeMux()
	mux.HandleFunc("/api/books", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	withOpenLibraryServer(t, mux)

	rec, err := NewISBN().Resolve(context.Background(), "000")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNotFound))
	require.Nil(t, rec)
}

func TestMergeBookRecordsFillsGaps(t *testing.T) {
	base := &citation.Record{
		Type:  citation.TypeBook,
		Title: citation.UntitledTitle,
		Year:  "2005",
	}
	other := &citation.Record{
		Type:      citation.TypeBook,
		Title:     "Real Title",
		Authors:   []string{"Some Author"},
		Publisher: "Some Press",
		Year:      "2005",
		URL:       "https://example.com/book",
	}

	merged := mergeBookRecords(base, other)
	require.Equal(t, "Real Title", merged.Title)
	require.Equal(t, []string{"Some Author"}, merged.Authors)
	require.Equal(t, "Some Press", merged.Publisher)
	require.Equal(t, "2005", merged.Year)
	require.Equal(t, "https://example.com/book", merged.URL)
}

func TestEarlierYear(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{"a before b", "1965", "1990", true},
		{"a after b", "1990", "1965", false},
		{"equal", "1990", "1990", false},
		{"a unknown", "", "1990", false},
		{"b unknown", "1990", "", true},
		{"both unknown", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, earlierYear(tt.a, tt.b))
		})
	}
}
