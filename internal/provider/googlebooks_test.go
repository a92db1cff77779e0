package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/scribe/internal/citation"
)

func withGoogleBooksServer(t *testing.T, handler http.Handler) {
	t.Helper()

	server := httptest.NewServer(handler)

	t.Cleanup(func() {
		server.Close()
		googleBooksHTTPClient = nil
		googleBooksClientOnce = sync.Once{}
		googleBooksHTTPClientNew = func() *http.Client { return &http.Client{Timeout: 10 * time.Second} }
		googleBooksBaseURL = "https://www.googleapis.com/books/v1"
	})

	googleBooksClientOnce = sync.Once{}
	googleBooksHTTPClient = nil
	googleBooksHTTPClientNew = func() *http.Client { return server.Client() }
	googleBooksBaseURL = server.URL
}

func TestGoogleBooksResolve(t *testing.T) {
	setupTestCacheDB(t)

	withGoogleBooksServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "isbn:9780134190440", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{
			"totalItems": 1,
			"items": [{
				"id": "abc123",
				"volumeInfo": {
					"title": "The Go Programming Language",
					"authors": ["Alan Donovan", "Brian Kernighan"],
					"publisher": "Addison-Wesley",
					"publishedDate": "2015-10-26",
					"infoLink": "https://books.google.com/books?id=abc123&hl=en"
				}
			}]
		}`))
	}))

	rec, err := GoogleBooks{}.Resolve(context.Background(), "9780134190440")
	require.NoError(t, err)

	require.Equal(t, citation.TypeBook, rec.Type)
	require.Equal(t, "The Go Programming Language", rec.Title)
	require.Equal(t, []string{"Alan Donovan", "Brian Kernighan"}, rec.Authors)
	require.Equal(t, "Addison-Wesley", rec.Publisher)
	require.Equal(t, "Google Books", rec.SiteName)
	require.Equal(t, "2015", rec.Year)
	require.Equal(t, "October", rec.Month)
	require.Equal(t, "26", rec.Day)
	require.Equal(t, "https://books.google.com/books?id=abc123&hl=en", rec.URL)
	require.Equal(t, "google_abc123", rec.ID)
}

func TestGoogleBooksResolveNotFound(t *testing.T) {
	setupTestCacheDB(t)

	withGoogleBooksServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	}))

	rec, err := GoogleBooks{}.Resolve(context.Background(), "0000000000")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNotFound))
	require.Nil(t, rec)
}

func TestGoogleBooksSearchVolumes(t *testing.T) {
	withGoogleBooksServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "golang", r.URL.Query().Get("q"))
		require.Equal(t, "5", r.URL.Query().Get("maxResults"))
		_, _ = w.Write([]byte(`{
			"totalItems": 2,
			"items": [
				{"id": "one", "volumeInfo": {"title": "First"}},
				{"id": "two", "volumeInfo": {"title": "Second"}}
			]
		}`))
	}))

	items, err := GoogleBooks{}.SearchVolumes(context.Background(), "golang", 5)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "First", items[0].VolumeInfo.Title)
	require.Equal(t, "two", items[1].ID)
}

func TestGoogleVolumeURLFallback(t *testing.T) {
	book := &GoogleBooksBook{ID: "xyz"}
	require.Equal(t, "https://books.google.com/books?id=xyz", GoogleVolumeURL(book))

	book.VolumeInfo.InfoLink = "https://example.com/book"
	require.Equal(t, "https://example.com/book", GoogleVolumeURL(book))
}

func TestApplyFlexibleDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		year  string
		month string
		day   string
	}{
		{"full date", "2015-10-26", "2015", "October", "26"},
		{"year and month", "2015-10", "2015", "October", ""},
		{"year only", "2015", "2015", "", ""},
		{"long form", "October 26, 2015", "2015", "October", "26"},
		{"leading year fallback", "2015ish", "2015", "", ""},
		{"unparseable", "someday", "", "", ""},
		{"empty", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec citation.Record
			applyFlexibleDate(&rec, tt.input)
			require.Equal(t, tt.year, rec.Year)
			require.Equal(t, tt.month, rec.Month)
			require.Equal(t, tt.day, rec.Day)
		})
	}
}
