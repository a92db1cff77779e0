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
	scriberrors "github.com/lepinkainen/scribe/internal/errors"
)

func withCrossrefServer(t *testing.T, handler http.Handler) {
	t.Helper()

	server := httptest.NewServer(handler)

	t.Cleanup(func() {
		server.Close()
		crossrefHTTPClient = nil
		crossrefClientOnce = sync.Once{}
		crossrefHTTPClientNew = func() *http.Client { return &http.Client{Timeout: 10 * time.Second} }
		crossrefBaseURL = "https://api.crossref.org"
	})

	crossrefClientOnce = sync.Once{}
	crossrefHTTPClient = nil
	crossrefHTTPClientNew = func() *http.Client { return server.Client() }
	crossrefBaseURL = server.URL
}

func TestCrossRefResolve(t *testing.T) {
	setupTestCacheDB(t)

	withCrossrefServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"message": {
				"title": ["A Study of Things"],
				"author": [
					{"given": "John", "family": "Smith"},
					{"given": "Jane", "family": "Doe"}
				],
				"container-title": ["Journal of Examples"],
				"publisher": "Example Press",
				"published": {"date-parts": [[2020, 5, 4]]}
			}
		}`))
	}))

	rec, err := CrossRef{}.Resolve(context.Background(), "10.1000/182")
	require.NoError(t, err)

	require.Equal(t, citation.TypeArticle, rec.Type)
	require.Equal(t, "A Study of Things", rec.Title)
	require.Equal(t, []string{"Smith, John", "Doe, Jane"}, rec.Authors)
	require.Equal(t, "Journal of Examples", rec.SiteName)
	require.Equal(t, "Example Press", rec.Publisher)
	require.Equal(t, "2020", rec.Year)
	require.Equal(t, "May", rec.Month)
	require.Equal(t, "4", rec.Day)
	require.Equal(t, "https://doi.org/10.1000/182", rec.URL)
}

func TestCrossRefResolveFallsBackToPublisherSite(t *testing.T) {
	setupTestCacheDB(t)

	withCrossrefServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"message": {
				"title": ["Standalone Report"],
				"publisher": "Example Press",
				"published-print": {"date-parts": [[1999]]}
			}
		}`))
	}))

	rec, err := CrossRef{}.Resolve(context.Background(), "10.1000/xyz")
	require.NoError(t, err)

	require.Equal(t, "Example Press", rec.SiteName)
	require.Empty(t, rec.Authors)
	require.Equal(t, "1999", rec.Year)
	require.Empty(t, rec.Month)
	require.Empty(t, rec.Day)
}

func TestCrossRefResolveNotFound(t *testing.T) {
	setupTestCacheDB(t)

	withCrossrefServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))

	rec, err := CrossRef{}.Resolve(context.Background(), "10.9999/missing")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNotFound))
	require.Nil(t, rec)
}

func TestCrossRefResolveRateLimited(t *testing.T) {
	setupTestCacheDB(t)

	withCrossrefServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))

	rec, err := CrossRef{}.Resolve(context.Background(), "10.1000/182")
	require.Error(t, err)
	require.True(t, scriberrors.IsRateLimitError(err))
	require.Nil(t, rec)
}

func TestCombineName(t *testing.T) {
	tests := []struct {
		name     string
		input    crossrefName
		expected string
	}{
		{"family and given", crossrefName{Given: "John", Family: "Smith"}, "Smith, John"},
		{"family only", crossrefName{Family: "Smith"}, "Smith"},
		{"given only", crossrefName{Given: "Cher"}, "Cher"},
		{"whitespace trimmed", crossrefName{Given: " John ", Family: " Smith "}, "Smith, John"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, combineName(tt.input))
		})
	}
}

func TestApplyDateParts(t *testing.T) {
	tests := []struct {
		name  string
		parts []int
		year  string
		month string
		day   string
	}{
		{"full date", []int{2021, 12, 25}, "2021", "December", "25"},
		{"year and month", []int{2021, 3}, "2021", "March", ""},
		{"year only", []int{2021}, "2021", "", ""},
		{"zero year ignored", []int{0}, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec citation.Record
			applyDateParts(&rec, tt.parts)
			require.Equal(t, tt.year, rec.Year)
			require.Equal(t, tt.month, rec.Month)
			require.Equal(t, tt.day, rec.Day)
		})
	}
}
