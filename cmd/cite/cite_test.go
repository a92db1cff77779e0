package cite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/scribe/internal/citation"
	"github.com/lepinkainen/scribe/internal/resolve"
	"github.com/lepinkainen/scribe/internal/search"
	"github.com/lepinkainen/scribe/internal/tui"
)

type fakeResolver struct {
	result       *resolve.Result
	err          error
	gotInput     string
	gotCandidate *search.Candidate
}

func (f *fakeResolver) Resolve(_ context.Context, input string) (*resolve.Result, error) {
	f.gotInput = input
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeResolver) ResolveCandidate(c *search.Candidate) *resolve.Result {
	f.gotCandidate = c
	return &resolve.Result{
		Citations: citation.Citations{APA7: "candidate apa"},
		Source:    c.Source,
	}
}

func withFakeResolver(t *testing.T, f *fakeResolver) {
	t.Helper()

	original := newResolver
	t.Cleanup(func() { newResolver = original })
	newResolver = func() citationResolver { return f }
}

func withSearchResults(t *testing.T, candidates []search.Candidate, err error) {
	t.Helper()

	original := searchFunc
	t.Cleanup(func() { searchFunc = original })
	searchFunc = func(context.Context, string) ([]search.Candidate, error) {
		return candidates, err
	}
}

func withSelection(t *testing.T, result tui.SelectionResult) {
	t.Helper()

	original := selectFunc
	t.Cleanup(func() { selectFunc = original })
	selectFunc = func(string, []search.Candidate) (tui.SelectionResult, error) {
		return result, nil
	}
}

func testResult() *resolve.Result {
	return &resolve.Result{
		Record: &citation.Record{Type: citation.TypeArticle, Title: "A Study"},
		Citations: citation.Citations{
			APA7:    "apa citation",
			MLA9:    "mla citation",
			Chicago: "chicago citation",
			Harvard: "harvard citation",
		},
		Source: "crossref",
	}
}

func testSearchCandidates() []search.Candidate {
	return []search.Candidate{
		{ID: "google_g1", Title: "Dune", Authors: []string{"Frank Herbert"}, Year: "1965", Source: "googlebooks"},
		{ID: "openlibrary_OL1W", Title: "Dune Messiah", Authors: []string{"Frank Herbert"}, Source: "openlibrary"},
	}
}

func TestRunPrintsAllStyles(t *testing.T) {
	resolver := &fakeResolver{result: testResult()}
	withFakeResolver(t, resolver)

	var buf bytes.Buffer
	err := Run(Options{Input: "10.1000/182", Out: &buf})
	require.NoError(t, err)

	require.Equal(t, "10.1000/182", resolver.gotInput)
	out := buf.String()
	require.Contains(t, out, "APA 7:   apa citation")
	require.Contains(t, out, "MLA 9:   mla citation")
	require.Contains(t, out, "Chicago: chicago citation")
	require.Contains(t, out, "Harvard: harvard citation")
}

func TestRunSingleStyle(t *testing.T) {
	withFakeResolver(t, &fakeResolver{result: testResult()})

	var buf bytes.Buffer
	err := Run(Options{Input: "10.1000/182", Style: "mla9", Out: &buf})
	require.NoError(t, err)
	require.Equal(t, "mla citation\n", buf.String())
}

func TestRunInvalidStyle(t *testing.T) {
	withFakeResolver(t, &fakeResolver{result: testResult()})

	err := Run(Options{Input: "10.1000/182", Style: "bluebook", Out: &bytes.Buffer{}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown style")
}

func TestRunJSONOutput(t *testing.T) {
	withFakeResolver(t, &fakeResolver{result: testResult()})

	var buf bytes.Buffer
	err := Run(Options{Input: "10.1000/182", JSON: true, Out: &buf})
	require.NoError(t, err)

	var decoded resolve.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "crossref", decoded.Source)
	require.Equal(t, "A Study", decoded.Record.Title)
	require.Equal(t, "apa citation", decoded.Citations.APA7)
}

func TestRunFreeTextAutoSelectsBestMatch(t *testing.T) {
	resolver := &fakeResolver{err: resolve.ErrNeedsSearch}
	withFakeResolver(t, resolver)
	withSearchResults(t, testSearchCandidates(), nil)

	var buf bytes.Buffer
	err := Run(Options{Input: "dune", NoInteractive: true, Out: &buf})
	require.NoError(t, err)

	require.NotNil(t, resolver.gotCandidate)
	require.Equal(t, "google_g1", resolver.gotCandidate.ID)
	require.Contains(t, buf.String(), "candidate apa")
}

func TestRunFreeTextUsesPicker(t *testing.T) {
	resolver := &fakeResolver{err: resolve.ErrNeedsSearch}
	withFakeResolver(t, resolver)
	candidates := testSearchCandidates()
	withSearchResults(t, candidates, nil)
	withSelection(t, tui.SelectionResult{Action: tui.ActionSelected, Selection: &candidates[1]})

	var buf bytes.Buffer
	err := Run(Options{Input: "dune", Out: &buf})
	require.NoError(t, err)

	require.NotNil(t, resolver.gotCandidate)
	require.Equal(t, "openlibrary_OL1W", resolver.gotCandidate.ID)
}

func TestRunFreeTextCancelled(t *testing.T) {
	withFakeResolver(t, &fakeResolver{err: resolve.ErrNeedsSearch})
	withSearchResults(t, testSearchCandidates(), nil)
	withSelection(t, tui.SelectionResult{Action: tui.ActionCancelled})

	err := Run(Options{Input: "dune", Out: &bytes.Buffer{}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no result selected")
}

func TestRunFreeTextNoResults(t *testing.T) {
	withFakeResolver(t, &fakeResolver{err: resolve.ErrNeedsSearch})
	withSearchResults(t, nil, nil)

	err := Run(Options{Input: "zxqj", Out: &bytes.Buffer{}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no results found")
}

func TestRunSearchFailure(t *testing.T) {
	withFakeResolver(t, &fakeResolver{err: resolve.ErrNeedsSearch})
	withSearchResults(t, nil, errors.New("catalogs unreachable"))

	err := Run(Options{Input: "dune", Out: &bytes.Buffer{}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "search failed")
}

func TestRunResolverFailure(t *testing.T) {
	withFakeResolver(t, &fakeResolver{err: errors.New("failed to generate citation: model unavailable")})

	err := Run(Options{Input: "10.1000/182", Out: &bytes.Buffer{}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to generate citation")
}
