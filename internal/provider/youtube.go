package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/lepinkainen/scribe/internal/cache"
	"github.com/lepinkainen/scribe/internal/citation"
)

// Package-level variables for the YouTube oEmbed client.
// These can be overridden in tests for dependency injection.
var (
	youtubeHTTPClient    *http.Client
	youtubeClientOnce    sync.Once
	youtubeHTTPClientNew = func() *http.Client {
		return &http.Client{Timeout: 10 * time.Second}
	}
	youtubeOEmbedBaseURL = "https://www.youtube.com/oembed"
)

func getYouTubeHTTPClient() *http.Client {
	youtubeClientOnce.Do(func() {
		youtubeHTTPClient = youtubeHTTPClientNew()
	})
	return youtubeHTTPClient
}

// youtubeOEmbed models the oEmbed JSON payload.
type youtubeOEmbed struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// YouTube resolves video URLs via the oEmbed endpoint. The resulting record
// is always a video with the channel name as its single author.
type YouTube struct{}

func (YouTube) Name() string { return "youtube" }

// Resolve fetches oEmbed metadata for a video page URL.
func (y YouTube) Resolve(ctx context.Context, videoURL string) (*citation.Record, error) {
	meta, _, err := cache.GetOrFetch("youtube_cache", videoURL, func() (*youtubeOEmbed, error) {
		return fetchYouTubeOEmbed(ctx, videoURL)
	})
	if err != nil {
		return nil, err
	}

	rec := &citation.Record{
		Type:     citation.TypeVideo,
		Title:    meta.Title,
		SiteName: "YouTube",
		URL:      videoURL,
	}
	if meta.AuthorName != "" {
		rec.Authors = []string{meta.AuthorName}
	}
	rec.Normalize()
	return rec, nil
}

func fetchYouTubeOEmbed(ctx context.Context, videoURL string) (*youtubeOEmbed, error) {
	v := url.Values{}
	v.Set("format", "json")
	v.Set("url", videoURL)
	endpoint := youtubeOEmbedBaseURL + "?" + v.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("Fetching video metadata from YouTube oEmbed", "url", videoURL)

	resp, err := getYouTubeHTTPClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("youTube oEmbed request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("no data found in YouTube oEmbed for %s: %w", videoURL, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youTube oEmbed returned status: %s", resp.Status)
	}

	var meta youtubeOEmbed
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode oEmbed response: %w", err)
	}
	return &meta, nil
}
