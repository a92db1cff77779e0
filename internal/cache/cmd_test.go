package cache

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// setupCommandCache creates a cache with every whitelisted table so the
// commands that iterate the whitelist have something to operate on.
func setupCommandCache(t *testing.T) *CacheDB {
	t.Helper()

	cache, _ := setupTestCache(t)
	t.Cleanup(func() { _ = cache.Close() })

	for _, schema := range AllCacheSchemas {
		require.NoError(t, cache.CreateTable(schema))
	}

	withGlobalCache(t, cache)
	return cache
}

func TestInvalidateCacheCmdRun(t *testing.T) {
	cache := setupCommandCache(t)

	require.NoError(t, cache.Set("crossref_cache", "10.1000/182", `{"title":["A Study"]}`))
	require.True(t, cache.CacheExists("crossref_cache", "10.1000/182"))

	cmd := InvalidateCacheCmd{Source: "crossref"}
	require.NoError(t, cmd.Run())

	require.False(t, cache.CacheExists("crossref_cache", "10.1000/182"))
}

func TestInvalidateCacheCmdRejectsUnknownSource(t *testing.T) {
	setupCommandCache(t)

	cmd := InvalidateCacheCmd{Source: "wikipedia"}
	err := cmd.Run()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid cache source")
}

func TestClearCacheCmdRemovesExpiredEntries(t *testing.T) {
	cache := setupCommandCache(t)
	viper.Set("cache.ttl", "1h")

	require.NoError(t, cache.Set("crossref_cache", "fresh", `{}`))
	require.NoError(t, cache.Set("crossref_cache", "stale", `{}`))
	setCachedAt(t, cache, "crossref_cache", "stale", time.Now().Add(-2*time.Hour))

	cmd := ClearCacheCmd{}
	require.NoError(t, cmd.Run())

	require.True(t, cache.CacheExists("crossref_cache", "fresh"))
	require.False(t, cache.CacheExists("crossref_cache", "stale"))
}

func TestClearCacheCmdAll(t *testing.T) {
	cache := setupCommandCache(t)

	require.NoError(t, cache.Set("crossref_cache", "fresh", `{}`))
	require.NoError(t, cache.Set("youtube_cache", "abc", `{}`))

	cmd := ClearCacheCmd{All: true}
	require.NoError(t, cmd.Run())

	require.False(t, cache.CacheExists("crossref_cache", "fresh"))
	require.False(t, cache.CacheExists("youtube_cache", "abc"))
}

func TestPrintCacheStats(t *testing.T) {
	cache := setupCommandCache(t)

	require.NoError(t, cache.Set("crossref_cache", "a", `{}`))
	require.NoError(t, cache.Set("crossref_cache", "b", `{}`))
	require.NoError(t, cache.Set("openlibrary_cache", "c", `{}`))

	var buf bytes.Buffer
	require.NoError(t, printCacheStats(&buf))

	out := buf.String()
	require.Contains(t, out, "crossref_cache")
	require.Contains(t, out, "openlibrary_cache")

	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		switch {
		case strings.HasPrefix(line, "crossref_cache"):
			require.True(t, strings.HasSuffix(line, "2"), "crossref_cache line = %q", line)
		case strings.HasPrefix(line, "openlibrary_cache"):
			require.True(t, strings.HasSuffix(line, "1"), "openlibrary_cache line = %q", line)
		}
	}
}
