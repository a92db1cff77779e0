package provider

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/scribe/internal/cache"
)

// setupTestCacheDB points the global cache at a throwaway sqlite file so
// provider tests never touch (or create) a real cache database.
func setupTestCacheDB(t *testing.T) {
	t.Helper()

	viper.Reset()
	viper.Set("cache.dbfile", filepath.Join(t.TempDir(), "cache.db"))
	viper.Set("cache.ttl", "1h")
	require.NoError(t, cache.ResetGlobalCache())

	t.Cleanup(func() {
		_ = cache.ResetGlobalCache()
		viper.Reset()
	})
}
