package cache

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/spf13/viper"
)

// InvalidateCacheCmd represents the cache invalidate subcommand
type InvalidateCacheCmd struct {
	Source string `arg:"" help:"Cache source to invalidate: crossref, googlebooks, openlibrary, youtube" required:""`
}

func (i *InvalidateCacheCmd) Run() error {
	cacheDB := viper.GetString("cache.dbfile")

	slog.Info("Invalidating cache", "source", i.Source, "database", cacheDB)

	// Map source name to cache table name
	tableName := i.Source + "_cache"

	// Validate source
	validSources := map[string]bool{
		"crossref":    true,
		"googlebooks": true,
		"openlibrary": true,
		"youtube":     true,
	}

	if !validSources[i.Source] {
		return fmt.Errorf("invalid cache source '%s'; valid sources are: crossref, googlebooks, openlibrary, youtube", i.Source)
	}

	// Get or create cache database
	cacheInstance, err := GetGlobalCache()
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	rowsDeleted, err := cacheInstance.InvalidateSource(tableName)
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}

	slog.Info("Cache invalidated", "source", i.Source, "rows_deleted", rowsDeleted)
	return nil
}

// ClearCacheCmd represents the cache clear subcommand
type ClearCacheCmd struct {
	All bool `help:"Remove all cached entries, not just expired ones"`
}

func (c *ClearCacheCmd) Run() error {
	cacheInstance, err := GetGlobalCache()
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	ttl := DefaultCacheTTL
	if parsed, err := time.ParseDuration(viper.GetString("cache.ttl")); err == nil {
		ttl = parsed
	}

	for _, table := range cacheTableNames() {
		if c.All {
			if err := cacheInstance.ClearAll(table); err != nil {
				return fmt.Errorf("failed to clear cache table %s: %w", table, err)
			}
			continue
		}
		if err := cacheInstance.ClearExpired(table, ttl); err != nil {
			return fmt.Errorf("failed to clear expired entries from %s: %w", table, err)
		}
	}

	slog.Info("Cache cleared", "all", c.All)
	return nil
}

// CacheStatsCmd represents the cache stats subcommand
type CacheStatsCmd struct{}

func (s *CacheStatsCmd) Run() error {
	return printCacheStats(os.Stdout)
}

func printCacheStats(w io.Writer) error {
	cacheInstance, err := GetGlobalCache()
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	for _, table := range cacheTableNames() {
		var count int64
		// Table names come from the whitelist, never from user input.
		if err := cacheInstance.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			return fmt.Errorf("failed to count rows in %s: %w", table, err)
		}
		if _, err := fmt.Fprintf(w, "%-20s %d\n", table, count); err != nil {
			return err
		}
	}
	return nil
}

// cacheTableNames returns the whitelisted table names in stable order.
func cacheTableNames() []string {
	names := make([]string, 0, len(ValidCacheTableNames))
	for name := range ValidCacheTableNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
