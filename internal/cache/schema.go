package cache

// SQL schemas for cache tables
// All cache tables use "cache_key" as the primary key column for consistency

// CrossRefCacheSchema defines the schema for CrossRef DOI metadata cache
const CrossRefCacheSchema = `
CREATE TABLE IF NOT EXISTS crossref_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_crossref_cached_at ON crossref_cache(cached_at);
`

// GoogleBooksCacheSchema defines the schema for Google Books API cache
const GoogleBooksCacheSchema = `
CREATE TABLE IF NOT EXISTS googlebooks_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_googlebooks_cached_at ON googlebooks_cache(cached_at);
`

// OpenLibraryCacheSchema defines the schema for OpenLibrary book cache
const OpenLibraryCacheSchema = `
CREATE TABLE IF NOT EXISTS openlibrary_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_openlibrary_cached_at ON openlibrary_cache(cached_at);
`

// YouTubeCacheSchema defines the schema for YouTube oEmbed metadata cache
const YouTubeCacheSchema = `
CREATE TABLE IF NOT EXISTS youtube_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_youtube_cached_at ON youtube_cache(cached_at);
`

// AllCacheSchemas contains all cache table schemas for easy initialization
var AllCacheSchemas = []string{
	CrossRefCacheSchema,
	GoogleBooksCacheSchema,
	OpenLibraryCacheSchema,
	YouTubeCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names
// Used to prevent SQL injection when interpolating table names
var ValidCacheTableNames = map[string]bool{
	"crossref_cache":    true,
	"googlebooks_cache": true,
	"openlibrary_cache": true,
	"youtube_cache":     true,
}
