package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/lepinkainen/scribe/cmd/cite"
	searchcmd "github.com/lepinkainen/scribe/cmd/search"
	"github.com/lepinkainen/scribe/internal/cache"
	"github.com/lepinkainen/scribe/internal/config"
	"github.com/spf13/viper"
)

var (
	runCite   = cite.Run
	runSearch = searchcmd.Run
)

// CLI represents the complete command structure for the scribe application
type CLI struct {
	// Global flags
	NoInteractive bool `help:"Disable interactive prompts (auto-select the best search result)"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 720h for 30 days)" default:"720h"`

	Cite   CiteCmd   `cmd:"" help:"Generate citations for a DOI, ISBN, URL, or free-text query"`
	Search SearchCmd `cmd:"" help:"Search book catalogs for a free-text query"`
	Cache  CacheCmd  `cmd:"" help:"Manage the response cache"`
}

// CiteCmd represents the cite command
type CiteCmd struct {
	Input []string `arg:"" help:"DOI, ISBN, YouTube/Wikipedia/web URL, or free-text search query"`
	Style string   `help:"Print a single style instead of all four (apa7, mla9, chicago, harvard)"`
	JSON  bool     `help:"Output the resolved record and citations as JSON"`
}

// SearchCmd represents the search command
type SearchCmd struct {
	Query []string `arg:"" help:"Free-text search terms"`
	JSON  bool     `help:"Output candidates as JSON"`
}

// CacheCmd represents the cache command and its subcommands
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Invalidate cached responses for a source"`
	Clear      cache.ClearCacheCmd      `cmd:"" help:"Remove expired cache entries (--all removes everything)"`
	Stats      cache.CacheStatsCmd      `cmd:"" help:"Show cached row counts per source"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("scribe"),
		kong.Description("A tool to generate bibliographic citations from DOIs, ISBNs, URLs, and free-text queries."),
		kong.UsageOnError(),
	)

	// Update global config based on parsed flags
	updateGlobalConfig(&cli)

	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("OpenAIModel", "gpt-4o-mini")

	// Cache defaults
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h") // 30 days

	// Enable environment variable support
	viper.AutomaticEnv()
	// Bind specific environment variables to config keys
	if err := viper.BindEnv("OpenAIAPIKey", "OPENAI_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}
	if err := viper.BindEnv("GoogleBooksAPIKey", "GOOGLE_BOOKS_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("Config file not found, using defaults")
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	// Update config based on CLI flags
	config.SetNoInteractive(cli.NoInteractive)

	// Update cache config
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)
}

// Run methods for each command

func (c *CiteCmd) Run() error {
	return runCite(cite.Options{
		Input:         strings.Join(c.Input, " "),
		Style:         c.Style,
		JSON:          c.JSON,
		NoInteractive: config.NoInteractive,
	})
}

func (s *SearchCmd) Run() error {
	return runSearch(searchcmd.Options{
		Query: strings.Join(s.Query, " "),
		JSON:  s.JSON,
	})
}

func initLogging() {
	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
