package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// OpenAIAPIKey is the API key used for AI-assisted citation fallback
	OpenAIAPIKey string
	// GoogleBooksAPIKey is the optional API key for the Google Books API
	GoogleBooksAPIKey string
	// NoInteractive disables interactive prompts (search result selection)
	NoInteractive bool
)

// InitConfig initializes the global configuration
func InitConfig() {
	// Set default values
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h")
	viper.SetDefault("OpenAIModel", "gpt-4o-mini")

	// Get values from viper
	OpenAIAPIKey = viper.GetString("OpenAIAPIKey")
	GoogleBooksAPIKey = viper.GetString("GoogleBooksAPIKey")
	NoInteractive = viper.GetBool("NoInteractive")
}

// SetNoInteractive sets the NoInteractive flag
func SetNoInteractive(noInteractive bool) {
	NoInteractive = noInteractive
}
