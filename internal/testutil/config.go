package testutil

import (
	"testing"

	"github.com/lepinkainen/scribe/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	OpenAIAPIKey      string
	GoogleBooksAPIKey string
	NoInteractive     bool
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		OpenAIAPIKey:      config.OpenAIAPIKey,
		GoogleBooksAPIKey: config.GoogleBooksAPIKey,
		NoInteractive:     config.NoInteractive,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.OpenAIAPIKey = state.OpenAIAPIKey
	config.GoogleBooksAPIKey = state.GoogleBooksAPIKey
	config.NoInteractive = state.NoInteractive
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	// Save current config state
	state := SaveConfigState()

	// Reset viper
	viper.Reset()

	// Schedule restoration on test cleanup
	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfig sets up a test configuration with common defaults.
// It saves the current state and restores it when the test completes.
func SetTestConfig(t *testing.T) {
	t.Helper()

	// Save current config state
	state := SaveConfigState()

	// Reset viper and set test defaults
	viper.Reset()

	// Set common test defaults
	config.OpenAIAPIKey = "test-openai-key"
	config.GoogleBooksAPIKey = "test-googlebooks-key"
	config.NoInteractive = true

	// Schedule restoration on test cleanup
	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetViperValue sets a viper configuration value and schedules cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	// Get the old value (if any)
	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)

	// Set the new value
	viper.Set(key, value)

	// Schedule cleanup
	t.Cleanup(func() {
		if hadValue {
			viper.Set(key, oldValue)
		}
		// Note: viper doesn't have an Unset function, so we can't
		// restore the "unset" state. This is a known limitation.
	})
}

// SetupTestCache configures viper for test caching with a temporary directory.
// It creates the cache directory and sets up viper configuration.
func SetupTestCache(t *testing.T, env *TestEnv) string {
	t.Helper()

	// Create cache directory
	cacheDir := env.Path("cache")
	env.MkdirAll("cache")

	// Configure viper
	viper.Set("cache.dbfile", env.Path("cache", "test-cache.db"))
	viper.Set("cache.ttl", "24h")

	return cacheDir
}
