// Package config loads the optional YAML configuration file and applies
// environment overrides for the Spotify credentials.
package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// DownloadSettings holds the download pipeline settings.
type DownloadSettings struct {
	// Spotify API credentials. Overridable through SPOTIFY_CLIENT_ID
	// and SPOTIFY_CLIENT_SECRET.
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`

	// Output settings. OutputDir receives the .ogg files when no
	// helper program is given on the command line.
	OutputDir string `yaml:"output_dir"`

	// FetchCommand is the argv of the external program that delivers
	// OGG bytes on stdout. {uri} and {id} placeholders are expanded
	// per item.
	FetchCommand []string `yaml:"fetch_command"`

	// Cache settings
	CacheMaxSize int `yaml:"cache_max_size"`
	CacheTTL     int `yaml:"cache_ttl"` // seconds

	// Spotify rate limiting settings
	RateLimitEnabled  bool    `yaml:"rate_limit_enabled"`
	RateLimitRequests int     `yaml:"rate_limit_requests"`
	RateLimitWindow   float64 `yaml:"rate_limit_window"` // seconds
}

// Config is the root of the YAML configuration file.
type Config struct {
	Download DownloadSettings `yaml:"download"`
}

// SetDefaults sets default values for DownloadSettings.
func (d *DownloadSettings) SetDefaults() {
	if d.OutputDir == "" {
		d.OutputDir = "."
	}
	if len(d.FetchCommand) == 0 {
		d.FetchCommand = []string{"librespot", "--single-track", "{uri}", "--backend", "pipe"}
	}
	if d.CacheMaxSize == 0 {
		d.CacheMaxSize = 1000
	}
	if d.CacheTTL == 0 {
		d.CacheTTL = 3600
	}
	if !d.RateLimitEnabled && d.RateLimitRequests == 0 {
		d.RateLimitEnabled = true
	}
	if d.RateLimitRequests == 0 {
		d.RateLimitRequests = 10
	}
	if d.RateLimitWindow == 0 {
		d.RateLimitWindow = 1.0
	}
}

// Validate checks the settings after defaults and env overrides have
// been applied.
func (d *DownloadSettings) Validate() error {
	if d.ClientID == "" || d.ClientSecret == "" {
		return &ConfigError{
			Message: "Spotify credentials missing: set client_id/client_secret in the config file or SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET in the environment",
		}
	}
	if len(d.FetchCommand) == 0 {
		return &ConfigError{Message: "fetch_command must not be empty"}
	}
	if d.CacheMaxSize < 0 {
		return &ConfigError{Message: fmt.Sprintf("cache_max_size must not be negative: %d", d.CacheMaxSize)}
	}
	if d.RateLimitEnabled && d.RateLimitRequests <= 0 {
		return &ConfigError{Message: fmt.Sprintf("rate_limit_requests must be positive: %d", d.RateLimitRequests)}
	}
	if d.RateLimitEnabled && d.RateLimitWindow <= 0 {
		return &ConfigError{Message: fmt.Sprintf("rate_limit_window must be positive: %g", d.RateLimitWindow)}
	}
	return nil
}
