package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked for when --config is not given.
const DefaultPath = "config.yaml"

// Load reads the configuration. An explicitly given path must exist;
// the default path is optional and its absence yields a default
// configuration. Environment overrides and defaults are applied before
// validation.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	var config Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, &ConfigError{
				Message: fmt.Sprintf("Error parsing configuration file %s: %v", path, err),
			}
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine, credentials can come from the
		// environment.
	case os.IsNotExist(err):
		return nil, &ConfigError{
			Message: fmt.Sprintf("Configuration file not found: %s", path),
		}
	default:
		return nil, &ConfigError{
			Message: fmt.Sprintf("Error reading configuration file %s: %v", path, err),
		}
	}

	applyEnvOverrides(&config.Download)
	config.Download.SetDefaults()

	if err := config.Download.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyEnvOverrides lets environment credentials take precedence over
// the file so secrets can stay out of it.
func applyEnvOverrides(d *DownloadSettings) {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		d.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		d.ClientSecret = v
	}
}
