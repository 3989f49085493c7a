package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".recyforge"))
		}

		// Check /etc
		v.AddConfigPath("/etc/recyforge/")
	}

	// Read config file; defaults alone are a valid configuration
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Catalog defaults
	v.SetDefault("catalog.formats_path", "data/custom_formats.json")
	v.SetDefault("catalog.templates_path", "data/templates.json")

	// Output defaults
	v.SetDefault("output.path", "config.yml")

	// Instance defaults
	v.SetDefault("defaults.radarr_url", "http://localhost:7878")
	v.SetDefault("defaults.sonarr_url", "http://localhost:8989")
	v.SetDefault("defaults.api_key", "YOUR_API_KEY")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Catalog.FormatsPath == "" {
		return fmt.Errorf("catalog.formats_path is required")
	}

	if cfg.Catalog.TemplatesPath == "" {
		return fmt.Errorf("catalog.templates_path is required")
	}

	if cfg.Output.Path == "" {
		return fmt.Errorf("output.path is required")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// BaseURLFor returns the fallback base URL for an app scope.
func (c *Config) BaseURLFor(app string) string {
	if app == "sonarr" {
		return c.Defaults.SonarrURL
	}
	return c.Defaults.RadarrURL
}
