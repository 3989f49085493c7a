package config

// Config represents the complete application configuration
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Output   OutputConfig   `mapstructure:"output"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// CatalogConfig locates the two JSON catalog caches
type CatalogConfig struct {
	FormatsPath   string `mapstructure:"formats_path"`
	TemplatesPath string `mapstructure:"templates_path"`
}

// OutputConfig controls where the generated file goes
type OutputConfig struct {
	Path string `mapstructure:"path"`
}

// DefaultsConfig supplies connection fallbacks for instances that leave
// their fields empty in the project file
type DefaultsConfig struct {
	RadarrURL string `mapstructure:"radarr_url"`
	SonarrURL string `mapstructure:"sonarr_url"`
	APIKey    string `mapstructure:"api_key"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
