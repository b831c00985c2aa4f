package config

import "time"

// Config is the top-level bookgrid configuration.
type Config struct {
	Storage     StorageConfig     `mapstructure:"storage" yaml:"storage"`
	Shelves     ShelvesConfig     `mapstructure:"shelves" yaml:"shelves"`
	OpenLibrary OpenLibraryConfig `mapstructure:"openlibrary" yaml:"openlibrary"`
	Vision      VisionConfig      `mapstructure:"vision" yaml:"vision"`
}

// StorageConfig says where the grid snapshot lives.
type StorageConfig struct {
	Path    string `mapstructure:"path" yaml:"path"`
	Backend string `mapstructure:"backend" yaml:"backend,omitempty"` // "file", "sqlite" or "" to infer
	Backup  bool   `mapstructure:"backup" yaml:"backup"`
}

// ShelvesConfig holds defaults for shelf creation.
type ShelvesConfig struct {
	DefaultName string `mapstructure:"default_name" yaml:"default_name"`
}

// OpenLibraryConfig holds the search provider settings.
type OpenLibraryConfig struct {
	BaseURL    string `mapstructure:"base_url" yaml:"base_url"`
	UserAgent  string `mapstructure:"user_agent" yaml:"user_agent"`
	RPS        int    `mapstructure:"rps" yaml:"rps"`
	MaxRetries int    `mapstructure:"max_retries" yaml:"max_retries"`
}

// VisionConfig holds the cover recognition endpoint. An empty endpoint
// disables recognition.
type VisionConfig struct {
	Endpoint string        `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	TokenEnv string        `mapstructure:"token_env" yaml:"token_env"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Token    string        `mapstructure:"-" yaml:"-"` // resolved at runtime, never written
}

// EffectiveDefaultShelf returns the name used when a grid needs its first shelf.
func (s ShelvesConfig) EffectiveDefaultShelf() string {
	if s.DefaultName != "" {
		return s.DefaultName
	}
	return "default"
}

// VisionEnabled reports whether a recognition endpoint is configured.
func (c *Config) VisionEnabled() bool {
	return c.Vision.Endpoint != ""
}
