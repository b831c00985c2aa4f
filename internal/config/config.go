package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/bookgrid/internal/util"
)

// EnvConfig overrides the config file location.
const EnvConfig = "BOOKGRID_CONFIG"

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "bookgrid", "config.yml")
}

// DefaultDataDir follows XDG_DATA_HOME, falling back to ~/.local/share.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "bookgrid")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "bookgrid")
}

// Path returns the config file that Load reads: explicit, then
// BOOKGRID_CONFIG, then DefaultPath.
func Path(explicit string) string {
	if explicit != "" {
		return util.ExpandHome(explicit)
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return util.ExpandHome(p)
	}
	return DefaultPath()
}

// Load reads the config from disk and the environment. A missing file is
// fine and yields the defaults. explicit may be empty.
func Load(explicit string) (*Config, error) {
	// .env values never override variables already set.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("storage.path", filepath.Join(DefaultDataDir(), "bookshelf.yml"))
	v.SetDefault("storage.backend", "")
	v.SetDefault("storage.backup", false)
	v.SetDefault("shelves.default_name", "default")
	v.SetDefault("openlibrary.base_url", "https://openlibrary.org")
	v.SetDefault("openlibrary.user_agent", "bookgrid/dev (+https://github.com/blackwell-systems/bookgrid)")
	v.SetDefault("openlibrary.rps", 2)
	v.SetDefault("openlibrary.max_retries", 3)
	v.SetDefault("vision.endpoint", "")
	v.SetDefault("vision.token_env", "BOOKGRID_VISION_TOKEN")
	v.SetDefault("vision.timeout", 30*time.Second)

	v.SetEnvPrefix("BOOKGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(Path(explicit))
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, isCfgNotFound := err.(viper.ConfigFileNotFoundError); !isCfgNotFound {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Vision.TokenEnv != "" {
		cfg.Vision.Token = os.Getenv(cfg.Vision.TokenEnv)
	}
	if cfg.OpenLibrary.RPS <= 0 {
		cfg.OpenLibrary.RPS = 1
	}
	if cfg.OpenLibrary.MaxRetries < 0 {
		cfg.OpenLibrary.MaxRetries = 0
	}
	cfg.Storage.Path = util.ExpandHome(cfg.Storage.Path)

	return &cfg, nil
}

// Save writes the config to path, or the default path when path is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
