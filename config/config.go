package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Preference backends.
const (
	PrefsSQLite = "sqlite"
	PrefsFile   = "file"
)

// Config holds all application configuration.
type Config struct {
	Endpoint        string `yaml:"endpoint"`
	DefaultQuery    string `yaml:"default_query"`
	FetchTimeoutSec int    `yaml:"fetch_timeout_secs"`
	PrefsBackend    string `yaml:"prefs_backend"`
	PrefsPath       string `yaml:"prefs_path"`
	DBPath          string `yaml:"db_path"`
	HistoryPath     string `yaml:"history_path"`
	PreviewChars    int    `yaml:"preview_chars"`
	LogLevel        string `yaml:"log_level"`
}

// Defaults returns a Config with all default values set.
func Defaults() Config {
	return Config{
		Endpoint:        "https://hn.algolia.com/api/v1/search",
		DefaultQuery:    "React",
		FetchTimeoutSec: 10,
		PrefsBackend:    PrefsSQLite,
		PrefsPath:       "./hn-search.prefs.json",
		DBPath:          "./hn-search.db",
		HistoryPath:     "",
		PreviewChars:    4000,
		LogLevel:        "info",
	}
}

// FetchTimeout returns the HTTP timeout for search and preview requests.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// Load reads a YAML config file over Defaults and returns a validated Config.
// An empty path skips the file. The HN_SEARCH_CONFIG environment variable
// overrides path, HN_SEARCH_DB overrides db_path.
func Load(path string) (Config, error) {
	if envPath := os.Getenv("HN_SEARCH_CONFIG"); envPath != "" {
		path = envPath
	}

	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if envDB := os.Getenv("HN_SEARCH_DB"); envDB != "" {
		cfg.DBPath = envDB
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that required fields are present and values are valid.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", c.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", c.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", c.Endpoint)
	}

	if c.FetchTimeoutSec <= 0 {
		return fmt.Errorf("fetch_timeout_secs must be positive, got %d", c.FetchTimeoutSec)
	}

	switch c.PrefsBackend {
	case PrefsSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("db_path is required for the sqlite prefs backend")
		}
	case PrefsFile:
		if c.PrefsPath == "" {
			return fmt.Errorf("prefs_path is required for the file prefs backend")
		}
	default:
		return fmt.Errorf("invalid prefs_backend %q: must be %s or %s", c.PrefsBackend, PrefsSQLite, PrefsFile)
	}

	if c.PreviewChars < 0 {
		return fmt.Errorf("preview_chars must not be negative, got %d", c.PreviewChars)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q: must be debug, info, warn or error", c.LogLevel)
	}

	return nil
}
