package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DriverProxy forwards the API to an upstream json-server instead of
// persisting anything locally.
const DriverProxy = "proxy"

// Config holds the runtime settings of both binaries.
type Config struct {
	Port        string
	Env         string
	StoreDriver string
	DBPath      string
	SQLitePath  string
	UpstreamURL string
	APIBase     string
	HTTPTimeout time.Duration
	Debug       bool
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment take precedence over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8008"),
		Env:         strings.ToLower(getEnv("APP_ENV", "development")),
		DBPath:      getEnv("DB_PATH", "db.json"),
		SQLitePath:  getEnv("SQLITE_PATH", "kanban.db"),
		UpstreamURL: getEnv("UPSTREAM_URL", "http://127.0.0.1:4000"),
		APIBase:     getEnv("KANBAN_API_BASE", "http://localhost:8008/api"),
		HTTPTimeout: 10 * time.Second,
		Debug:       getEnvBool("KANBAN_DEBUG"),
	}

	// the production host has a read-only filesystem
	defaultDriver := "file"
	if cfg.Production() {
		defaultDriver = "memory"
	}
	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", defaultDriver))

	if raw := os.Getenv("KANBAN_HTTP_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid KANBAN_HTTP_TIMEOUT %q", raw)
		}
		cfg.HTTPTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings are usable together.
func (c *Config) Validate() error {
	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	switch c.StoreDriver {
	case "file", "memory", "sqlite":
	case DriverProxy:
		u, err := url.Parse(c.UpstreamURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("proxy driver needs a valid UPSTREAM_URL, got %q", c.UpstreamURL)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want file, memory, sqlite or proxy)", c.StoreDriver)
	}
	return nil
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

// Addr is the listen address for the API server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && v
}
