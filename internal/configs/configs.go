/*
Package configs is responsible for loading and parsing the client's configuration settings.

Settings come from operating system environment variables, optionally seeded from a
.env file, and can be overridden per invocation by command-line flags. A single API
base URL is shared by the auth and chat clients.
*/
package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted by MEDIBOT_STORE.
const (
	StoreBadger = "badger"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

const (
	defaultEnvironment    = "development"
	defaultAPIBase        = "http://localhost:8000/api"
	defaultHTTPTimeout    = 2 * time.Minute
	defaultSubmitInterval = time.Second
)

// AppConfig contains all configuration parameters required for the client to run.
type AppConfig struct {
	// General Settings
	Environment string
	LogFile     string
	LogLevel    string

	// API Settings
	APIBase       string
	HTTPTimeout   time.Duration
	AuthorizeChat bool

	// Auth Form Settings
	SubmitInterval time.Duration

	// Session Storage Settings
	Store     string
	StorePath string
}

// IsDevelopment reports whether the client runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing files
// are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// LoadConfig reads and parses the client configuration from environment variables.
// It provides default values for each item and performs type conversion and validation.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Settings ---
	cfg.Environment = os.Getenv("MEDIBOT_ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = defaultEnvironment
	}
	cfg.LogLevel = strings.TrimSpace(os.Getenv("MEDIBOT_LOG_LEVEL"))

	// --- API Settings ---
	apiBase, err := NormalizeAPIBase(envOr("MEDIBOT_API_BASE", defaultAPIBase))
	if err != nil {
		return nil, err
	}
	cfg.APIBase = apiBase

	cfg.HTTPTimeout, err = durationEnv("MEDIBOT_HTTP_TIMEOUT", defaultHTTPTimeout)
	if err != nil {
		return nil, err
	}

	cfg.AuthorizeChat = true
	if v := strings.TrimSpace(os.Getenv("MEDIBOT_AUTHORIZE_CHAT")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MEDIBOT_AUTHORIZE_CHAT environment variable: %w", err)
		}
		cfg.AuthorizeChat = b
	}

	// --- Auth Form Settings ---
	cfg.SubmitInterval, err = durationEnv("MEDIBOT_SUBMIT_INTERVAL", defaultSubmitInterval)
	if err != nil {
		return nil, err
	}

	// --- Session Storage Settings ---
	cfg.Store = strings.ToLower(envOr("MEDIBOT_STORE", StoreSQLite))
	if err := ValidateStore(cfg.Store); err != nil {
		return nil, err
	}

	cfg.StorePath = os.Getenv("MEDIBOT_STORE_PATH")
	if cfg.StorePath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("MEDIBOT_STORE_PATH is not set and no user config directory is available: %w", err)
		}
		cfg.StorePath = filepath.Join(dir, "medibot")
	}

	cfg.LogFile = os.Getenv("MEDIBOT_LOG_FILE")
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.StorePath, "medibot.log")
	}

	return cfg, nil
}

// NormalizeAPIBase validates an absolute http(s) base URL and strips the trailing slash.
func NormalizeAPIBase(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid API base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("API base URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("API base URL %q has no host", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// ValidateStore checks that name is a known storage backend.
func ValidateStore(name string) error {
	switch name {
	case StoreBadger, StoreSQLite, StoreMemory:
		return nil
	default:
		return fmt.Errorf("unknown store %q (want %s, %s or %s)", name, StoreBadger, StoreSQLite, StoreMemory)
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	if v == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", key, v)
	}
	return d, nil
}
