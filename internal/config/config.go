package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cesargomez89/bookwall/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port          string
	DBPath        string
	FeedURL       string
	FeedCount     int
	WSKey         string
	XRefToken     string
	XRefSecret    string
	CatalogURL    string
	XRefURL       string
	DetailURL     string
	IPEchoURL     string
	MaxConcurrent int
	LogLevel      string
	LogFormat     string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", constants.DefaultPort),
		DBPath:        getEnv("DB_PATH", defaultDBPath()),
		FeedURL:       getEnv("FEED_URL", ""),
		FeedCount:     getEnvInt("FEED_COUNT", constants.DefaultFeedCount),
		WSKey:         getEnv("WSKEY", ""),
		XRefToken:     getEnv("XREF_TOKEN", ""),
		XRefSecret:    getEnv("XREF_SECRET", ""),
		CatalogURL:    getEnv("CATALOG_URL", constants.DefaultCatalogURL),
		XRefURL:       getEnv("XREF_URL", constants.DefaultXRefURL),
		DetailURL:     getEnv("DETAIL_URL", constants.DefaultDetailURL),
		IPEchoURL:     getEnv("IP_ECHO_URL", constants.DefaultIPEchoURL),
		MaxConcurrent: getEnvInt("MAX_CONCURRENT", constants.DefaultConcurrency),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	// Validate Port
	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	// Validate DBPath
	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	// Validate FeedURL
	if c.FeedURL == "" {
		errors = append(errors, "FEED_URL cannot be empty")
	} else if _, err := url.ParseRequestURI(c.FeedURL); err != nil {
		errors = append(errors, fmt.Sprintf("FEED_URL is not a valid URL: %s", c.FeedURL))
	}

	// Validate FeedCount
	if c.FeedCount < 1 {
		errors = append(errors, fmt.Sprintf("FEED_COUNT must be positive, got: %d", c.FeedCount))
	}

	// Validate WSKey
	if c.WSKey == "" {
		errors = append(errors, "WSKEY cannot be empty")
	}

	// Validate XRefToken and XRefSecret
	if c.XRefToken == "" {
		errors = append(errors, "XREF_TOKEN cannot be empty")
	}
	if c.XRefSecret == "" {
		errors = append(errors, "XREF_SECRET cannot be empty")
	}

	// Validate upstream URLs
	for _, u := range []struct{ key, value string }{
		{"CATALOG_URL", c.CatalogURL},
		{"XREF_URL", c.XRefURL},
		{"DETAIL_URL", c.DetailURL},
		{"IP_ECHO_URL", c.IPEchoURL},
	} {
		if u.value == "" {
			errors = append(errors, fmt.Sprintf("%s cannot be empty", u.key))
		} else if _, err := url.ParseRequestURI(u.value); err != nil {
			errors = append(errors, fmt.Sprintf("%s is not a valid URL: %s", u.key, u.value))
		}
	}

	// Validate MaxConcurrent
	if c.MaxConcurrent < 1 {
		errors = append(errors, fmt.Sprintf("MAX_CONCURRENT must be positive, got: %d", c.MaxConcurrent))
	}

	// Validate LogLevel
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	// Validate LogFormat
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// defaultDBPath places the store file under the per-user application
// data directory, creating the directory if absent.
func defaultDBPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return constants.DefaultDBFileName
	}
	dir := filepath.Join(base, constants.DefaultAppDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return constants.DefaultDBFileName
	}
	return filepath.Join(dir, constants.DefaultDBFileName)
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
