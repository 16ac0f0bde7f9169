// Package config loads and validates application configuration from an
// optional TOML file and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration values for the API server and the admin CLI.
// Values are populated by Load: defaults, then the config file, then
// environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:8081"] (the web preview of the mobile app).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// JWTSecret signs bearer tokens. Required.
	JWTSecret string

	// TokenTTL is how long an issued token stays valid. Defaults to 7 days.
	TokenTTL time.Duration

	// PublicBaseURL prefixes photo URLs handed to clients.
	PublicBaseURL string

	// TripTimezone is the IANA zone whose calendar day counts as "today"
	// for trip phases and day entries. Defaults to "UTC".
	TripTimezone string

	// MaxUploadBytes caps request bodies, day-entry photo uploads included.
	MaxUploadBytes int64

	// MigrateOnStart applies pending migrations before the server listens.
	MigrateOnStart bool
}

// fileConfig mirrors Config in the TOML file. Every key is optional.
type fileConfig struct {
	Port           string   `toml:"port"`
	DatabaseURL    string   `toml:"database_url"`
	LogLevel       string   `toml:"log_level"`
	CORSOrigins    []string `toml:"cors_origins"`
	JWTSecret      string   `toml:"jwt_secret"`
	TokenTTL       string   `toml:"token_ttl"`
	PublicBaseURL  string   `toml:"public_base_url"`
	TripTimezone   string   `toml:"trip_timezone"`
	MaxUploadBytes int64    `toml:"max_upload_bytes"`
	MigrateOnStart *bool    `toml:"migrate_on_start"`
}

// DefaultMaxUploadBytes is 25 MiB.
const DefaultMaxUploadBytes = 25 << 20

// Load reads the config file named by TRAILBOOK_CONFIG (or
// ~/.config/trailbook/config.toml when that exists), applies environment
// overrides and validates the result.
// Returns an error listing any required settings that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:           "8080",
		LogLevel:       "info",
		CORSOrigins:    []string{"http://localhost:8081"},
		TokenTTL:       7 * 24 * time.Hour,
		PublicBaseURL:  "http://localhost:8080",
		TripTimezone:   "UTC",
		MaxUploadBytes: DefaultMaxUploadBytes,
	}

	path, explicit := configPath()
	if path != "" {
		if err := applyFile(&cfg, path, explicit); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Location returns the time zone trips are kept in.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TripTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c Config) validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required settings not set: %s", strings.Join(missing, ", "))
	}
	if _, err := time.LoadLocation(c.TripTimezone); err != nil {
		return fmt.Errorf("TRIP_TIMEZONE: %w", err)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// configPath returns the file to read and whether the user named it.
func configPath() (string, bool) {
	if p := os.Getenv("TRAILBOOK_CONFIG"); p != "" {
		return p, true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, ".config", "trailbook", "config.toml"), false
}

// applyFile overlays the TOML file at path. A missing default file is not an
// error; a missing file the user asked for is.
func applyFile(cfg *Config, path string, explicit bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("config file: %w", err)
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}

	setString(&cfg.Port, fc.Port)
	setString(&cfg.DatabaseURL, fc.DatabaseURL)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.JWTSecret, fc.JWTSecret)
	setString(&cfg.PublicBaseURL, fc.PublicBaseURL)
	setString(&cfg.TripTimezone, fc.TripTimezone)
	if len(fc.CORSOrigins) > 0 {
		cfg.CORSOrigins = fc.CORSOrigins
	}
	if fc.TokenTTL != "" {
		d, err := time.ParseDuration(fc.TokenTTL)
		if err != nil {
			return fmt.Errorf("config file %s: token_ttl: %w", path, err)
		}
		cfg.TokenTTL = d
	}
	if fc.MaxUploadBytes != 0 {
		cfg.MaxUploadBytes = fc.MaxUploadBytes
	}
	if fc.MigrateOnStart != nil {
		cfg.MigrateOnStart = *fc.MigrateOnStart
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Port, os.Getenv("PORT"))
	setString(&cfg.DatabaseURL, os.Getenv("DATABASE_URL"))
	setString(&cfg.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&cfg.JWTSecret, os.Getenv("JWT_SECRET"))
	setString(&cfg.PublicBaseURL, os.Getenv("PUBLIC_BASE_URL"))
	setString(&cfg.TripTimezone, os.Getenv("TRIP_TIMEZONE"))
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitCSV(v)
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = d
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_BYTES: %w", err)
		}
		cfg.MaxUploadBytes = n
	}
	if v := os.Getenv("MIGRATE_ON_START"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MIGRATE_ON_START: %w", err)
		}
		cfg.MigrateOnStart = b
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
