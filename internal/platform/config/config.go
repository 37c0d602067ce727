// Package config loads the quotebook configuration with koanf and validates
// it with go-playground/validator.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Defaults for values that are numbers rather than durations.
const (
	DefaultServerPort     = 8080
	DefaultMaxRequestSize = 1 << 20

	// Per community.
	DefaultRateLimitPerSecond = 5.0
	DefaultRateLimitBurst     = 20

	DefaultStoreRetryMaxAttempts     = 3
	DefaultStoreRetryMultiplier      = 2.0
	DefaultStoreRetryJitterFactor    = 0.25
	DefaultStoreCircuitMaxFailures   = 5
	DefaultStoreCircuitHalfOpenLimit = 3

	DefaultImportWorkers = 4

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28
)

// configDir holds base.yaml and the profile files, relative to the working
// directory.
const configDir = "configs"

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Store     StoreConfig     `koanf:"store"     validate:"required"`
	Quotes    QuotesConfig    `koanf:"quotes"    validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int             `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string          `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration   `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration   `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration   `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration   `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration   `koanf:"request_timeout"  validate:"required,min=100ms"`
	MaxRequestSize  int64           `koanf:"max_request_size" validate:"required,min=1"`
	RateLimit       RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig limits interaction requests per community.
type RateLimitConfig struct {
	Enabled           bool    `koanf:"enabled"`
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"required_if=Enabled true,omitempty,gt=0"`
	Burst             int     `koanf:"burst"               validate:"required_if=Enabled true,omitempty,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
	Insecure     bool    `koanf:"insecure"`
}

// StoreConfig selects and configures the quote store backend.
type StoreConfig struct {
	Driver         string               `koanf:"driver"          validate:"required,oneof=mongo sqlite"`
	Mongo          MongoConfig          `koanf:"mongo"`
	SQLite         SQLiteConfig         `koanf:"sqlite"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
}

// MongoConfig contains MongoDB connection settings.
type MongoConfig struct {
	URL            string        `koanf:"url"             validate:"omitempty,mongouri"`
	Database       string        `koanf:"database"`
	User           string        `koanf:"user"`
	Password       string        `koanf:"password"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"omitempty,min=100ms"`
}

// SQLiteConfig contains embedded database settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// RetryConfig contains retry settings for idempotent store reads.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for the store.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// QuotesConfig contains quote behaviour switches.
type QuotesConfig struct {
	CaseSensitive bool                     `koanf:"case_sensitive"`
	GetNoPrefix   bool                     `koanf:"get_no_prefix"`
	ImportWorkers int                      `koanf:"import_workers" validate:"required,min=1,max=64"`
	Communities   map[string]QuoteOverride `koanf:"communities"`
}

// QuoteOverride replaces the global quote switches for a single community.
// Nil fields inherit the global value.
type QuoteOverride struct {
	CaseSensitive *bool `koanf:"case_sensitive"`
	GetNoPrefix   *bool `koanf:"get_no_prefix"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "quotebook",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":                           DefaultServerPort,
		"server.host":                           "0.0.0.0",
		"server.read_timeout":                   "30s",
		"server.write_timeout":                  "30s",
		"server.idle_timeout":                   "120s",
		"server.shutdown_timeout":               "10s",
		"server.request_timeout":                "10s",
		"server.max_request_size":               DefaultMaxRequestSize,
		"server.rate_limit.enabled":             true,
		"server.rate_limit.requests_per_second": DefaultRateLimitPerSecond,
		"server.rate_limit.burst":               DefaultRateLimitBurst,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/quotebook.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "quotebook",
		"telemetry.sampling_rate": 1.0,
		"telemetry.insecure":      true,

		"store.driver":                          DriverSQLite,
		"store.mongo.url":                       "mongodb://localhost:27017",
		"store.mongo.database":                  "quotebook",
		"store.mongo.user":                      "",
		"store.mongo.password":                  "",
		"store.mongo.connect_timeout":           "10s",
		"store.sqlite.path":                     "./data/quotebook.db",
		"store.retry.max_attempts":              DefaultStoreRetryMaxAttempts,
		"store.retry.initial_interval":          "50ms",
		"store.retry.max_interval":              "1s",
		"store.retry.multiplier":                DefaultStoreRetryMultiplier,
		"store.retry.jitter_factor":             DefaultStoreRetryJitterFactor,
		"store.circuit_breaker.max_failures":    DefaultStoreCircuitMaxFailures,
		"store.circuit_breaker.timeout":         "30s",
		"store.circuit_breaker.half_open_limit": DefaultStoreCircuitHalfOpenLimit,

		"quotes.case_sensitive": false,
		"quotes.get_no_prefix":  false,
		"quotes.import_workers": DefaultImportWorkers,
	}
}

// Load builds the configuration for profile. Later layers win:
//
//	defaults < configs/base.yaml < configs/<profile>.yaml < APP_* environment
//
// Missing files are skipped.
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	files := []string{filepath.Join(configDir, "base.yaml")}
	if profile != "" {
		files = append(files, filepath.Join(configDir, profile+".yaml"))
	}

	for _, path := range files {
		if err := loadFileIfExists(k, path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("APP_", ".", envKeyMapper(k.Keys())), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKeyMapper maps APP_STORE_MONGO_URL to store.mongo.url. Because key segments
// may contain underscores themselves (quotes.case_sensitive), a variable is first
// matched against the keys already loaded; unknown variables fall back to
// treating every underscore as a separator.
func envKeyMapper(known []string) func(string) string {
	flat := make(map[string]string, len(known))
	for _, key := range known {
		flat[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(s string) string {
		name := strings.ToLower(strings.TrimPrefix(s, "APP_"))
		if key, ok := flat[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "_", ".")
	}
}

// loadFileIfExists merges the YAML file at path when there is one.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
