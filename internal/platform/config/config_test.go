package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests run from the package directory, which has no configs/ folder, so Load
// sees only defaults and the environment unless a test changes directory.

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, AppConfig{Name: "quotebook", Version: "dev", Environment: "local"}, cfg.App)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, int64(DefaultMaxRequestSize), cfg.Server.MaxRequestSize)
	assert.True(t, cfg.Server.RateLimit.Enabled)
	assert.InEpsilon(t, DefaultRateLimitPerSecond, cfg.Server.RateLimit.RequestsPerSecond, 1e-9)
	assert.Equal(t, DefaultRateLimitBurst, cfg.Server.RateLimit.Burst)

	assert.Equal(t, LogConfig{
		Level:  "info",
		Format: "json",
		File: LogFileConfig{
			Path:       "./logs/quotebook.log",
			MaxSizeMB:  DefaultLogFileMaxSizeMB,
			MaxBackups: DefaultLogFileMaxBackups,
			MaxAgeDays: DefaultLogFileMaxAgeDays,
			Compress:   true,
		},
	}, cfg.Log)

	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, 10*time.Second, cfg.Store.Mongo.ConnectTimeout)
	assert.Equal(t, RetryConfig{
		MaxAttempts:     DefaultStoreRetryMaxAttempts,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      DefaultStoreRetryMultiplier,
		JitterFactor:    DefaultStoreRetryJitterFactor,
	}, cfg.Store.Retry)
	assert.Equal(t, CircuitBreakerConfig{
		MaxFailures:   DefaultStoreCircuitMaxFailures,
		Timeout:       30 * time.Second,
		HalfOpenLimit: DefaultStoreCircuitHalfOpenLimit,
	}, cfg.Store.CircuitBreaker)

	assert.False(t, cfg.Quotes.CaseSensitive)
	assert.False(t, cfg.Quotes.GetNoPrefix)
	assert.Equal(t, DefaultImportWorkers, cfg.Quotes.ImportWorkers)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_LOG_LEVEL", "warn")
	t.Setenv("APP_STORE_DRIVER", "mongo")
	t.Setenv("APP_QUOTES_CASE_SENSITIVE", "true")
	t.Setenv("APP_QUOTES_GET_NO_PREFIX", "true")
	t.Setenv("APP_STORE_MONGO_CONNECT_TIMEOUT", "3s")
	t.Setenv("APP_SERVER_RATE_LIMIT_BURST", "7")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.True(t, cfg.Quotes.CaseSensitive)
	assert.True(t, cfg.Quotes.GetNoPrefix)
	assert.Equal(t, 3*time.Second, cfg.Store.Mongo.ConnectTimeout)
	assert.Equal(t, 7, cfg.Server.RateLimit.Burst)
}

func TestLoad_ProfileLayering(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, configDir), 0o755))

	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, configDir, name), []byte(body), 0o600))
	}

	write("base.yaml", "log:\n  level: debug\nquotes:\n  import_workers: 2\n")
	write("qa.yaml", `log:
  level: warn
quotes:
  communities:
    guild-1:
      case_sensitive: true
`)

	t.Chdir(dir)
	t.Setenv("APP_QUOTES_IMPORT_WORKERS", "8")

	cfg, err := Load("qa")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Quotes.ImportWorkers)
	require.Contains(t, cfg.Quotes.Communities, "guild-1")
	require.NotNil(t, cfg.Quotes.Communities["guild-1"].CaseSensitive)
	assert.True(t, *cfg.Quotes.Communities["guild-1"].CaseSensitive)
	assert.Nil(t, cfg.Quotes.Communities["guild-1"].GetNoPrefix)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, configDir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, configDir, "base.yaml"), []byte("log: [unclosed\n"), 0o600))

	t.Chdir(dir)

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base.yaml")
}

func TestLoad_MissingProfile(t *testing.T) {
	cfg, err := Load("nonexistent")
	require.NoError(t, err)

	assert.Equal(t, "quotebook", cfg.App.Name)
}

func TestEnvKeyMapper(t *testing.T) {
	mapper := envKeyMapper([]string{"quotes.case_sensitive", "server.port"})

	tests := map[string]string{
		"APP_QUOTES_CASE_SENSITIVE":  "quotes.case_sensitive",
		"APP_SERVER_PORT":            "server.port",
		"APP_QUOTES_COMMUNITIES_ABC": "quotes.communities.abc",
	}

	for env, want := range tests {
		assert.Equal(t, want, mapper(env), env)
	}
}
