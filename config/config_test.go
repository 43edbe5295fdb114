package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shrek82/tagcheck/config"
	"github.com/stretchr/testify/require"
)

func writeAndLoad(t *testing.T, content string) (*config.Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tagcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return config.Load(path)
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Setenv("DEBUG", "")
	t.Setenv("SEED_HOST", "cdn.example.com")

	cfg, err := writeAndLoad(t, `
roots: [types, internal/types]
exclude: ["*_test.go"]

schema:
  url: "https://${SEED_HOST}/dev/seed-ci.json"
  timeout: 15s

cache:
  kind: redis
  ttl: 10m
  redis:
    addr: "redis:6379"
    db: 2

check:
  binding_tags: [db, column]
  fail_fast: true
  strict_duplicates: true

logging:
  level: debug
  format: json
`)
	require.NoError(t, err)

	require.Equal(t, []string{"types", "internal/types"}, cfg.Roots)
	require.Equal(t, []string{".go"}, cfg.Extensions)
	require.Equal(t, []string{"*_test.go"}, cfg.Exclude)
	require.Equal(t, "https://cdn.example.com/dev/seed-ci.json", cfg.Schema.URL)
	require.Equal(t, 15*time.Second, cfg.Schema.Timeout)
	require.Equal(t, "redis", cfg.Cache.Kind)
	require.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	require.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	require.Equal(t, 2, cfg.Cache.Redis.DB)
	require.Equal(t, []string{"db", "column"}, cfg.Check.BindingTags)
	require.Equal(t, "json", cfg.Check.SerializationTag)
	require.True(t, cfg.Check.FailFast)
	require.True(t, cfg.Check.StrictDuplicates)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.True(t, cfg.Schema.Configured())
	require.NotNil(t, cfg.Logger())
}

func TestDefault(t *testing.T) {
	t.Setenv("DEBUG", "")
	cfg, err := config.Default()
	require.NoError(t, err)

	require.Equal(t, []string{"types"}, cfg.Roots)
	require.Equal(t, []string{".go"}, cfg.Extensions)
	require.Equal(t, 30*time.Second, cfg.Schema.Timeout)
	require.Equal(t, "none", cfg.Cache.Kind)
	require.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	require.Equal(t, "@ci", cfg.Check.AttributeMarker)
	require.Equal(t, []string{"db"}, cfg.Check.BindingTags)
	require.Equal(t, "json", cfg.Check.SerializationTag)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "text", cfg.Logging.Format)
	require.False(t, cfg.Schema.Configured())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TAGCHECK_ROOTS", "models, types")
	t.Setenv("TAGCHECK_SCHEMA_FILE", "seed.json")
	t.Setenv("TAGCHECK_SCHEMA_TIMEOUT", "5s")
	t.Setenv("TAGCHECK_CACHE_KIND", "file")
	t.Setenv("TAGCHECK_FAIL_FAST", "yes")
	t.Setenv("DEBUG", "true")

	cfg, err := writeAndLoad(t, `
roots: [ignored]
schema:
  timeout: 1m
cache:
  kind: memory
logging:
  level: error
`)
	require.NoError(t, err)
	require.Equal(t, []string{"models", "types"}, cfg.Roots)
	require.Equal(t, "seed.json", cfg.Schema.File)
	require.Equal(t, 5*time.Second, cfg.Schema.Timeout)
	require.Equal(t, "file", cfg.Cache.Kind)
	require.True(t, cfg.Check.FailFast)
	require.Equal(t, "debug", cfg.Logging.Level)

	t.Run("BadDuration", func(t *testing.T) {
		t.Setenv("TAGCHECK_CACHE_TTL", "soon")
		_, err := config.Default()
		require.Error(t, err)
	})
}

func TestLoadWithFallback(t *testing.T) {
	t.Setenv("DEBUG", "")

	cfg, err := config.LoadWithFallback(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, []string{"types"}, cfg.Roots)

	path := filepath.Join(t.TempDir(), "tagcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roots: [models]\n"), 0o644))
	cfg, err = config.LoadWithFallback(path)
	require.NoError(t, err)
	require.Equal(t, []string{"models"}, cfg.Roots)
}

func TestValidation(t *testing.T) {
	t.Setenv("DEBUG", "")

	tests := []struct {
		name    string
		content string
	}{
		{"TwoSources", "schema:\n  url: https://example.com/seed.json\n  file: seed.json\n"},
		{"BadURL", "schema:\n  url: not-a-url\n"},
		{"UnknownDriver", "schema:\n  driver: oracle\n  dsn: x\n"},
		{"DriverWithoutDSN", "schema:\n  driver: postgres\n"},
		{"BadSecretColumn", "schema:\n  file: seed.json\n  secret_columns: [api_token]\n"},
		{"BadCacheKind", "cache:\n  kind: memcached\n"},
		{"BadLevel", "logging:\n  level: loud\n"},
		{"BadFormat", "logging:\n  format: xml\n"},
		{"MarkerWithSpace", "check:\n  attribute_marker: \"@ ci\"\n"},
		{"NegativeTimeout", "schema:\n  timeout: -1s\n"},
		{"BadYAML", "roots: [unclosed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := writeAndLoad(t, tt.content)
			require.Error(t, err)
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
