// Package config loads tagcheck settings from YAML with TAGCHECK_*
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shrek82/tagcheck/dialect"
	"github.com/shrek82/tagcheck/logger"
	"github.com/shrek82/tagcheck/validator"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "tagcheck.yaml"

// Config is the root configuration.
type Config struct {
	Roots      []string      `yaml:"roots"`      // Directories scanned for declarations
	Extensions []string      `yaml:"extensions"` // File extensions parsed, e.g. ".go"
	Exclude    []string      `yaml:"exclude"`    // Glob patterns skipped while walking
	Schema     SchemaConfig  `yaml:"schema"`
	Cache      CacheConfig   `yaml:"cache"`
	Check      CheckConfig   `yaml:"check"`
	Logging    LoggingConfig `yaml:"logging"`
}

// SchemaConfig selects where schema columns come from. At most one of
// URL, File and Driver may be set.
type SchemaConfig struct {
	URL           string        `yaml:"url"`
	File          string        `yaml:"file"`
	Driver        string        `yaml:"driver"`
	DSN           string        `yaml:"dsn"`
	Tables        []string      `yaml:"tables"`         // Limit introspection to these tables
	SecretColumns []string      `yaml:"secret_columns"` // table.column entries marked secret on introspection
	Timeout       time.Duration `yaml:"timeout"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
}

// Configured reports whether any schema source is set.
func (s SchemaConfig) Configured() bool {
	return s.URL != "" || s.File != "" || s.Driver != ""
}

// CacheConfig configures the schema cache.
type CacheConfig struct {
	Kind  string        `yaml:"kind"` // none, memory, file or redis
	TTL   time.Duration `yaml:"ttl"`
	Dir   string        `yaml:"dir"`
	Redis RedisConfig   `yaml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CheckConfig tunes the consistency checker.
type CheckConfig struct {
	AttributeMarker  string   `yaml:"attribute_marker"`
	BindingTags      []string `yaml:"binding_tags"`
	SerializationTag string   `yaml:"serialization_tag"`
	FailFast         bool     `yaml:"fail_fast"`
	StrictDuplicates bool     `yaml:"strict_duplicates"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error, silent
	Format string `yaml:"format"` // text or json
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return finish(&cfg)
}

// Default returns the built-in configuration with environment overrides applied.
func Default() (*Config, error) {
	return finish(&Config{})
}

// LoadWithFallback loads path when it exists and falls back to Default otherwise.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default()
}

func finish(cfg *Config) (*Config, error) {
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	setDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies TAGCHECK_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TAGCHECK_ROOTS"); v != "" {
		cfg.Roots = splitList(v)
	}
	if v := os.Getenv("TAGCHECK_EXCLUDE"); v != "" {
		cfg.Exclude = splitList(v)
	}

	// Schema source
	if v := os.Getenv("TAGCHECK_SCHEMA_URL"); v != "" {
		cfg.Schema.URL = v
	}
	if v := os.Getenv("TAGCHECK_SCHEMA_FILE"); v != "" {
		cfg.Schema.File = v
	}
	if v := os.Getenv("TAGCHECK_SCHEMA_DRIVER"); v != "" {
		cfg.Schema.Driver = v
	}
	if v := os.Getenv("TAGCHECK_SCHEMA_DSN"); v != "" {
		cfg.Schema.DSN = v
	}
	if v := os.Getenv("TAGCHECK_SCHEMA_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TAGCHECK_SCHEMA_TIMEOUT: %w", err)
		}
		cfg.Schema.Timeout = d
	}

	// Cache
	if v := os.Getenv("TAGCHECK_CACHE_KIND"); v != "" {
		cfg.Cache.Kind = v
	}
	if v := os.Getenv("TAGCHECK_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TAGCHECK_CACHE_TTL: %w", err)
		}
		cfg.Cache.TTL = d
	}
	if v := os.Getenv("TAGCHECK_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("TAGCHECK_REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
	}
	if v := os.Getenv("TAGCHECK_REDIS_PASSWORD"); v != "" {
		cfg.Cache.Redis.Password = v
	}
	if v := os.Getenv("TAGCHECK_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TAGCHECK_REDIS_DB: %w", err)
		}
		cfg.Cache.Redis.DB = n
	}

	// Checker
	if v := os.Getenv("TAGCHECK_FAIL_FAST"); v != "" {
		cfg.Check.FailFast = parseBool(v)
	}
	if v := os.Getenv("TAGCHECK_STRICT_DUPLICATES"); v != "" {
		cfg.Check.StrictDuplicates = parseBool(v)
	}

	// Logging
	if v := os.Getenv("TAGCHECK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TAGCHECK_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if logger.DebugEnabled() {
		cfg.Logging.Level = "debug"
	}
	return nil
}

func splitList(v string) []string {
	var res []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}

func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if len(cfg.Roots) == 0 {
		cfg.Roots = []string{"types"}
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".go"}
	}

	if cfg.Schema.Timeout == 0 {
		cfg.Schema.Timeout = 30 * time.Second
	}
	if cfg.Schema.SlowThreshold == 0 {
		cfg.Schema.SlowThreshold = 2 * time.Second
	}

	if cfg.Cache.Kind == "" {
		cfg.Cache.Kind = "none"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 5 * time.Minute
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = ".tagcheck-cache"
	}
	if cfg.Cache.Redis.Addr == "" {
		cfg.Cache.Redis.Addr = "localhost:6379"
	}

	if cfg.Check.AttributeMarker == "" {
		cfg.Check.AttributeMarker = "@ci"
	}
	if len(cfg.Check.BindingTags) == 0 {
		cfg.Check.BindingTags = []string{"db"}
	}
	if cfg.Check.SerializationTag == "" {
		cfg.Check.SerializationTag = "json"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

func validate(cfg *Config) error {
	errs := make(validator.ValidationErrors)

	sources := 0
	for _, s := range []string{cfg.Schema.URL, cfg.Schema.File, cfg.Schema.Driver} {
		if s != "" {
			sources++
		}
	}
	if sources > 1 {
		errs["schema"] = append(errs["schema"], fmt.Errorf("only one of url, file and driver may be set"))
	}

	errs.Add("schema.url", cfg.Schema.URL, validator.URL.Optional())
	if cfg.Schema.Driver != "" {
		drivers := make([]any, 0)
		for _, name := range dialect.Names() {
			drivers = append(drivers, name)
		}
		errs.Add("schema.driver", cfg.Schema.Driver, validator.In(drivers...))
		errs.Add("schema.dsn", cfg.Schema.DSN, validator.Required.Msg("is required when schema.driver is set"))
	}
	for i, sc := range cfg.Schema.SecretColumns {
		errs.Add(fmt.Sprintf("schema.secret_columns[%d]", i), sc,
			validator.Regexp(`^[A-Za-z_][A-Za-z0-9_]*\.[A-Za-z_][A-Za-z0-9_]*$`).Msg("must be table.column"))
	}
	errs.Add("schema.timeout", cfg.Schema.Timeout, validator.Positive)

	errs.Add("cache.kind", cfg.Cache.Kind, validator.In("none", "memory", "file", "redis"))
	errs.Add("cache.ttl", cfg.Cache.TTL, validator.Positive)

	errs.Add("check.attribute_marker", cfg.Check.AttributeMarker, validator.Regexp(`^\S+$`).Msg("must not contain whitespace"))
	for i, tag := range cfg.Check.BindingTags {
		errs.Add(fmt.Sprintf("check.binding_tags[%d]", i), tag, validator.Required, validator.Regexp(`^[A-Za-z_][A-Za-z0-9_.-]*$`))
	}
	errs.Add("check.serialization_tag", cfg.Check.SerializationTag, validator.Regexp(`^[A-Za-z_][A-Za-z0-9_.-]*$`))

	errs.Add("logging.level", cfg.Logging.Level, validator.In("debug", "info", "warn", "error", "silent"))
	errs.Add("logging.format", cfg.Logging.Format, validator.In("text", "json"))

	return errs.Err()
}

// Logger builds the logger described by the logging section.
func (c *Config) Logger() logger.Logger {
	l := logger.NewStdLogger()
	if level, err := logger.ParseLevel(c.Logging.Level); err == nil {
		l.SetLevel(level)
	}
	if c.Logging.Format == "json" {
		l.SetFormat(logger.LogFormatJSON)
	}
	return l
}
