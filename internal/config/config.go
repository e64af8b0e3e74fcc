// Package config provides configuration loading and validation for the CLIs.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/wpss-validators/internal/feed"
	"github.com/jonathan/wpss-validators/internal/schemas"
	schemafiles "github.com/jonathan/wpss-validators/schemas"
)

// DefaultFeedURL is validated when the feed validator is given no argument.
const DefaultFeedURL = "http://www.intertwingly.net/blog/index.atom"

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Feed validator
	FeedURL   string `json:"feed_url,omitempty" validate:"omitempty,url"` // Feed validated when no argument is given
	Level     string `json:"level,omitempty" validate:"omitempty,oneof=A AA AAA"`
	UserAgent string `json:"user_agent,omitempty"`
	Timeout   string `json:"timeout,omitempty"` // Go duration, e.g. "30s"

	// Schema validator
	MaxErrors int    `json:"max_errors,omitempty" validate:"gte=0"`
	Engine    string `json:"engine,omitempty" validate:"omitempty,oneof=santhosh gojsonschema"`

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Log diagnostics to stderr
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		FeedURL: DefaultFeedURL,
		Level:   feed.DefaultLevel,
		Timeout: "30s",
		Engine:  schemas.DefaultEngine,
	}
}

// SchemaFile is the on-disk config schema. It takes precedence over the
// embedded copy when found from the working directory.
const SchemaFile = "schemas/config.schema.json"

// LoadConfig loads configuration from a JSON file and checks it against
// the config schema.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := validateAgainstSchema(path, data); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

func validateAgainstSchema(path string, data []byte) error {
	if schemaPath := schemas.ResolveSchemaPath(SchemaFile); schemaPath != "" {
		return schemas.ValidateJSON(schemaPath, path)
	}
	return schemas.ValidateJSONString(string(schemafiles.ConfigSchema), string(data))
}

// Load resolves the effective configuration: environment variables override
// the config file at path (skipped when empty), which overrides Defaults.
func Load(path string) (*Config, error) {
	fileCfg := &Config{}
	if path != "" {
		var err error
		fileCfg, err = LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	envCfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	merged := envCfg.MergeWithDefaults(*fileCfg)
	merged = merged.MergeWithDefaults(Defaults())
	merged.Verbose = envCfg.Verbose || fileCfg.Verbose

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.Timeout != "" {
		if _, err := c.TimeoutDuration(); err != nil {
			return fmt.Errorf("config error: 'timeout' %w", err)
		}
	}
	return nil
}

// TimeoutDuration parses Timeout; an empty value yields zero.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("must be a duration: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative: %s", c.Timeout)
	}
	return d, nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.FeedURL == "" {
		result.FeedURL = defaults.FeedURL
	}
	if result.Level == "" {
		result.Level = defaults.Level
	}
	if result.UserAgent == "" {
		result.UserAgent = defaults.UserAgent
	}
	if result.Timeout == "" {
		result.Timeout = defaults.Timeout
	}
	if result.Engine == "" {
		result.Engine = defaults.Engine
	}
	if result.MaxErrors == 0 {
		result.MaxErrors = defaults.MaxErrors
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge

	return result
}
