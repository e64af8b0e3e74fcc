package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by FromEnv.
const (
	EnvFeedURL   = "VALIDATOR_FEED_URL"
	EnvLevel     = "VALIDATOR_LEVEL"
	EnvUserAgent = "VALIDATOR_USER_AGENT"
	EnvTimeout   = "VALIDATOR_TIMEOUT"
	EnvMaxErrors = "VALIDATOR_MAX_ERRORS"
	EnvEngine    = "VALIDATOR_ENGINE"
	EnvVerbose   = "VALIDATOR_VERBOSE"
)

// FromEnv builds a Config from VALIDATOR_* environment variables. Unset
// variables leave the field empty.
func FromEnv() (*Config, error) {
	cfg := &Config{
		FeedURL:   os.Getenv(EnvFeedURL),
		Level:     os.Getenv(EnvLevel),
		UserAgent: os.Getenv(EnvUserAgent),
		Timeout:   os.Getenv(EnvTimeout),
		Engine:    os.Getenv(EnvEngine),
	}

	if v := os.Getenv(EnvMaxErrors); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %v", EnvMaxErrors, err)
		}
		cfg.MaxErrors = n
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %v", EnvVerbose, err)
		}
		cfg.Verbose = b
	}

	return cfg, nil
}
