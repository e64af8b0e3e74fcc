package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)
	return tmpFile
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvFeedURL, EnvLevel, EnvUserAgent, EnvTimeout, EnvMaxErrors, EnvEngine, EnvVerbose} {
		t.Setenv(name, "")
	}
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	tmpFile := writeConfig(t, `{
		"feed_url": "https://example.com/feed.xml",
		"level": "AAA",
		"timeout": "5s",
		"max_errors": 20,
		"engine": "gojsonschema",
		"verbose": true
	}`)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://example.com/feed.xml", cfg.FeedURL)
	assert.Equal(t, "AAA", cfg.Level)
	assert.Equal(t, "5s", cfg.Timeout)
	assert.Equal(t, 20, cfg.MaxErrors)
	assert.Equal(t, "gojsonschema", cfg.Engine)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := writeConfig(t, `{ invalid json }`)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_SchemaViolation(t *testing.T) {
	tmpFile := writeConfig(t, `{"level": "AAAA", "unknown": 1}`)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid config file")
}

func TestLoadConfig_EmbeddedSchema(t *testing.T) {
	chdir(t, t.TempDir())
	tmpFile := writeConfig(t, `{"engine": "ajv"}`)

	cfg, err := LoadConfig(tmpFile)
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config file")
}

func TestLoadConfig_OnDiskSchemaOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "schemas"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, SchemaFile),
		[]byte(`{"type": "object", "required": ["feed_url"]}`), 0644))
	chdir(t, dir)

	tmpFile := writeConfig(t, `{"level": "A"}`)
	cfg, err := LoadConfig(tmpFile)
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed_url")

	tmpFile = writeConfig(t, `{"feed_url": "http://example.com/feed", "level": "A"}`)
	cfg, err = LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "A", cfg.Level)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative max errors", Config{MaxErrors: -1}},
		{"unknown level", Config{Level: "B"}},
		{"unknown engine", Config{Engine: "ajv"}},
		{"bad feed url", Config{FeedURL: "not a url"}},
		{"bad timeout", Config{Timeout: "soon"}},
		{"negative timeout", Config{Timeout: "-1s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "config error")
		})
	}
}

func TestValidate_Defaults(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "AA", cfg.Level)

	d, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{Level: "A"}

	merged := cfg.MergeWithDefaults(Defaults())
	assert.Equal(t, "A", merged.Level)
	assert.Equal(t, DefaultFeedURL, merged.FeedURL)
	assert.Equal(t, "30s", merged.Timeout)
	assert.Equal(t, "santhosh", merged.Engine)
	assert.Equal(t, 0, merged.MaxErrors)

	// Receiver must be untouched
	assert.Empty(t, cfg.FeedURL)
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLevel, "AAA")
	t.Setenv(EnvMaxErrors, "4")
	t.Setenv(EnvVerbose, "true")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "AAA", cfg.Level)
	assert.Equal(t, 4, cfg.MaxErrors)
	assert.True(t, cfg.Verbose)
	assert.Empty(t, cfg.Engine)
}

func TestFromEnv_InvalidNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvMaxErrors, "four")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvMaxErrors)

	t.Setenv(EnvMaxErrors, "")
	t.Setenv(EnvVerbose, "yes please")
	_, err = FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvVerbose)
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	tmpFile := writeConfig(t, `{"level": "A", "engine": "gojsonschema", "max_errors": 2}`)
	t.Setenv(EnvLevel, "AAA")

	cfg, err := Load(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "AAA", cfg.Level, "environment overrides file")
	assert.Equal(t, "gojsonschema", cfg.Engine, "file overrides defaults")
	assert.Equal(t, 2, cfg.MaxErrors)
	assert.Equal(t, DefaultFeedURL, cfg.FeedURL)
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *cfg)
}

func TestLoad_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvEngine, "ajv")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")
}
