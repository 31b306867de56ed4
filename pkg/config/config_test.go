package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, cfg.Model.Name)
	assert.Equal(t, DefaultBaseURL, cfg.Model.BaseURL)
	assert.Equal(t, DefaultMaxSteps, cfg.Model.MaxSteps)
	assert.Equal(t, time.Duration(0), cfg.Model.CriterionTimeout)
	assert.Equal(t, DefaultCriteriaFile, cfg.Criteria.File)
	assert.Empty(t, cfg.Pricing.File)
	assert.True(t, cfg.Output.Console)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
model:
  name: gpt-4o
  max_steps: 15
  criterion_timeout: 5m
pricing:
  file: prices.yaml
criteria:
  file: rubric.yaml
logging:
  min_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.Model.Name)
	assert.Equal(t, 15, cfg.Model.MaxSteps)
	assert.Equal(t, 5*time.Minute, cfg.Model.CriterionTimeout)
	assert.Equal(t, "prices.yaml", cfg.Pricing.File)
	assert.Equal(t, "rubric.yaml", cfg.Criteria.File)
	assert.Equal(t, "debug", cfg.Logging.MinLevel)

	// unset fields keep defaults
	assert.Equal(t, DefaultBaseURL, cfg.Model.BaseURL)
	assert.Equal(t, DefaultOutputDir, cfg.Output.Dir)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SCORER_MODEL", "gpt-5")
	t.Setenv("SCORER_MAX_STEPS", "7")
	t.Setenv("SCORER_CRITERION_TIMEOUT", "90s")
	t.Setenv("SCORER_PRICING_FILE", "/etc/prices.yaml")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gpt-5", cfg.Model.Name)
	assert.Equal(t, 7, cfg.Model.MaxSteps)
	assert.Equal(t, 90*time.Second, cfg.Model.CriterionTimeout)
	assert.Equal(t, "/etc/prices.yaml", cfg.Pricing.File)
}

func TestValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model.MaxSteps = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Logging.MinLevel = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Criteria.File = ""
	assert.Error(t, cfg.Validate())

	assert.NoError(t, DefaultConfig().Validate())
}

func TestAPIKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model.APIKeyEnv = "SCORER_TEST_KEY"

	_, err := cfg.APIKey()
	require.Error(t, err)

	t.Setenv("SCORER_TEST_KEY", "sk-test")
	key, err := cfg.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", key)
}
