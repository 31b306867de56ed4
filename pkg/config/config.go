// Package config loads scorer configuration from YAML with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration values exported for documentation and validation
const (
	DefaultModel        = "gpt-4o-mini"
	DefaultBaseURL      = "https://api.openai.com/v1"
	DefaultAPIKeyEnv    = "OPENAI_API_KEY"
	DefaultCriteriaFile = "criteria.yaml"
	DefaultOutputDir    = "reports"
	DefaultLogDir       = "logs"
	DefaultMaxSteps     = 30
)

// Config holds the complete scorer configuration
type Config struct {
	Model    ModelConfig    `yaml:"model"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Criteria CriteriaConfig `yaml:"criteria"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ModelConfig defines the model and provider endpoint
type ModelConfig struct {
	Name             string        `yaml:"name"`
	BaseURL          string        `yaml:"base_url"`
	APIKeyEnv        string        `yaml:"api_key_env"`
	MaxSteps         int           `yaml:"max_steps"`
	Temperature      float64       `yaml:"temperature"`
	CriterionTimeout time.Duration `yaml:"criterion_timeout"` // 0 = no timeout
}

// PricingConfig points at the pricing table file
type PricingConfig struct {
	File string `yaml:"file"` // empty = built-in default pricing
}

// CriteriaConfig points at the rubric file
type CriteriaConfig struct {
	File string `yaml:"file"`
}

// OutputConfig controls report destinations
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Console bool   `yaml:"console"`
}

// LoggingConfig controls the JSONL event log
type LoggingConfig struct {
	Dir      string `yaml:"dir"`
	MinLevel string `yaml:"min_level"` // debug, info, warn, error
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Name:        DefaultModel,
			BaseURL:     DefaultBaseURL,
			APIKeyEnv:   DefaultAPIKeyEnv,
			MaxSteps:    DefaultMaxSteps,
			Temperature: 0,
		},
		Criteria: CriteriaConfig{
			File: DefaultCriteriaFile,
		},
		Output: OutputConfig{
			Dir:     DefaultOutputDir,
			Console: true,
		},
		Logging: LoggingConfig{
			Dir:      DefaultLogDir,
			MinLevel: "info",
		},
	}
}

// Load reads configuration from path, merged over defaults, with env
// overrides applied last. An empty path skips the file and uses defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// APIKey resolves the provider API key from the configured env var.
func (c *Config) APIKey() (string, error) {
	key := os.Getenv(c.Model.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s environment variable is not set", c.Model.APIKeyEnv)
	}
	return key, nil
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.Model.Name == "" {
		return fmt.Errorf("model.name must not be empty")
	}
	if c.Model.APIKeyEnv == "" {
		return fmt.Errorf("model.api_key_env must not be empty")
	}
	if c.Model.MaxSteps <= 0 {
		return fmt.Errorf("model.max_steps must be positive, got %d", c.Model.MaxSteps)
	}
	if c.Model.CriterionTimeout < 0 {
		return fmt.Errorf("model.criterion_timeout must not be negative")
	}
	if c.Criteria.File == "" {
		return fmt.Errorf("criteria.file must not be empty")
	}
	switch c.Logging.MinLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.min_level must be one of debug, info, warn, error; got %q", c.Logging.MinLevel)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCORER_MODEL"); v != "" {
		cfg.Model.Name = v
	}
	if v := os.Getenv("SCORER_BASE_URL"); v != "" {
		cfg.Model.BaseURL = v
	}
	if v := os.Getenv("SCORER_API_KEY_ENV"); v != "" {
		cfg.Model.APIKeyEnv = v
	}
	if v := strings.TrimSpace(os.Getenv("SCORER_MAX_STEPS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Model.MaxSteps = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SCORER_CRITERION_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Model.CriterionTimeout = d
		}
	}
	if v := os.Getenv("SCORER_PRICING_FILE"); v != "" {
		cfg.Pricing.File = v
	}
	if v := os.Getenv("SCORER_CRITERIA_FILE"); v != "" {
		cfg.Criteria.File = v
	}
	if v := os.Getenv("SCORER_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("SCORER_LOG_DIR"); v != "" {
		cfg.Logging.Dir = v
	}
	if v := os.Getenv("SCORER_LOG_LEVEL"); v != "" {
		cfg.Logging.MinLevel = v
	}
}
