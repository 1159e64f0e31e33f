package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the prediction API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Models   ModelsConfig   `yaml:"models"`
	Ensemble EnsembleConfig `yaml:"ensemble"`
	Limits   LimitsConfig   `yaml:"limits"`
	Cache    CacheConfig    `yaml:"cache"`
	Explain  ExplainConfig  `yaml:"explain"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ModelsConfig holds model artifact settings.
type ModelsConfig struct {
	Dir string `yaml:"dir"` // directory holding the JSON model artifacts
}

// EnsembleConfig holds ensemble combination weights.
// The weights must be positive and sum to 1.
type EnsembleConfig struct {
	MLWeight float64 `yaml:"ml_weight"`
	DLWeight float64 `yaml:"dl_weight"`
}

// LimitsConfig holds request validation bounds.
type LimitsConfig struct {
	MinSymptomChars int `yaml:"min_symptom_chars"`
	MaxSymptomChars int `yaml:"max_symptom_chars"`
	MaxBatchSize    int `yaml:"max_batch_size"`
	MaxTopFeatures  int `yaml:"max_top_features"`
}

// CacheConfig holds the optional prediction cache settings.
// Empty addrs disables caching.
type CacheConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLHours int      `yaml:"ttl_hours"`
}

// ExplainConfig holds the optional condition explainer settings.
// Empty api_key disables the explainer.
type ExplainConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR} and ${VAR:-default}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Models.Dir == "" {
		c.Models.Dir = "models"
	}
	if c.Ensemble.MLWeight == 0 && c.Ensemble.DLWeight == 0 {
		c.Ensemble.MLWeight = 0.6
		c.Ensemble.DLWeight = 0.4
	}
	if c.Limits.MinSymptomChars <= 0 {
		c.Limits.MinSymptomChars = 5
	}
	if c.Limits.MaxSymptomChars <= 0 {
		c.Limits.MaxSymptomChars = 2000
	}
	if c.Limits.MaxBatchSize <= 0 {
		c.Limits.MaxBatchSize = 50
	}
	if c.Limits.MaxTopFeatures <= 0 {
		c.Limits.MaxTopFeatures = 50
	}
	if c.Cache.TTLHours <= 0 {
		c.Cache.TTLHours = 24
	}
	if c.Explain.Model == "" {
		c.Explain.Model = "gpt-4o-mini"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Ensemble.MLWeight <= 0 || c.Ensemble.DLWeight <= 0 {
		return fmt.Errorf("ensemble weights must be positive, got ml=%v dl=%v",
			c.Ensemble.MLWeight, c.Ensemble.DLWeight)
	}
	if sum := c.Ensemble.MLWeight + c.Ensemble.DLWeight; math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("ensemble weights must sum to 1, got %v", sum)
	}
	if c.Limits.MinSymptomChars > c.Limits.MaxSymptomChars {
		return fmt.Errorf("limits.min_symptom_chars (%d) exceeds limits.max_symptom_chars (%d)",
			c.Limits.MinSymptomChars, c.Limits.MaxSymptomChars)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
