// Package config provides configuration management for the collector and normalizer.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"llamaworker/internal/models"
)

// DefaultConfigPath is loaded by the binaries when no -config flag is given and the file exists.
const DefaultConfigPath = "configs/worker.yaml"

// Configuration validation errors.
var (
	ErrMissingBaseURL        = errors.New("collector.base_url, yields_url and stablecoins_url are required")
	ErrInvalidTimeout        = errors.New("collector.timeout_sec must be at least 1")
	ErrInvalidMaxBody        = errors.New("collector.max_body_mb must be non-negative")
	ErrMissingDataDir        = errors.New("collector.data_dir is required")
	ErrMissingOutputDir      = errors.New("normalizer.output_dir is required")
	ErrUnknownCategory       = errors.New("normalizer.inputs has an unknown category")
	ErrMissingPostgresDSN    = errors.New("storage.postgres.dsn is required when postgres is enabled")
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat      = errors.New("logging.format must be 'text' or 'json'")
	ErrDuplicateMajorDex     = errors.New("collector.major_dexs contains a duplicate slug")
	ErrEmptyMajorDexEntry    = errors.New("collector.major_dexs contains an empty slug")
	ErrOutputFileOutsideRoot = errors.New("normalizer.outputs must be plain file names")
)

// Config represents the complete worker configuration.
type Config struct {
	Collector  CollectorConfig  `yaml:"collector"`
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// CollectorConfig contains collector-specific settings.
type CollectorConfig struct {
	BaseURL        string   `yaml:"base_url"`
	YieldsURL      string   `yaml:"yields_url"`
	StablecoinsURL string   `yaml:"stablecoins_url"`
	DataDir        string   `yaml:"data_dir"`
	UserAgent      string   `yaml:"user_agent"`
	MajorDexs      []string `yaml:"major_dexs"`
	TimeoutSec     int      `yaml:"timeout_sec"`
	MaxBodyMb      int      `yaml:"max_body_mb"`
}

// NormalizerConfig contains normalizer-specific settings.
type NormalizerConfig struct {
	OutputDir string `yaml:"output_dir"`
	// Inputs maps a category to an explicit raw document path. A missing or empty entry
	// resolves to the newest collector document of that category.
	Inputs map[string]string `yaml:"inputs"`
	// Outputs overrides the output file name of a category inside OutputDir.
	Outputs     map[string]string `yaml:"outputs"`
	PrettyPrint bool              `yaml:"pretty_print"`
}

// StorageConfig contains optional downstream storage settings.
type StorageConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig configures the Postgres record loader.
type PostgresConfig struct {
	DSN     string `yaml:"dsn"`
	Enabled bool   `yaml:"enabled"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultMajorDexs is the list of DEXs whose detail documents are collected.
var DefaultMajorDexs = []string{"uniswap", "sushiswap", "pancakeswap", "balancer", "quickswap"}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Collector: CollectorConfig{
			BaseURL:        "https://api.llama.fi",
			YieldsURL:      "https://yields.llama.fi",
			StablecoinsURL: "https://stablecoins.llama.fi",
			DataDir:        "data",
			MajorDexs:      append([]string(nil), DefaultMajorDexs...),
			TimeoutSec:     30,
			MaxBodyMb:      256,
		},
		Normalizer: NormalizerConfig{
			OutputDir:   filepath.Join("output", "raw"),
			Inputs:      map[string]string{},
			Outputs:     map[string]string{},
			PrettyPrint: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path if given, otherwise DefaultConfigPath if it exists, otherwise the defaults.
// The returned string names the source that was used.
func LoadOrDefault(path string) (*Config, string, error) {
	if path == "" {
		if _, statErr := os.Stat(DefaultConfigPath); statErr != nil {
			return DefaultConfig(), "defaults", nil
		}

		path = DefaultConfigPath
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, path, err
	}

	return cfg, path, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Collector.BaseURL == "" || c.Collector.YieldsURL == "" || c.Collector.StablecoinsURL == "" {
		return ErrMissingBaseURL
	}

	if c.Collector.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Collector.MaxBodyMb < 0 {
		return ErrInvalidMaxBody
	}

	if c.Collector.DataDir == "" {
		return ErrMissingDataDir
	}

	seen := make(map[string]bool, len(c.Collector.MajorDexs))

	for i, slug := range c.Collector.MajorDexs {
		if strings.TrimSpace(slug) == "" {
			return fmt.Errorf("%w: major_dexs[%d]", ErrEmptyMajorDexEntry, i)
		}

		if seen[slug] {
			return fmt.Errorf("%w: %s", ErrDuplicateMajorDex, slug)
		}

		seen[slug] = true
	}

	if c.Normalizer.OutputDir == "" {
		return ErrMissingOutputDir
	}

	for key := range c.Normalizer.Inputs {
		if !models.Category(key).Valid() {
			return fmt.Errorf("%w: %s", ErrUnknownCategory, key)
		}
	}

	for key, name := range c.Normalizer.Outputs {
		if !models.Category(key).Valid() {
			return fmt.Errorf("%w: %s", ErrUnknownCategory, key)
		}

		if name == "" || filepath.Base(name) != name {
			return fmt.Errorf("%w: %s=%q", ErrOutputFileOutsideRoot, key, name)
		}
	}

	if c.Storage.Postgres.Enabled && c.Storage.Postgres.DSN == "" {
		return ErrMissingPostgresDSN
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// GetTimeout returns the HTTP timeout duration.
func (cc *CollectorConfig) GetTimeout() time.Duration {
	return time.Duration(cc.TimeoutSec) * time.Second
}

// GetMaxBodyBytes returns the response body limit in bytes; zero means unlimited.
func (cc *CollectorConfig) GetMaxBodyBytes() int64 {
	return int64(cc.MaxBodyMb) * 1024 * 1024
}

// BaseURLFor returns the host URL serving a category.
func (cc *CollectorConfig) BaseURLFor(base models.APIBase) string {
	switch base {
	case models.APIBaseYields:
		return cc.YieldsURL
	case models.APIBaseStablecoins:
		return cc.StablecoinsURL
	default:
		return cc.BaseURL
	}
}

// GetCategoryDir follows structure: {data_dir}/{group}/{subgroup}.
func (cc *CollectorConfig) GetCategoryDir(group, subgroup string) string {
	return filepath.Join(cc.DataDir, group, subgroup)
}

// GetInputPath returns the configured input path for a category, or "" when it should be resolved.
func (nc *NormalizerConfig) GetInputPath(category models.Category) string {
	return nc.Inputs[string(category)]
}

// GetOutputPath follows structure: {output_dir}/{file}.
func (nc *NormalizerConfig) GetOutputPath(category models.Category) string {
	name := nc.Outputs[string(category)]
	if name == "" {
		name = category.MustInfo().OutputFile
	}

	return filepath.Join(nc.OutputDir, name)
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{API: %s, DataDir: %s, Output: %s, MajorDexs: %d, Postgres: %t}",
		c.Collector.BaseURL,
		c.Collector.DataDir,
		c.Normalizer.OutputDir,
		len(c.Collector.MajorDexs),
		c.Storage.Postgres.Enabled,
	)
}
