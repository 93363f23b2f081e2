// Package config loads the guardian configuration from YAML and the
// environment.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	General  GeneralConfig  `yaml:"general"`
	Helius   HeliusConfig   `yaml:"helius"`
	Rugcheck RugcheckConfig `yaml:"rugcheck"`
	Output   OutputConfig   `yaml:"output"`
}

type GeneralConfig struct {
	InstanceID string `yaml:"instance_id"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"` // json|console
}

type HeliusConfig struct {
	APIKey        string `yaml:"api_key"`
	RPCURL        string `yaml:"rpc_url"`
	APIURL        string `yaml:"api_url"`
	TimeoutSecs   int    `yaml:"timeout_secs"`
	MaxRetries    int    `yaml:"max_retries"`
	TxnFetchLimit int    `yaml:"txn_fetch_limit"`
}

type RugcheckConfig struct {
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

// FromEnv builds a configuration from environment variables only, the
// surface a bare `.env` file provides: HELIUS_API_KEY, RUGCHECK_API_KEY,
// OUTPUT_DIR.
func FromEnv() *Config {
	cfg := &Config{
		Helius:   HeliusConfig{APIKey: os.Getenv("HELIUS_API_KEY")},
		Rugcheck: RugcheckConfig{APIKey: os.Getenv("RUGCHECK_API_KEY")},
		Output:   OutputConfig{Dir: os.Getenv("OUTPUT_DIR")},
	}
	applyDefaults(cfg)
	return cfg
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.Helius.APIKey == "" {
		return fmt.Errorf("helius api key is required (set helius.api_key or HELIUS_API_KEY)")
	}
	if c.Helius.TxnFetchLimit < 0 || c.Helius.TxnFetchLimit > 100 {
		return fmt.Errorf("helius txn_fetch_limit must be in 0..100, got %d", c.Helius.TxnFetchLimit)
	}
	switch c.General.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log_format must be json or console, got %q", c.General.LogFormat)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.General.InstanceID == "" {
		cfg.General.InstanceID = "guardian-1"
	}
	if cfg.General.LogLevel == "" {
		cfg.General.LogLevel = "info"
	}
	if cfg.General.LogFormat == "" {
		cfg.General.LogFormat = "console"
	}
	if cfg.Helius.TimeoutSecs == 0 {
		cfg.Helius.TimeoutSecs = 20
	}
	if cfg.Helius.MaxRetries == 0 {
		cfg.Helius.MaxRetries = 2
	}
	if cfg.Helius.TxnFetchLimit == 0 {
		cfg.Helius.TxnFetchLimit = 100
	}
	if cfg.Rugcheck.TimeoutSecs == 0 {
		cfg.Rugcheck.TimeoutSecs = 20
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "./output"
	}
}
