// Package config provides configuration management for the sskr CLI.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Version    int              `yaml:"version"`
	Home       string           `yaml:"home"`
	Encryption EncryptionConfig `yaml:"encryption"`
	Policy     PolicyConfig     `yaml:"policy"`
	Security   SecurityConfig   `yaml:"security"`
	Server     ServerConfig     `yaml:"server"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`

	// Warnings accumulates non-fatal environment-override problems
	// (e.g. an SSKR_RATE_LIMIT value that didn't parse) so the CLI can
	// surface them without failing startup.
	Warnings []string `yaml:"-"`
}

// EncryptionConfig defines the at-rest share-bundle encryption
// settings: passphrase-based age with scrypt key derivation.
type EncryptionConfig struct {
	Method        string `yaml:"method"`
	KeyDerivation string `yaml:"key_derivation"`
}

// PolicyConfig defines the default group-of-groups threshold policy
// used when a CLI invocation doesn't specify one explicitly.
type PolicyConfig struct {
	DefaultGroupThreshold int                `yaml:"default_group_threshold"`
	DefaultGroups         []PolicyGroupEntry `yaml:"default_groups"`
}

// PolicyGroupEntry is one (threshold, count) default group pair.
type PolicyGroupEntry struct {
	Threshold int `yaml:"threshold"`
	Count     int `yaml:"count"`
}

// SecurityConfig defines memory-hygiene settings.
type SecurityConfig struct {
	MemoryLock bool `yaml:"memory_lock"`
}

// ServerConfig defines the optional local enclave-dispatch server's
// rate-limiting settings.
type ServerConfig struct {
	RateLimitPerSecond int `yaml:"rate_limit_per_second"`
	RateLimitBurst     int `yaml:"rate_limit_burst"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// GetHome returns the sskr home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// GetSecurity returns the security configuration.
func (c *Config) GetSecurity() SecurityConfig {
	return c.Security
}

// DefaultHome returns the default sskr home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sskr"
	}
	return filepath.Join(home, ".sskr")
}
