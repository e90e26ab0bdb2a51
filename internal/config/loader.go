package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".phishguard"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file format.
//
// Numeric fields are pointers so an absent key can be distinguished from
// an explicit zero; CLI flags always win over file values.
type File struct {
	// Classifier selects the default ensemble strategy.
	Classifier string `yaml:"classifier,omitempty"`

	// TestFraction overrides the default holdout fraction.
	TestFraction *float64 `yaml:"test_fraction,omitempty"`

	// Seed overrides the default RNG seed.
	Seed *int64 `yaml:"seed,omitempty"`

	// Addr overrides the default web interface listen address.
	Addr string `yaml:"addr,omitempty"`

	// Shorteners replaces the built-in URL shortener domain list used by
	// the is_shortened feature.
	Shorteners []string `yaml:"shorteners,omitempty"`

	// SuspiciousTLDs replaces the built-in suspicious TLD list used by the
	// has_suspicious_tld feature. Entries must include the leading dot.
	SuspiciousTLDs []string `yaml:"suspicious_tlds,omitempty"`
}

// Apply copies file values into the config. Only keys present in the file
// are applied, so defaults and CLI flags for the rest stay intact.
func (f *File) Apply(c *Config) {
	if f == nil {
		return
	}
	if f.Classifier != "" {
		c.Classifier = f.Classifier
	}
	if f.TestFraction != nil {
		c.TestFraction = *f.TestFraction
	}
	if f.Seed != nil {
		c.Seed = *f.Seed
	}
	if f.Addr != "" {
		c.Addr = f.Addr
	}
}

// LoadConfigFile loads configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .phishguard in the current directory
// 3. Look for .phishguard in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
