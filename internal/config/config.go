// Package config handles jif configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/jif/config.yml.
type Config struct {
	TablePath      string `yaml:"table_path,omitempty"`      // Path to the impact-factor spreadsheet
	RulesPath      string `yaml:"rules_path,omitempty"`      // Optional custom resolver rule set
	FuzzyThreshold int    `yaml:"fuzzy_threshold,omitempty"` // Minimum similarity score (0-100)
	OutputFormat   string `yaml:"output_format,omitempty"`   // Default report format: csv, xlsx, jsonl
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "jif"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"

	// DefaultThreshold is the fuzzy match score floor used when unset.
	DefaultThreshold = 85
	// DefaultFormat is the report format used when unset.
	DefaultFormat = "csv"
)

// ValidFormats lists the supported report format values.
var ValidFormats = []string{"csv", "xlsx", "jsonl"}

// configCache caches the loaded config.
var configCache *Config

// Path returns the path to the config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/jif/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads the configuration file at path.
// Returns a default config (not an error) if the file doesn't exist.
// Environment variables JIF_TABLE, JIF_RULES and JIF_THRESHOLD override
// file values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	cfg.TablePath = ExpandTilde(cfg.TablePath)
	cfg.RulesPath = ExpandTilde(cfg.RulesPath)

	return &cfg, nil
}

// LoadCached loads the config once and reuses it for the process lifetime.
func LoadCached(path string) (*Config, error) {
	if configCache != nil {
		return configCache, nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	configCache = cfg
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		path = Path()
	}
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// applyEnv overlays environment variable overrides.
func applyEnv(cfg *Config) {
	if v := os.Getenv("JIF_TABLE"); v != "" {
		cfg.TablePath = v
	}
	if v := os.Getenv("JIF_RULES"); v != "" {
		cfg.RulesPath = v
	}
	if v := os.Getenv("JIF_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FuzzyThreshold = n
		}
	}
}

// applyDefaults fills unset fields.
func applyDefaults(cfg *Config) {
	if cfg.FuzzyThreshold == 0 {
		cfg.FuzzyThreshold = DefaultThreshold
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = DefaultFormat
	}
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if path == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// ValidateThreshold checks that the fuzzy threshold is in range.
func ValidateThreshold(threshold int) error {
	if threshold < 0 || threshold > 100 {
		return fmt.Errorf("fuzzy threshold must be between 0 and 100, got %d", threshold)
	}
	return nil
}

// ValidateFormat checks that the report format value is supported.
func ValidateFormat(format string) error {
	if format == "" {
		return nil // Empty defaults to csv
	}
	for _, valid := range ValidFormats {
		if format == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q (valid: %s)", format, strings.Join(ValidFormats, ", "))
}

// ValidateTablePath checks that the reference table path exists and is a file.
func ValidateTablePath(path string) error {
	if path == "" {
		return fmt.Errorf("no reference table configured (set table_path or use --table)")
	}
	info, err := os.Stat(ExpandTilde(path))
	if err != nil {
		return fmt.Errorf("reference table does not exist: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("reference table is a directory: %s", path)
	}
	return nil
}
