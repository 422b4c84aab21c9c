package insert2merge

import (
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/shibukawa/insert2merge/merge"
)

// Environment variables overriding the merge options of the config file
const (
	EnvTargetAlias = "INSERT2MERGE_TARGET_ALIAS"
	EnvSourceAlias = "INSERT2MERGE_SOURCE_ALIAS"
	EnvCommitEvery = "INSERT2MERGE_COMMIT_EVERY"
	EnvDatabase    = "INSERT2MERGE_DATABASE"
)

// Config represents the insert2merge configuration
type Config struct {
	Merge MergeConfig `yaml:"merge"`
	// Format runs the SQL formatter on generated statements. Pointer to
	// distinguish between unset and false; unset means enabled.
	Format *bool `yaml:"format,omitempty"`
	// Keys lists the key columns per table.
	Keys map[string][]string `yaml:"keys,omitempty"`
	// Database is a connection URL (postgres://, mysql://, sqlite://) whose
	// primary keys are used for tables missing from Keys.
	Database string `yaml:"database,omitempty"`
}

// MergeConfig represents the MERGE statement options
type MergeConfig struct {
	TargetAlias string `yaml:"target_alias"`
	SourceAlias string `yaml:"source_alias"`
	CommitEvery int    `yaml:"commit_every"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Merge: defaultMergeConfig(),
		Keys:  map[string][]string{},
	}
}

func defaultMergeConfig() MergeConfig {
	return MergeConfig{
		TargetAlias: merge.DefaultTargetAlias,
		SourceAlias: merge.DefaultSourceAlias,
		CommitEvery: merge.DefaultCommitEvery,
	}
}

// LoadConfig loads configuration from the specified file. A missing file
// yields the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	config, err := readConfigFile(configPath)
	if err != nil {
		return nil, err
	}

	expandConfigEnvVars(config)

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	applyDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// readConfigFile parses the file without defaults or validation. A missing
// file yields the default configuration.
func readConfigFile(configPath string) (*Config, error) {
	if !fileExists(configPath) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// ResetConfigFile restores the default merge options in the file at
// configPath, creating it when missing. Other settings are kept, so a file
// with broken merge options can be repaired.
func ResetConfigFile(configPath string) (*Config, error) {
	config, err := readConfigFile(configPath)
	if err != nil {
		return nil, err
	}

	config.Reset()

	if err := SaveConfig(configPath, config); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig writes the configuration as YAML.
func SaveConfig(configPath string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset restores the merge options to their defaults. Keys and the format
// switch are kept.
func (c *Config) Reset() {
	c.Merge = defaultMergeConfig()
}

// MergeOptions returns the options for the MERGE synthesizer.
func (c *Config) MergeOptions() merge.Options {
	return merge.Options{
		TargetAlias: c.Merge.TargetAlias,
		SourceAlias: c.Merge.SourceAlias,
		CommitEvery: c.Merge.CommitEvery,
	}
}

// IsFormatEnabled returns true unless format: false is set
func (c *Config) IsFormatEnabled() bool {
	return c.Format == nil || *c.Format
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if err := config.MergeOptions().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}

	for table, keys := range config.Keys {
		if table == "" {
			return fmt.Errorf("%w: keys: table name is required", ErrConfigValidation)
		}

		if len(keys) == 0 {
			return fmt.Errorf("%w: keys.%s: at least one key column is required", ErrConfigValidation, table)
		}

		for _, key := range keys {
			if key == "" {
				return fmt.Errorf("%w: keys.%s: empty key column", ErrConfigValidation, table)
			}
		}
	}

	return nil
}

// applyDefaults fills unset values
func applyDefaults(config *Config) {
	if config.Merge.TargetAlias == "" {
		config.Merge.TargetAlias = merge.DefaultTargetAlias
	}

	if config.Merge.SourceAlias == "" {
		config.Merge.SourceAlias = merge.DefaultSourceAlias
	}

	if config.Merge.CommitEvery == 0 {
		config.Merge.CommitEvery = merge.DefaultCommitEvery
	}

	if config.Keys == nil {
		config.Keys = map[string][]string{}
	}
}

// applyEnvOverrides replaces merge options set in the environment
func applyEnvOverrides(config *Config) error {
	if value := os.Getenv(EnvTargetAlias); value != "" {
		config.Merge.TargetAlias = value
	}

	if value := os.Getenv(EnvSourceAlias); value != "" {
		config.Merge.SourceAlias = value
	}

	if value := os.Getenv(EnvCommitEvery); value != "" {
		commitEvery, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer, got %q", ErrConfigValidation, EnvCommitEvery, value)
		}

		config.Merge.CommitEvery = commitEvery
	}

	if value := os.Getenv(EnvDatabase); value != "" {
		config.Database = value
	}

	return nil
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	// Try to load .env file from current directory
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvVar  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = expandBracedEnvVars(s)

	s = plainEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:] // Remove $
		return os.Getenv(varName)
	})

	return s
}

// expandBracedEnvVars expands only the ${VAR} form, leaving a bare $ alone
func expandBracedEnvVars(s string) string {
	return bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1] // Remove ${ and }
		return os.Getenv(varName)
	})
}

// expandConfigEnvVars expands environment variables in alias values and the
// database URL. Passwords in URLs may contain $, so only ${VAR} is expanded
// there.
func expandConfigEnvVars(config *Config) {
	config.Merge.TargetAlias = expandEnvVars(config.Merge.TargetAlias)
	config.Merge.SourceAlias = expandEnvVars(config.Merge.SourceAlias)
	config.Database = expandBracedEnvVars(config.Database)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
