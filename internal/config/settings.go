package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Settings is the user configuration for sweeper, read from config.yaml in
// ConfigDir and SWEEPER_* environment variables.
type Settings struct {
	RulesFile   string        `mapstructure:"rules_file"`
	AuditLog    string        `mapstructure:"audit_log"`
	MetricsFile string        `mapstructure:"metrics_file"`
	Workers     int           `mapstructure:"workers"`
	Whitelist   []string      `mapstructure:"whitelist"`
	Roots       RootOverrides `mapstructure:"roots"`
	Log         LogSettings   `mapstructure:"log"`
}

// RootOverrides replaces discovered roots when set.
type RootOverrides struct {
	Local  string `mapstructure:"local"`
	System string `mapstructure:"system"`
}

// LogSettings configures the diagnostic logger.
type LogSettings struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // text, json
	Output     string `mapstructure:"output"` // stderr, stdout, or a file path
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// ConfigDir returns the directory holding config.yaml and rules.yaml.
func ConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "sweeper")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "sweeper")
	}
	return ".sweeper"
}

// NewViper returns a viper instance with sweeper's defaults and environment
// binding applied. Callers may bind command-line flags before LoadSettings.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("rules_file", filepath.Join(ConfigDir(), "rules.yaml"))
	v.SetDefault("audit_log", "")
	v.SetDefault("metrics_file", "")
	v.SetDefault("workers", 1)
	v.SetDefault("whitelist", []string{})
	v.SetDefault("roots.local", "")
	v.SetDefault("roots.system", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetEnvPrefix("SWEEPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadSettings reads configFile (or config.yaml from ConfigDir when empty)
// into Settings. A missing default config file is not an error; a missing
// explicitly named one is.
func LoadSettings(v *viper.Viper, configFile string) (*Settings, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if errs := s.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid settings: %w", errors.Join(errs...))
	}
	return &s, nil
}

// Validate checks the settings and returns every problem found.
func (s *Settings) Validate() []error {
	var errs []error

	if s.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1 (got %d)", s.Workers))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.Log.Level)] {
		errs = append(errs, fmt.Errorf("invalid log.level: %s (expected: debug, info, warn, error)", s.Log.Level))
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(s.Log.Format)] {
		errs = append(errs, fmt.Errorf("invalid log.format: %s (expected: json, text)", s.Log.Format))
	}

	if s.Log.Output == "" {
		errs = append(errs, fmt.Errorf("log.output is required"))
	}

	for _, p := range s.Whitelist {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Errorf("whitelist contains an empty pattern"))
			break
		}
	}

	return errs
}

// AuditLogPath returns the configured audit log, or the default for roots.
func (s *Settings) AuditLogPath(r PathRoots) string {
	if s.AuditLog != "" {
		return s.AuditLog
	}
	return r.AuditLogPath()
}
