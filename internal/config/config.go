package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/utils"
)

// CoachConfig selects and tunes the chat coach provider.
type CoachConfig struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxAttempts    int    `yaml:"max_attempts"`
}

// ServerConfig configures the local HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Config is the user-editable settings file.
type Config struct {
	Timezone             string       `yaml:"timezone"`
	MoodWindowDays       int          `yaml:"mood_window_days"`
	CompletionWindowDays int          `yaml:"completion_window_days"`
	Coach                CoachConfig  `yaml:"coach"`
	Server               ServerConfig `yaml:"server"`
}

// Default returns a config with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Timezone == "" {
		c.Timezone = constants.DefaultTimezone
	}
	if c.MoodWindowDays == 0 {
		c.MoodWindowDays = constants.DefaultMoodWindowDays
	}
	if c.CompletionWindowDays == 0 {
		c.CompletionWindowDays = constants.DefaultCompletionWindowDays
	}
	if c.Coach.Provider == "" {
		c.Coach.Provider = constants.DefaultCoachProvider
	}
	if c.Coach.Model == "" {
		c.Coach.Model = constants.DefaultCoachModel
	}
	if c.Coach.TimeoutSeconds == 0 {
		c.Coach.TimeoutSeconds = constants.DefaultCoachTimeout
	}
	if c.Coach.MaxAttempts == 0 {
		c.Coach.MaxAttempts = constants.DefaultCoachAttempts
	}
	if c.Server.Addr == "" {
		c.Server.Addr = constants.DefaultServerAddr
	}
}

// Validate rejects settings the rest of the program cannot work with.
func (c *Config) Validate() error {
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if c.MoodWindowDays < 1 || c.MoodWindowDays > constants.MaxWindowDays {
		return fmt.Errorf("mood_window_days must be between 1 and %d, got %d", constants.MaxWindowDays, c.MoodWindowDays)
	}
	if c.CompletionWindowDays < 1 || c.CompletionWindowDays > constants.MaxWindowDays {
		return fmt.Errorf("completion_window_days must be between 1 and %d, got %d", constants.MaxWindowDays, c.CompletionWindowDays)
	}
	switch c.Coach.Provider {
	case "gemini", "offline":
	default:
		return fmt.Errorf("unknown coach provider %q (want gemini or offline)", c.Coach.Provider)
	}
	if c.Coach.TimeoutSeconds < 1 {
		return fmt.Errorf("coach.timeout_seconds must be positive, got %d", c.Coach.TimeoutSeconds)
	}
	if c.Coach.MaxAttempts < 1 {
		return fmt.Errorf("coach.max_attempts must be at least 1, got %d", c.Coach.MaxAttempts)
	}
	return nil
}

// Load reads the config file at path. A missing file yields defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
