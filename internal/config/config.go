// Package config provides configuration loading and management for plantops.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete plantops configuration
type Config struct {
	Database      DatabaseConfig      `yaml:"database"`
	Optimizer     OptimizerConfig     `yaml:"optimizer"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Server        ServerConfig        `yaml:"server"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// DatabaseConfig configures the SQLite store
type DatabaseConfig struct {
	// Path is the database file (empty = ~/.plantops/plantops.db)
	Path string `yaml:"path"`
}

// OptimizerConfig configures the daily assignment run
type OptimizerConfig struct {
	// CapacityCeiling is the maximum open tasks per engineer per day (default: 8)
	CapacityCeiling int `yaml:"capacity_ceiling"`
	// MinScore is the exclusive score threshold for an assignment (default: 0.4)
	MinScore float64 `yaml:"min_score"`
	// LookbackDays is how far before the reference date tasks are considered
	LookbackDays int `yaml:"lookback_days"`
	// LookaheadDays is how far after the reference date tasks are considered
	LookaheadDays int `yaml:"lookahead_days"`
	// RunTimeout bounds a single run
	RunTimeout time.Duration `yaml:"run_timeout"`
	// NotifyDrainTimeout bounds the wait for in-flight notifications at the end of a run
	NotifyDrainTimeout time.Duration `yaml:"notify_drain_timeout"`
}

// NotificationsConfig configures notification delivery
type NotificationsConfig struct {
	// NATSURL enables the NATS publisher when non-empty
	NATSURL string `yaml:"nats_url"`
	// SubjectPrefix is prepended to the notification type to form the subject
	SubjectPrefix string `yaml:"subject_prefix"`
	// Log writes every notification to the structured log
	Log bool `yaml:"log"`
}

// ServerConfig configures `plantops serve`
type ServerConfig struct {
	// Addr is the HTTP listen address
	Addr string `yaml:"addr"`
	// Schedule is the cron expression for the daily run
	Schedule string `yaml:"schedule"`
}

// LoggingConfig configures the structured logger
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
	// Format is text or json
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // ~/.plantops/plantops.db
		},
		Optimizer: OptimizerConfig{
			CapacityCeiling:    8,
			MinScore:           0.4,
			LookbackDays:       30,
			LookaheadDays:      7,
			RunTimeout:         5 * time.Minute,
			NotifyDrainTimeout: 10 * time.Second,
		},
		Notifications: NotificationsConfig{
			NATSURL:       "",
			SubjectPrefix: "plantops.notifications",
			Log:           true,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			Schedule: "0 6 * * *",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Optimizer.CapacityCeiling <= 0 {
		return fmt.Errorf("optimizer.capacity_ceiling must be positive")
	}
	if c.Optimizer.MinScore < 0 || c.Optimizer.MinScore >= 1 {
		return fmt.Errorf("optimizer.min_score must be in [0, 1)")
	}
	if c.Optimizer.LookbackDays < 0 || c.Optimizer.LookaheadDays < 0 {
		return fmt.Errorf("optimizer window days must not be negative")
	}
	if c.Optimizer.RunTimeout <= 0 {
		return fmt.Errorf("optimizer.run_timeout must be positive")
	}
	if c.Notifications.SubjectPrefix == "" {
		return fmt.Errorf("notifications.subject_prefix is required")
	}
	if c.Server.Schedule == "" {
		return fmt.Errorf("server.schedule is required")
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Database.Path != "" {
		c.Database.Path = other.Database.Path
	}

	if other.Optimizer.CapacityCeiling != 0 {
		c.Optimizer.CapacityCeiling = other.Optimizer.CapacityCeiling
	}
	if other.Optimizer.MinScore != 0 {
		c.Optimizer.MinScore = other.Optimizer.MinScore
	}
	if other.Optimizer.LookbackDays != 0 {
		c.Optimizer.LookbackDays = other.Optimizer.LookbackDays
	}
	if other.Optimizer.LookaheadDays != 0 {
		c.Optimizer.LookaheadDays = other.Optimizer.LookaheadDays
	}
	if other.Optimizer.RunTimeout != 0 {
		c.Optimizer.RunTimeout = other.Optimizer.RunTimeout
	}
	if other.Optimizer.NotifyDrainTimeout != 0 {
		c.Optimizer.NotifyDrainTimeout = other.Optimizer.NotifyDrainTimeout
	}

	if other.Notifications.NATSURL != "" {
		c.Notifications.NATSURL = other.Notifications.NATSURL
	}
	if other.Notifications.SubjectPrefix != "" {
		c.Notifications.SubjectPrefix = other.Notifications.SubjectPrefix
	}

	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.Schedule != "" {
		c.Server.Schedule = other.Server.Schedule
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.Format != "" {
		c.Logging.Format = other.Logging.Format
	}
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", level)
	}
}

// NewLogger builds the process logger described by the logging section.
func (l LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	level, _ := ParseLevel(l.Level)
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
