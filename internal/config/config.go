package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the console
type Config struct {
	ListenAddr   string
	DBPath       string
	BatchSize    int
	BatchTimeout int // seconds
	Feed         FeedConfig
	Log          LogConfig
}

// FeedConfig holds flightradar24 feed configuration
type FeedConfig struct {
	URL              string
	Bounds           string // optional "lat1,lat2,lon1,lon2"
	PollIntervalSecs int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from config file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("listen_addr", ":8073")
	v.SetDefault("db_path", "shinysdr_telemetry.db")
	v.SetDefault("batch_size", 100)
	v.SetDefault("batch_timeout", 5)
	v.SetDefault("feed.url", "")
	v.SetDefault("feed.bounds", "")
	v.SetDefault("feed.poll_interval_secs", 8)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("/etc/shinysdr")
	v.AddConfigPath(".")

	// Check for config file path from environment variable
	if configPath := os.Getenv("SHINYSDR_CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
	}

	// Read config file (if it exists)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK - we'll use defaults + env vars
	}

	v.SetEnvPrefix("SHINYSDR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		ListenAddr:   v.GetString("listen_addr"),
		DBPath:       v.GetString("db_path"),
		BatchSize:    v.GetInt("batch_size"),
		BatchTimeout: v.GetInt("batch_timeout"),
		Feed: FeedConfig{
			URL:              v.GetString("feed.url"),
			Bounds:           v.GetString("feed.bounds"),
			PollIntervalSecs: v.GetInt("feed.poll_interval_secs"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ParsedBounds returns the feed bounds as lat1,lat2,lon1,lon2, or nil when
// no restriction is configured.
func (c *Config) ParsedBounds() ([]float64, error) {
	return parseBounds(c.Feed.Bounds)
}

func parseBounds(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bounds must be 4 comma-separated values, got %d", len(parts))
	}
	out := make([]float64, 4)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bounds value %q: %w", p, err)
		}
		out[i] = f
	}
	return out, nil
}

// validate validates the configuration values
func validate(cfg *Config) error {
	if cfg.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}

	if cfg.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be greater than 0")
	}

	if cfg.BatchTimeout <= 0 {
		return fmt.Errorf("batch_timeout must be greater than 0")
	}

	if cfg.Feed.PollIntervalSecs <= 0 {
		return fmt.Errorf("feed.poll_interval_secs must be greater than 0")
	}

	if _, err := parseBounds(cfg.Feed.Bounds); err != nil {
		return err
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}

	return nil
}
