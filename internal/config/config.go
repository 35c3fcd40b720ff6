package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the top-level application config.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Chatbot   ChatbotConfig   `koanf:"chatbot"`
	Inventory InventoryConfig `koanf:"inventory"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

type AnalyticsConfig struct {
	DataDir       string `koanf:"data_dir"`
	TrafficFile   string `koanf:"traffic_file"`
	InsightsFile  string `koanf:"insights_file"`
	MaxEvents     int    `koanf:"max_events"`
	MaxInsights   int    `koanf:"max_insights"`
	FlushEvery    int    `koanf:"flush_every"`
	FlushInterval string `koanf:"flush_interval"` // parsed and validated on startup
}

type CatalogConfig struct {
	// SeedFile points at an optional YAML product seed. Empty means the
	// built-in catalog.
	SeedFile string `koanf:"seed_file"`
}

type ChatbotConfig struct {
	// RulesDir points at an optional directory of YAML rule files. Empty
	// means the built-in rules.
	RulesDir      string `koanf:"rules_dir"`
	FallbackReply string `koanf:"fallback_reply"`
}

type InventoryConfig struct {
	LatencyMS int `koanf:"latency_ms"`
}

// TrafficPath is the resolved event snapshot location.
func (c AnalyticsConfig) TrafficPath() string {
	return filepath.Join(c.DataDir, c.TrafficFile)
}

// InsightsPath is the resolved insight snapshot location.
func (c AnalyticsConfig) InsightsPath() string {
	return filepath.Join(c.DataDir, c.InsightsFile)
}

// Interval returns the parsed flush interval. Call after Validate.
func (c AnalyticsConfig) Interval() time.Duration {
	d, err := time.ParseDuration(c.FlushInterval)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// Latency returns the simulated upstream latency. Call after Validate.
func (c InventoryConfig) Latency() time.Duration {
	return time.Duration(c.LatencyMS) * time.Millisecond
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Analytics.DataDir) == "" {
		return fmt.Errorf("analytics.data_dir is required")
	}
	if strings.TrimSpace(c.Analytics.TrafficFile) == "" {
		return fmt.Errorf("analytics.traffic_file is required")
	}
	if strings.TrimSpace(c.Analytics.InsightsFile) == "" {
		return fmt.Errorf("analytics.insights_file is required")
	}
	if c.Analytics.MaxEvents <= 0 {
		return fmt.Errorf("analytics.max_events must be > 0")
	}
	if c.Analytics.MaxInsights <= 0 {
		return fmt.Errorf("analytics.max_insights must be > 0")
	}
	if c.Analytics.FlushEvery <= 0 {
		return fmt.Errorf("analytics.flush_every must be > 0")
	}
	interval, err := time.ParseDuration(c.Analytics.FlushInterval)
	if err != nil {
		return fmt.Errorf("invalid analytics.flush_interval %q: %w", c.Analytics.FlushInterval, err)
	}
	if interval <= 0 {
		return fmt.Errorf("analytics.flush_interval must be > 0")
	}

	if c.Inventory.LatencyMS < 0 {
		return fmt.Errorf("inventory.latency_ms must be >= 0")
	}

	return nil
}

// Load parses config from file + env and validates it.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":              8080,
		"server.host":              "0.0.0.0",
		"server.max_body_size_mb":  1,
		"server.mode":              "release",
		"analytics.data_dir":       "./data",
		"analytics.traffic_file":   "analytics.json",
		"analytics.insights_file":  "insights.json",
		"analytics.max_events":     10000,
		"analytics.max_insights":   1000,
		"analytics.flush_every":    100,
		"analytics.flush_interval": "60s",
		"catalog.seed_file":        "",
		"chatbot.rules_dir":        "",
		"chatbot.fallback_reply":   "Sorry, I didn't catch that. Try asking about shipping, returns, or our products.",
		"inventory.latency_ms":     100,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("WEBSITE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "WEBSITE_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
