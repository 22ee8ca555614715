package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	YouTube     YouTubeConfig     `yaml:"youtube"`
	AI          AIConfig          `yaml:"ai"`
	Database    DatabaseConfig    `yaml:"database"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Cache       CacheConfig       `yaml:"cache"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type YouTubeConfig struct {
	APIKeys       []string `yaml:"api_keys" env:"YOUTUBE_API_KEYS"`
	MaxResults    int64    `yaml:"max_results"`
	PrefetchLimit int      `yaml:"prefetch_limit"`
}

type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model"`
}

type DatabaseConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL"`
}

type PipelineConfig struct {
	MinDurationSeconds int     `yaml:"min_duration_seconds"`
	MaxDurationSeconds int     `yaml:"max_duration_seconds"`
	RelevanceThreshold float64 `yaml:"relevance_threshold"`
	RelaxedThreshold   float64 `yaml:"relaxed_threshold"`
	Weights            Weights `yaml:"weights"`
}

// Weights control the composite ranking used before tier selection.
type Weights struct {
	Relevance float64 `yaml:"relevance"`
	Recency   float64 `yaml:"recency"`
	Views     float64 `yaml:"views"`
}

type CacheConfig struct {
	TTLMinutes int `yaml:"ttl_minutes"`
	MaxEntries int `yaml:"max_entries"`
}

type MaintenanceConfig struct {
	Schedule           string `yaml:"schedule"`
	QuotaRetentionDays int    `yaml:"quota_retention_days"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		// No config file is fine; everything can come from the environment.
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if keys := os.Getenv("YOUTUBE_API_KEYS"); keys != "" {
		c.YouTube.APIKeys = nil
		for _, k := range strings.Split(keys, ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.YouTube.APIKeys = append(c.YouTube.APIKeys, k)
			}
		}
	}
	if c.AI.GeminiAPIKey == "" {
		c.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Database.URL == "" {
		c.Database.URL = os.Getenv("DATABASE_URL")
	}
	if port := os.Getenv("PORT"); port != "" {
		fmt.Sscanf(port, "%d", &c.Server.Port)
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.YouTube.MaxResults == 0 {
		c.YouTube.MaxResults = 20
	}
	if c.YouTube.PrefetchLimit == 0 {
		c.YouTube.PrefetchLimit = 15
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.Pipeline.MinDurationSeconds == 0 {
		c.Pipeline.MinDurationSeconds = 120
	}
	if c.Pipeline.MaxDurationSeconds == 0 {
		c.Pipeline.MaxDurationSeconds = 3600
	}
	if c.Pipeline.RelevanceThreshold == 0 {
		c.Pipeline.RelevanceThreshold = 0.8
	}
	if c.Pipeline.RelaxedThreshold == 0 {
		c.Pipeline.RelaxedThreshold = 0.6
	}
	if c.Pipeline.Weights == (Weights{}) {
		c.Pipeline.Weights = Weights{Relevance: 0.6, Recency: 0.25, Views: 0.15}
	}
	if c.Cache.TTLMinutes == 0 {
		c.Cache.TTLMinutes = 30
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 100
	}
	if c.Maintenance.Schedule == "" {
		c.Maintenance.Schedule = "0 0 */6 * * *" // Every 6 hours
	}
	if c.Maintenance.QuotaRetentionDays == 0 {
		c.Maintenance.QuotaRetentionDays = 30
	}
}

func (c *Config) validate() error {
	if len(c.YouTube.APIKeys) == 0 {
		return fmt.Errorf("at least one YouTube API key is required (set YOUTUBE_API_KEYS or youtube.api_keys)")
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL or database.url)")
	}
	if c.Pipeline.MinDurationSeconds >= c.Pipeline.MaxDurationSeconds {
		return fmt.Errorf("pipeline duration band is empty: min %d >= max %d",
			c.Pipeline.MinDurationSeconds, c.Pipeline.MaxDurationSeconds)
	}
	return nil
}
