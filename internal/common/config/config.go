// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Search   SearchConfig   `mapstructure:"search"`
	GenAI    GenAIConfig    `mapstructure:"genai"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	History  HistoryConfig  `mapstructure:"history"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address        string `mapstructure:"address"`
	MetricsAddress string `mapstructure:"metrics_address"`
	ReadTimeout    int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout   int    `mapstructure:"write_timeout"` // milliseconds
}

// SearchConfig holds settings for the external search provider.
type SearchConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
	MaxResults int    `mapstructure:"max_results"`
}

// GenAIConfig holds settings for the text-generation provider.
type GenAIConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	MaxRetries  int     `mapstructure:"max_retries"`
}

// PipelineConfig bounds the research fan-out.
type PipelineConfig struct {
	MaxQueries      int `mapstructure:"max_queries"`
	MaxConcurrency  int `mapstructure:"max_concurrency"`
	ResultsPerQuery int `mapstructure:"results_per_query"`
}

// HistoryConfig selects the trip history backend.
type HistoryConfig struct {
	Backend    string `mapstructure:"backend"`     // "memory" or "redis"
	SessionTTL int    `mapstructure:"session_ttl"` // minutes, redis backend only
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate checks the settings that have no safe default.
func (c *Config) Validate() error {
	if c.Search.BaseURL == "" {
		return fmt.Errorf("search.base_url is required")
	}
	if c.GenAI.BaseURL == "" {
		return fmt.Errorf("genai.base_url is required")
	}
	if c.History.Backend == "redis" && c.Redis.Address == "" {
		return fmt.Errorf("redis.address is required when history.backend is redis")
	}
	return nil
}
