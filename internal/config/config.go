package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Template source kinds
const (
	SourceFS    = "fs"
	SourceRedis = "redis"
)

// Config holds all configuration for the render worker
type Config struct {
	// Worker configuration
	WorkerID string `env:"WORKER_ID" envDefault:"render-1"`

	// Redis configuration
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASS" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Stream configuration
	StreamKey     string        `env:"STREAM_KEY" envDefault:"render.work"`
	ConsumerGroup string        `env:"CONSUMER_GROUP" envDefault:"render-workers"`
	ResultStream  string        `env:"RESULT_STREAM" envDefault:"render.done"`
	BlockTime     time.Duration `env:"BLOCK_TIME" envDefault:"1s"`
	MaxRetries    int           `env:"MAX_RETRIES" envDefault:"3"`

	// Template source configuration
	TemplateSource      string        `env:"TEMPLATE_SOURCE" envDefault:"fs"`
	TemplateDir         string        `env:"TEMPLATE_DIR" envDefault:"./templates"`
	TemplateSuffix      string        `env:"TEMPLATE_SUFFIX" envDefault:".hbs"`
	TemplateWatch       bool          `env:"TEMPLATE_WATCH" envDefault:"false"`
	RedisTemplatePrefix string        `env:"REDIS_TEMPLATE_PREFIX" envDefault:"render:template:"`
	RedisTimeout        time.Duration `env:"REDIS_TIMEOUT" envDefault:"2s"`

	// Engine configuration
	GlobalDataFile string `env:"GLOBAL_DATA_FILE" envDefault:""`
	RecursionLimit int    `env:"RECURSION_LIMIT" envDefault:"32"`
	AsyncWorkers   int    `env:"ASYNC_WORKERS" envDefault:"8"` // 0 disables async helpers
	DefaultLocale  string `env:"DEFAULT_LOCALE" envDefault:"en"`

	// Health check configuration
	HealthPort int `env:"HEALTH_PORT" envDefault:"8083"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.WorkerID == "" {
		return fmt.Errorf("WORKER_ID is required")
	}

	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	if c.StreamKey == "" {
		return fmt.Errorf("STREAM_KEY is required")
	}

	if c.ConsumerGroup == "" {
		return fmt.Errorf("CONSUMER_GROUP is required")
	}

	if c.ResultStream == "" {
		return fmt.Errorf("RESULT_STREAM is required")
	}

	if c.BlockTime <= 0 {
		return fmt.Errorf("BLOCK_TIME must be positive")
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must be non-negative")
	}

	switch c.TemplateSource {
	case SourceFS:
		if c.TemplateDir == "" {
			return fmt.Errorf("TEMPLATE_DIR is required when TEMPLATE_SOURCE is fs")
		}
	case SourceRedis:
		if c.RedisTimeout <= 0 {
			return fmt.Errorf("REDIS_TIMEOUT must be positive")
		}
	default:
		return fmt.Errorf("TEMPLATE_SOURCE must be one of: fs, redis")
	}

	if c.RecursionLimit <= 0 {
		return fmt.Errorf("RECURSION_LIMIT must be positive")
	}

	if c.AsyncWorkers < 0 {
		return fmt.Errorf("ASYNC_WORKERS must be non-negative")
	}

	if c.DefaultLocale == "" {
		return fmt.Errorf("DEFAULT_LOCALE is required")
	}

	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("HEALTH_PORT must be between 1 and 65535")
	}

	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	return nil
}

// isValidLogLevel checks if the log level is valid
func isValidLogLevel(level string) bool {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	return validLevels[level]
}

// LoadGlobalData reads the YAML file of data every template sees at the root
// scope. It returns nil when no file is configured.
func (c *Config) LoadGlobalData() (map[string]interface{}, error) {
	if c.GlobalDataFile == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(c.GlobalDataFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read global data: %w", err)
	}

	data := map[string]interface{}{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse global data %s: %w", c.GlobalDataFile, err)
	}

	return data, nil
}

// String returns a string representation of the config (without sensitive data)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{WorkerID=%s, RedisAddr=%s, RedisDB=%d, StreamKey=%s, ConsumerGroup=%s, "+
			"TemplateSource=%s, TemplateDir=%s, RecursionLimit=%d, AsyncWorkers=%d, "+
			"DefaultLocale=%s, HealthPort=%d, LogLevel=%s}",
		c.WorkerID,
		c.RedisAddr,
		c.RedisDB,
		c.StreamKey,
		c.ConsumerGroup,
		c.TemplateSource,
		c.TemplateDir,
		c.RecursionLimit,
		c.AsyncWorkers,
		c.DefaultLocale,
		c.HealthPort,
		c.LogLevel,
	)
}
