package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Model source kinds
const (
	ModelSourceFile  = "file"
	ModelSourceRedis = "redis"
)

// Config holds all configuration for the iris prediction service
type Config struct {
	// Server configuration
	HTTPPort int    `env:"IRISD_HTTP_PORT" envDefault:"8080"`
	GRPCPort int    `env:"IRISD_GRPC_PORT" envDefault:"9090"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Model artifact configuration
	Model ModelConfig

	// Redis configuration (only used when Model.Source is "redis")
	Redis RedisConfig

	// SoftModelErrors answers "Model not loaded" with 200 instead of 503
	SoftModelErrors bool `env:"SOFT_MODEL_ERRORS" envDefault:"false"`

	// Timeouts
	Timeouts TimeoutConfig
}

// ModelConfig selects where the classifier artifact is read from
type ModelConfig struct {
	Source string `env:"MODEL_SOURCE" envDefault:"file"`
	Path   string `env:"MODEL_PATH" envDefault:"iris_model.json"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	ModelKey string `env:"REDIS_MODEL_KEY" envDefault:"irisd:model"`

	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	ModelLoadTimeout time.Duration `env:"TIMEOUT_MODEL_LOAD" envDefault:"10s"`
	ShutdownTimeout  time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"10s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server ports
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.GRPCPort < 1 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPCPort)
	}
	if c.HTTPPort == c.GRPCPort {
		return fmt.Errorf("HTTP and gRPC ports must differ: %d", c.HTTPPort)
	}

	// Validate model source
	switch c.Model.Source {
	case ModelSourceFile:
		if c.Model.Path == "" {
			return fmt.Errorf("model path is required for file source")
		}
	case ModelSourceRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for redis source")
		}
		if c.Redis.ModelKey == "" {
			return fmt.Errorf("redis model key is required for redis source")
		}
	default:
		return fmt.Errorf("unsupported model source: %s (must be file or redis)", c.Model.Source)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// GetGRPCAddr returns the gRPC server address
func (c *Config) GetGRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}
