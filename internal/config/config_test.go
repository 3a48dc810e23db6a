package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.HTTPPort != 8080 {
		t.Fatalf("expected HTTP port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.GRPCPort != 9090 {
		t.Fatalf("expected gRPC port 9090, got %d", cfg.GRPCPort)
	}
	if cfg.Model.Source != ModelSourceFile || cfg.Model.Path != "iris_model.json" {
		t.Fatalf("unexpected model config: %+v", cfg.Model)
	}
	if cfg.SoftModelErrors {
		t.Fatalf("expected soft model errors to be off by default")
	}
	if cfg.Timeouts.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected 10s shutdown timeout, got %s", cfg.Timeouts.ShutdownTimeout)
	}
	if cfg.GetHTTPAddr() != ":8080" {
		t.Fatalf("unexpected HTTP addr %q", cfg.GetHTTPAddr())
	}
	if cfg.GetGRPCAddr() != ":9090" {
		t.Fatalf("unexpected gRPC addr %q", cfg.GetGRPCAddr())
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("IRISD_HTTP_PORT", "9000")
	t.Setenv("MODEL_SOURCE", "redis")
	t.Setenv("REDIS_MODEL_KEY", "models:iris")
	t.Setenv("SOFT_MODEL_ERRORS", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.HTTPPort != 9000 || cfg.GetHTTPAddr() != ":9000" {
		t.Fatalf("expected HTTP port 9000, got %d (%s)", cfg.HTTPPort, cfg.GetHTTPAddr())
	}
	if cfg.Model.Source != ModelSourceRedis {
		t.Fatalf("expected redis source, got %q", cfg.Model.Source)
	}
	if cfg.Redis.ModelKey != "models:iris" {
		t.Fatalf("expected models:iris key, got %q", cfg.Redis.ModelKey)
	}
	if !cfg.SoftModelErrors {
		t.Fatalf("expected soft model errors on")
	}
}

func TestValidate_Negative(t *testing.T) {
	base := func() *Config {
		return &Config{
			HTTPPort: 8080,
			GRPCPort: 9090,
			LogLevel: "info",
			Model:    ModelConfig{Source: ModelSourceFile, Path: "iris_model.json"},
			Redis:    RedisConfig{Addr: "localhost:6379", ModelKey: "irisd:model"},
		}
	}

	testCases := []struct {
		name, expErr string
		mutate       func(*Config)
	}{
		{"bad http port", "invalid HTTP port", func(c *Config) { c.HTTPPort = 0 }},
		{"bad grpc port", "invalid gRPC port", func(c *Config) { c.GRPCPort = 70000 }},
		{"same ports", "must differ", func(c *Config) { c.GRPCPort = c.HTTPPort }},
		{"empty path", "model path is required", func(c *Config) { c.Model.Path = "" }},
		{"unknown source", "unsupported model source", func(c *Config) { c.Model.Source = "s3" }},
		{"redis without key", "redis model key is required", func(c *Config) {
			c.Model.Source = ModelSourceRedis
			c.Redis.ModelKey = ""
		}},
		{"bad log level", "invalid log level", func(c *Config) { c.LogLevel = "trace" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected to get an error; got nil")
			}
			if !strings.Contains(err.Error(), tc.expErr) {
				t.Fatalf("expected to have err %q; got %q", tc.expErr, err)
			}
		})
	}
}
