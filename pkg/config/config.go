package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/typeforge/typeforge/pkg/compiler/typecache"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Compilation cache configuration
	Cache typecache.Config

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel  string
	LogFormat string

	// Metrics
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Cache:         loadCacheConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("TYPEFORGE_HOST", "0.0.0.0"),
		Port:            getEnv("TYPEFORGE_PORT", "8080"),
		ReadTimeout:     getEnvDuration("TYPEFORGE_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("TYPEFORGE_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("TYPEFORGE_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("TYPEFORGE_SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// loadCacheConfig loads compilation cache configuration from environment
func loadCacheConfig() typecache.Config {
	cfg := *typecache.DefaultConfig()

	if maxEntries := getEnvInt("TYPEFORGE_CACHE_MAX_ENTRIES", 0); maxEntries > 0 {
		cfg.MaxEntries = maxEntries
	}
	if tierSize := getEnvInt("TYPEFORGE_CACHE_ARTIFACT_TIER", 0); tierSize > 0 {
		cfg.ArtifactTierSize = tierSize
	}

	return cfg
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       getEnv("TYPEFORGE_LOG_LEVEL", "info"),
		LogFormat:      getEnv("TYPEFORGE_LOG_FORMAT", "json"),
		MetricsEnabled: getEnvBool("TYPEFORGE_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid server port: %s", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache max entries must be positive")
	}
	if c.Cache.ArtifactTierSize <= 0 {
		return fmt.Errorf("cache artifact tier size must be positive")
	}
	if c.Cache.ArtifactTierSize > c.Cache.MaxEntries {
		return fmt.Errorf("cache artifact tier size must not exceed max entries")
	}

	switch strings.ToLower(c.Observability.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Observability.LogFormat)
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
