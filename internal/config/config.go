package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"tutoreval/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Data      DataConfig
	Sampler   SamplerConfig
	Output    OutputConfig
	Profiling ProfilingConfig
}

// DatabaseConfig holds database connection settings. An empty URL runs the
// server on in-memory storage.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// Enabled reports whether a database is configured
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port         string
	GinMode      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64
}

// DataConfig holds dataset locations
type DataConfig struct {
	Dir             string
	Dimensions      []string
	LabelField      string
	LoadConcurrency int64
}

// SamplerConfig holds balanced batch sampler defaults
type SamplerConfig struct {
	BatchSize int
	TaskField string
	Seed      int64
}

// OutputConfig controls written JSON
type OutputConfig struct {
	Indent int
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database:  loadDatabaseConfig(),
		Server:    loadServerConfig(),
		Data:      loadDataConfig(),
		Sampler:   loadSamplerConfig(),
		Output:    OutputConfig{Indent: getEnvIntOrDefault("OUTPUT_INDENT", 2)},
		Profiling: loadProfilingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:             getEnvOrDefault("DATABASE_URL", ""),
		MaxOpenConns:    getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
		ConnMaxLifetime: getEnvDurationOrDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:         getEnvOrDefault("PORT", "8080"),
		GinMode:      getEnvOrDefault("GIN_MODE", "release"),
		ReadTimeout:  getEnvDurationOrDefault("READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getEnvDurationOrDefault("WRITE_TIMEOUT", 60*time.Second),
		MaxBodyBytes: int64(getEnvIntOrDefault("MAX_BODY_MB", 50)) * 1024 * 1024,
	}
}

func loadDataConfig() DataConfig {
	return DataConfig{
		Dir:             getEnvOrDefault("DATA_DIR", "./data"),
		Dimensions:      getEnvListOrDefault("DIMENSIONS", []string{"MI", "ML", "PG", "AC"}),
		LabelField:      getEnvOrDefault("LABEL_FIELD", "annotation"),
		LoadConcurrency: int64(getEnvIntOrDefault("LOAD_CONCURRENCY", 4)),
	}
}

func loadSamplerConfig() SamplerConfig {
	return SamplerConfig{
		BatchSize: getEnvIntOrDefault("BATCH_SIZE", 8),
		TaskField: getEnvOrDefault("TASK_FIELD", "task"),
		Seed:      int64(getEnvIntOrDefault("SEED", 42)),
	}
}

func loadProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Sampler.BatchSize <= 0 {
		return errors.ConfigInvalid("BATCH_SIZE must be a positive integer")
	}
	if config.Sampler.TaskField == "" {
		return errors.ConfigInvalid("TASK_FIELD is required")
	}
	if len(config.Data.Dimensions) == 0 {
		return errors.ConfigInvalid("DIMENSIONS must name at least one dimension")
	}
	if config.Output.Indent < 0 {
		return errors.ConfigInvalid("OUTPUT_INDENT cannot be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, dropping blank items
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
