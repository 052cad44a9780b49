// Package config reads the service settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var Drivers = []string{DriverFile, DriverSQLite, DriverPostgres}

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	App     AppConfig
}

type ServerConfig struct {
	Addr string
}

type StorageConfig struct {
	Driver      string
	Path        string
	Codec       string
	PostgresDSN string
}

type AppConfig struct {
	LogLevel    string
	SeedSamples bool
}

// Load reads .env files when present, then the environment. Missing .env files are not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a config from the current environment without validating it.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: getEnv("DVA_ADDR", ":8080"),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(getEnv("DVA_STORAGE_DRIVER", DriverFile)),
			Path:        getEnv("DVA_STORAGE_PATH", "dva_projects.json"),
			Codec:       strings.ToLower(getEnv("DVA_STORAGE_CODEC", "json")),
			PostgresDSN: getEnv("DVA_POSTGRES_DSN", ""),
		},
		App: AppConfig{
			LogLevel:    getEnv("DVA_LOG_LEVEL", "info"),
			SeedSamples: getEnvAsBool("DVA_SEED_SAMPLES", true),
		},
	}
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("DVA_ADDR is required")
	}

	if !slices.Contains(Drivers, c.Storage.Driver) {
		return fmt.Errorf("DVA_STORAGE_DRIVER must be one of %s, got %q", strings.Join(Drivers, ", "), c.Storage.Driver)
	}

	if c.Storage.Codec != "json" && c.Storage.Codec != "msgpack" {
		return fmt.Errorf("DVA_STORAGE_CODEC must be json or msgpack, got %q", c.Storage.Codec)
	}

	if (c.Storage.Driver == DriverFile || c.Storage.Driver == DriverSQLite) && c.Storage.Path == "" {
		return fmt.Errorf("DVA_STORAGE_PATH is required for the %s driver", c.Storage.Driver)
	}

	if c.Storage.Driver == DriverPostgres && c.Storage.PostgresDSN == "" {
		return fmt.Errorf("DVA_POSTGRES_DSN is required for the postgres driver")
	}

	if _, err := c.App.Level(); err != nil {
		return err
	}

	return nil
}

// Level parses the configured log level.
func (a AppConfig) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("DVA_LOG_LEVEL: %w", err)
	}
	return level, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		slog.Warn("Invalid boolean, using default", "key", key, "default", defaultValue)
		return defaultValue
	}
	return value
}

// Logger builds the text logger used by the commands, tagged with component.
func (c *Config) Logger(component string) *slog.Logger {
	level, _ := c.App.Level()
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("component", component)
}
