// Package config loads the service configuration from a YAML file,
// optionally preceded by a .env file, with environment variables taking
// precedence over both.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config struct for YAML configuration
type Config struct {
	GRPCPort       int      `yaml:"GRPC_PORT" env:"GRPC_PORT"`
	HTTPPort       int      `yaml:"HTTP_PORT" env:"HTTP_PORT"`
	DBDriver       string   `yaml:"DB_DRIVER" env:"DB_DRIVER"`
	DBHost         string   `yaml:"DB_HOST" env:"DB_HOST"`
	DBPort         int      `yaml:"DB_PORT" env:"DB_PORT"`
	DBUser         string   `yaml:"DB_USER" env:"DB_USER"`
	DBPassword     string   `yaml:"DB_PASSWORD" env:"DB_PASSWORD"`
	DBName         string   `yaml:"DB_NAME" env:"DB_NAME"`
	DBSSLMode      string   `yaml:"DB_SSLMODE" env:"DB_SSLMODE"`
	SQLitePath     string   `yaml:"SQLITE_PATH" env:"SQLITE_PATH"`
	KafkaBrokers   []string `yaml:"KAFKA_BROKERS" env:"KAFKA_BROKERS" envSeparator:","`
	Topic          string   `yaml:"TOPIC" env:"TOPIC"`
	LogDevelopment bool     `yaml:"LOG_DEVELOPMENT" env:"LOG_DEVELOPMENT"`
}

// Load reads the YAML file at path and applies environment overrides. A
// .env file in the working directory is loaded first when present; it never
// overrides variables already set.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 {
		return fmt.Errorf("HTTP_PORT must be positive, got %d", c.HTTPPort)
	}
	if c.GRPCPort <= 0 {
		return fmt.Errorf("GRPC_PORT must be positive, got %d", c.GRPCPort)
	}
	switch c.DBDriver {
	case "postgres", "":
		if c.DBHost == "" || c.DBName == "" {
			return errors.New("DB_HOST and DB_NAME are required for postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if len(c.KafkaBrokers) > 0 && c.Topic == "" {
		return errors.New("TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}
