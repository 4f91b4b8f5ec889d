// Package config loads service configuration from an optional .env file, an
// optional YAML file and the process environment, in that order of precedence
// from lowest to highest.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ProjectionAll disables read projection when used as EMPLOYEE_PROJECTION.
const ProjectionAll = "*"

// Config holds all configuration for the employee service.
type Config struct {
	Environment string        `yaml:"environment"`
	AWS         AWSConfig     `yaml:"aws"`
	Table       TableConfig   `yaml:"table"`
	Log         LogConfig     `yaml:"log"`
	Server      ServerConfig  `yaml:"server"`
	Tracing     TracingConfig `yaml:"tracing"`
}

// AWSConfig holds AWS client settings.
type AWSConfig struct {
	Region string `yaml:"region"`
	// Endpoint overrides the DynamoDB endpoint, e.g. for DynamoDB Local.
	Endpoint string `yaml:"endpoint"`
}

// TableConfig describes the employee table.
type TableConfig struct {
	Name string `yaml:"name"`
	// Projection is a comma separated attribute list, ProjectionAll, or empty
	// for the service default.
	Projection string `yaml:"projection"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig holds settings for the local HTTP server.
type ServerConfig struct {
	Address            string   `yaml:"address"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// TracingConfig toggles AWS X-Ray instrumentation of the DynamoDB client.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration before any file or environment is applied.
func Default() Config {
	return Config{
		Environment: "development",
		AWS:         AWSConfig{Region: "us-east-1"},
		Log:         LogConfig{Level: "info"},
		Server: ServerConfig{
			Address:            ":8080",
			CORSAllowedOrigins: []string{"*"},
		},
	}
}

// Load builds the configuration. A missing .env file is not an error; the
// YAML file is read only when EMPLOYEE_CONFIG_FILE is set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("EMPLOYEE_CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads a YAML configuration file on top of the defaults without
// consulting the environment.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config: parse yaml: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.AWS.Region = getEnv("AWS_REGION", c.AWS.Region)
	c.AWS.Endpoint = getEnv("DYNAMODB_ENDPOINT", c.AWS.Endpoint)
	c.Table.Name = getEnv("DYNAMODB_TABLE_NAME", c.Table.Name)
	c.Table.Projection = getEnv("EMPLOYEE_PROJECTION", c.Table.Projection)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Server.Address = getEnv("SERVER_ADDRESS", c.Server.Address)

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.Server.CORSAllowedOrigins = splitList(v)
	}
	if v := os.Getenv("ENABLE_TRACING"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: ENABLE_TRACING: %w", err)
		}
		c.Tracing.Enabled = enabled
	}
	return nil
}

// Validate checks required settings and normalizes the rest.
func (c *Config) Validate() error {
	c.Table.Name = strings.TrimSpace(c.Table.Name)
	if c.Table.Name == "" {
		return fmt.Errorf("config: table name must be set (DYNAMODB_TABLE_NAME)")
	}
	if c.AWS.Region == "" {
		return fmt.Errorf("config: aws region must be set (AWS_REGION)")
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	return nil
}

// ProjectionAttributes resolves the read projection. An empty setting yields
// defaults; ProjectionAll yields nil, meaning whole records.
func (c *Config) ProjectionAttributes(defaults []string) []string {
	raw := strings.TrimSpace(c.Table.Projection)
	switch raw {
	case "":
		return defaults
	case ProjectionAll:
		return nil
	default:
		return splitList(raw)
	}
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
