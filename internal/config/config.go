// Package config loads the service configuration from defaults, an optional
// YAML file, a .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// HTTPConfig is the HTTP server configuration.
type HTTPConfig struct {
	// ListenAddr is the address on which the HTTP server will listen.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`

	// CORSOrigins is the list of allowed origins. "*" allows any origin.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," yaml:"cors_origins"`
}

// DBConfig is the database configuration.
type DBConfig struct {
	// Driver is either "postgres" or "sqlite".
	Driver string `env:"DRIVER" yaml:"driver"`

	// DataSource is a full DSN. When set it takes precedence over the parts below.
	DataSource string `env:"DATA_SOURCE" yaml:"data_source"`

	Host    string `env:"HOST" yaml:"host"`
	User    string `env:"USER" yaml:"user"`
	Pass    string `env:"PASS" yaml:"pass"`
	Name    string `env:"NAME" yaml:"name"`
	Port    string `env:"PORT" yaml:"port"`
	SSLMode string `env:"SSLMODE" yaml:"sslmode"`

	// Debug logs every statement at debug level.
	Debug bool `env:"DEBUG" yaml:"debug"`
}

// JWTConfig is the bearer token configuration.
type JWTConfig struct {
	Secret   string        `env:"SECRET" yaml:"secret"`
	Issuer   string        `env:"ISSUER" yaml:"issuer"`
	Audience string        `env:"AUDIENCE" yaml:"audience"`
	Expiry   time.Duration `env:"EXPIRY" yaml:"expiry"`
}

// LogConfig is the logger configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `env:"LEVEL" yaml:"level"`

	// Format is one of text, json, logfmt.
	Format string `env:"FORMAT" yaml:"format"`

	// TimeFormat is the Go time layout used for log timestamps.
	TimeFormat string `env:"TIME_FORMAT" yaml:"time_format"`
}

// MetricsConfig is the prometheus endpoint configuration.
type MetricsConfig struct {
	Enabled bool   `env:"ENABLED" yaml:"enabled"`
	Path    string `env:"PATH" yaml:"path"`
}

// Config is the service configuration.
type Config struct {
	// Name is the service name, reported in logs.
	Name string `env:"APP_NAME" yaml:"name"`

	HTTP    HTTPConfig    `yaml:"http"`
	DB      DBConfig      `envPrefix:"DB_" yaml:"db"`
	JWT     JWTConfig     `envPrefix:"JWT_" yaml:"jwt"`
	Log     LogConfig     `envPrefix:"LOG_" yaml:"log"`
	Metrics MetricsConfig `envPrefix:"METRICS_" yaml:"metrics"`
}

// ErrNilConfig is returned when a nil config is used.
var ErrNilConfig = errors.New("nil config")

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "eventplanner",
		HTTP: HTTPConfig{
			ListenAddr:  ":8080",
			CORSOrigins: []string{"*"},
		},
		DB: DBConfig{
			Driver:  "postgres",
			SSLMode: "disable",
		},
		JWT: JWTConfig{
			Issuer:   "eventplanner",
			Audience: "eventplanner",
			Expiry:   2 * time.Hour,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			TimeFormat: time.DateTime,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load builds the configuration. path may be empty, in which case no YAML
// file is read. Values from the environment override the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := cfg.parseFile(path); err != nil {
			return nil, err
		}
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	if err := cfg.ParseEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) parseFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close() // nolint: errcheck

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

// ParseEnv overrides the configuration with values from the environment.
func (c *Config) ParseEnv() error {
	return c.parseEnv(nil)
}

func (c *Config) parseEnv(environ map[string]string) error {
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Validate checks the configuration for missing or contradicting values.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("invalid JWT expiry %s", c.JWT.Expiry)
	}

	switch strings.ToLower(c.DB.Driver) {
	case "postgres":
		if c.DB.DataSource != "" {
			break
		}
		if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" || c.DB.Port == "" {
			return errors.New("database env missing: DB_HOST, DB_USER, DB_NAME and DB_PORT are required")
		}
	case "sqlite":
		if c.DB.DataSource == "" {
			return errors.New("DB_DATA_SOURCE is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.DB.Driver)
	}

	return nil
}

// DSN returns the connection string for the configured driver.
func (c DBConfig) DSN() string {
	if c.DataSource != "" {
		return c.DataSource
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Pass, c.Name, c.Port, c.SSLMode,
	)
}
