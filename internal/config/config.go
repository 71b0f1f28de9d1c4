package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SLOTBOARD_"

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envPrefix:"SERVER_"`
	DB        DBConfig        `yaml:"db" envPrefix:"DB_"`
	Queue     QueueConfig     `yaml:"queue" envPrefix:"QUEUE_"`
	Auth      AuthConfig      `yaml:"auth" envPrefix:"AUTH_"`
	Transport TransportConfig `yaml:"transport" envPrefix:"TRANSPORT_"`
	Log       LogConfig       `yaml:"log" envPrefix:"LOG_"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"HOST"`
	Port int    `yaml:"port" env:"PORT"`
}

// DBConfig selects the store. Path is used by sqlite, URL by postgres.
type DBConfig struct {
	Driver string `yaml:"driver" env:"DRIVER"`
	Path   string `yaml:"path" env:"PATH"`
	URL    string `yaml:"url" env:"URL"`
}

// QueueConfig selects how backup tasks reach the worker.
type QueueConfig struct {
	Driver   string        `yaml:"driver" env:"DRIVER"`
	RedisURL string        `yaml:"redis_url" env:"REDIS_URL"`
	Key      string        `yaml:"key" env:"KEY"`
	Delay    time.Duration `yaml:"delay" env:"DELAY"`
}

type AuthConfig struct {
	Enabled      bool   `yaml:"enabled" env:"ENABLED"`
	JWTSecret    string `yaml:"jwt_secret" env:"JWT_SECRET"`
	DefaultOwner string `yaml:"default_owner" env:"DEFAULT_OWNER"`
}

type TransportConfig struct {
	Mode string `yaml:"mode" env:"MODE"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
	Path  string `yaml:"path" env:"PATH"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Driver: "sqlite",
			Path:   "slotboard.db",
		},
		Queue: QueueConfig{
			Driver: "memory",
			Key:    "slotboard:backups",
			Delay:  3 * time.Second,
		},
		Auth: AuthConfig{
			DefaultOwner: "demo",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvPrefix + "CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enum fields and required combinations.
func (c Config) Validate() error {
	var errs []error
	switch c.DB.Driver {
	case "sqlite":
		if strings.TrimSpace(c.DB.Path) == "" {
			errs = append(errs, errors.New("db.path is required for sqlite"))
		}
	case "postgres":
		if strings.TrimSpace(c.DB.URL) == "" {
			errs = append(errs, errors.New("db.url is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown db.driver %q", c.DB.Driver))
	}
	switch c.Queue.Driver {
	case "memory":
	case "redis":
		if strings.TrimSpace(c.Queue.RedisURL) == "" {
			errs = append(errs, errors.New("queue.redis_url is required for redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown queue.driver %q", c.Queue.Driver))
	}
	if c.Queue.Delay < 0 {
		errs = append(errs, errors.New("queue.delay must not be negative"))
	}
	if c.Transport.Mode != "http" && c.Transport.Mode != "stdio" {
		errs = append(errs, fmt.Errorf("unknown transport.mode %q", c.Transport.Mode))
	}
	if c.Auth.Enabled && strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required when auth is enabled"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server.port %d", c.Server.Port))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
