package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Map       MapConfig       `yaml:"map"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig selects the key-value backend that holds the workout log.
type StorageConfig struct {
	Driver   string         `yaml:"driver"` // sqlite, postgres, redis or memory
	Key      string         `yaml:"key"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres DatabaseConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MapConfig struct {
	Zoom        int        `yaml:"zoom"`
	TileURL     string     `yaml:"tile_url"`
	Attribution string     `yaml:"attribution"`
	Home        HomeConfig `yaml:"home"`
}

// HomeConfig is the position headless clients (CLI, MCP) use in place of
// browser geolocation.
type HomeConfig struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 8080},
		Storage: StorageConfig{
			Driver: "sqlite",
			Key:    "workouts",
			SQLite: SQLiteConfig{Path: "mapty.db"},
		},
		Map: MapConfig{
			Zoom:        13,
			TileURL:     "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
		},
		Tailscale: TailscaleConfig{Hostname: "mapty", StateDir: "tsnet-state"},
	}
}

// Load reads config from a YAML file on top of Default, then applies
// environment variable overrides. An empty path skips the file.
// Env vars use the prefix MAPTY_ and underscore-separated paths:
//
//	MAPTY_SERVER_HOST, MAPTY_SERVER_PORT,
//	MAPTY_STORAGE_DRIVER, MAPTY_STORAGE_KEY, MAPTY_SQLITE_PATH,
//	MAPTY_DB_HOST, MAPTY_DB_PORT, MAPTY_DB_NAME,
//	MAPTY_DB_USER, MAPTY_DB_PASSWORD, MAPTY_DB_SSLMODE,
//	MAPTY_REDIS_ADDR, MAPTY_REDIS_PASSWORD, MAPTY_REDIS_DB,
//	MAPTY_TAILSCALE_ENABLED, MAPTY_TAILSCALE_HOSTNAME
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setString := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	setInt := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("MAPTY_SERVER_HOST", &cfg.Server.Host)
	setInt("MAPTY_SERVER_PORT", &cfg.Server.Port)
	setString("MAPTY_STORAGE_DRIVER", &cfg.Storage.Driver)
	setString("MAPTY_STORAGE_KEY", &cfg.Storage.Key)
	setString("MAPTY_SQLITE_PATH", &cfg.Storage.SQLite.Path)
	setString("MAPTY_DB_HOST", &cfg.Storage.Postgres.Host)
	setInt("MAPTY_DB_PORT", &cfg.Storage.Postgres.Port)
	setString("MAPTY_DB_NAME", &cfg.Storage.Postgres.Name)
	setString("MAPTY_DB_USER", &cfg.Storage.Postgres.User)
	setString("MAPTY_DB_PASSWORD", &cfg.Storage.Postgres.Password)
	setString("MAPTY_DB_SSLMODE", &cfg.Storage.Postgres.SSLMode)
	setString("MAPTY_REDIS_ADDR", &cfg.Storage.Redis.Addr)
	setString("MAPTY_REDIS_PASSWORD", &cfg.Storage.Redis.Password)
	setInt("MAPTY_REDIS_DB", &cfg.Storage.Redis.DB)
	setString("MAPTY_TAILSCALE_HOSTNAME", &cfg.Tailscale.Hostname)
	if v := os.Getenv("MAPTY_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	if c.Storage.Key == "" {
		return errors.New("storage.key is required")
	}
	if c.Map.Zoom <= 0 {
		return errors.New("map.zoom must be positive")
	}

	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.SQLite.Path == "" {
			return errors.New("storage.sqlite.path is required")
		}
	case "postgres":
		if c.Storage.Postgres.Host == "" {
			return errors.New("storage.postgres.host is required")
		}
		if c.Storage.Postgres.Port == 0 {
			return errors.New("storage.postgres.port is required")
		}
		if c.Storage.Postgres.Name == "" {
			return errors.New("storage.postgres.name is required")
		}
		if c.Storage.Postgres.User == "" {
			return errors.New("storage.postgres.user is required")
		}
	case "redis":
		if c.Storage.Redis.Addr == "" {
			return errors.New("storage.redis.addr is required")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return errors.New("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
