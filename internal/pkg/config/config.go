package config

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
)

// Config is shared by every process in the repository; each binary reads the
// sections it needs.
type Config struct {
	Environment string          `mapstructure:"environment"`
	Gateway     GatewayConfig   `mapstructure:"gateway"`
	Services    ServicesConfig  `mapstructure:"services"`
	Consul      ConsulConfig    `mapstructure:"consul"`
	Storage     StorageConfig   `mapstructure:"storage"`
	Redis       RedisConfig     `mapstructure:"redis"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Log         LogConfig       `mapstructure:"log"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type GatewayConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ProbeTimeout    time.Duration `mapstructure:"probe_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Endpoint is a configured host/port pair.
type Endpoint struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (e Endpoint) Address() discovery.Address {
	return discovery.Address{Host: e.Host, Port: e.Port}
}

type ServicesConfig struct {
	User    Endpoint `mapstructure:"user"`
	Product Endpoint `mapstructure:"product"`
	Order   Endpoint `mapstructure:"order"`
}

// Endpoint returns the configured endpoint of name.
func (s ServicesConfig) Endpoint(name discovery.ServiceName) (Endpoint, bool) {
	switch name {
	case discovery.User:
		return s.User, true
	case discovery.Product:
		return s.Product, true
	case discovery.Order:
		return s.Order, true
	}
	return Endpoint{}, false
}

// StaticMap builds the registry fallback map from the per-service settings.
func (s ServicesConfig) StaticMap() discovery.StaticMap {
	m := make(discovery.StaticMap, len(discovery.Services))
	for _, name := range discovery.Services {
		if ep, ok := s.Endpoint(name); ok && ep.Host != "" && ep.Port > 0 {
			m[name] = ep.Address()
		}
	}
	return m
}

type ConsulConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

func (c ConsulConfig) Discovery() discovery.ConsulConfig {
	return discovery.ConsulConfig{
		Enabled:      c.Enabled,
		Host:         c.Host,
		Port:         c.Port,
		ProbeTimeout: c.ProbeTimeout,
	}
}

type StorageConfig struct {
	Driver        string `mapstructure:"driver"`
	SQLiteDir     string `mapstructure:"sqlite_dir"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
}

// SQLitePath is the database file of one service.
func (s StorageConfig) SQLitePath(name discovery.ServiceName) string {
	return filepath.Join(s.SQLiteDir, name.RegistryName()+".db")
}

// RedisConfig enables the shared cache when Addr is set.
type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

type RateLimitConfig struct {
	Max    int           `mapstructure:"max"`
	Window time.Duration `mapstructure:"window"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// TelemetryConfig enables OTLP trace export when Endpoint is set.
type TelemetryConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

// Development reports whether the process runs with the development flag,
// which among other things bypasses rate limiting.
func (c *Config) Development() bool {
	return strings.EqualFold(c.Environment, "development")
}
