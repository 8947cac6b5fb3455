package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envAliases binds the flat variable names used by deployment scripts to
// their config keys. The prefixed form (ECOM_GATEWAY_PORT...) always wins.
var envAliases = map[string][]string{
	"environment":            {"ECOM_ENVIRONMENT", "NODE_ENV", "APP_ENV"},
	"gateway.host":           {"ECOM_GATEWAY_HOST", "API_GATEWAY_HOST"},
	"gateway.port":           {"ECOM_GATEWAY_PORT", "API_GATEWAY_PORT"},
	"services.user.host":     {"ECOM_SERVICES_USER_HOST", "USER_SERVICE_HOST"},
	"services.user.port":     {"ECOM_SERVICES_USER_PORT", "USER_SERVICE_PORT"},
	"services.product.host":  {"ECOM_SERVICES_PRODUCT_HOST", "PRODUCT_SERVICE_HOST"},
	"services.product.port":  {"ECOM_SERVICES_PRODUCT_PORT", "PRODUCT_SERVICE_PORT"},
	"services.order.host":    {"ECOM_SERVICES_ORDER_HOST", "ORDER_SERVICE_HOST"},
	"services.order.port":    {"ECOM_SERVICES_ORDER_PORT", "ORDER_SERVICE_PORT"},
	"consul.enabled":         {"ECOM_CONSUL_ENABLED", "CONSUL_ENABLED"},
	"consul.host":            {"ECOM_CONSUL_HOST", "CONSUL_HOST"},
	"consul.port":            {"ECOM_CONSUL_PORT", "CONSUL_PORT"},
	"storage.driver":         {"ECOM_STORAGE_DRIVER", "STORAGE_DRIVER"},
	"storage.mongo_uri":      {"ECOM_STORAGE_MONGO_URI", "MONGODB_URI"},
	"storage.mongo_database": {"ECOM_STORAGE_MONGO_DATABASE", "MONGODB_DATABASE"},
	"redis.addr":             {"ECOM_REDIS_ADDR", "REDIS_ADDR"},
	"log.level":              {"ECOM_LOG_LEVEL", "LOG_LEVEL"},
	"telemetry.endpoint":     {"ECOM_TELEMETRY_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"},
}

// Load reads defaults, then the config file (path, or config.yaml from the
// usual directories when path is empty), then the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/ecommerce/")
	}

	v.SetEnvPrefix("ECOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "production")

	v.SetDefault("gateway.host", "localhost")
	v.SetDefault("gateway.port", 3000)
	v.SetDefault("gateway.probe_timeout", "1s")
	v.SetDefault("gateway.shutdown_timeout", "15s")

	v.SetDefault("services.user.host", "localhost")
	v.SetDefault("services.user.port", 3001)
	v.SetDefault("services.product.host", "localhost")
	v.SetDefault("services.product.port", 3002)
	v.SetDefault("services.order.host", "localhost")
	v.SetDefault("services.order.port", 3003)

	v.SetDefault("consul.enabled", true)
	v.SetDefault("consul.host", "localhost")
	v.SetDefault("consul.port", 8500)
	v.SetDefault("consul.probe_timeout", "2s")

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_dir", "data")
	v.SetDefault("storage.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("storage.mongo_database", "microservices")

	v.SetDefault("redis.addr", "")

	v.SetDefault("rate_limit.max", 100)
	v.SetDefault("rate_limit.window", "15m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("telemetry.endpoint", "")
}
