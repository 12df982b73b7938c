package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment  EnvironmentConfig           `mapstructure:"environment"`
	Environments map[string]DeploymentConfig `mapstructure:"environments"`
	Catalog      CatalogConfig               `mapstructure:"catalog"`
	Feed         FeedConfig                  `mapstructure:"feed"`
	Cart         CartConfig                  `mapstructure:"cart"`
	Orders       OrdersConfig                `mapstructure:"orders"`
	Redis        RedisConfig                 `mapstructure:"redis"`
}

// EnvironmentConfig selects the deployment target and the local host variant
type EnvironmentConfig struct {
	Override string `mapstructure:"override"` // local, aws or production; wins over everything
	Release  bool   `mapstructure:"release"`  // release builds default to production
	Platform string `mapstructure:"platform"` // ios, android or device
	LANHost  string `mapstructure:"lan_host"` // host for a physical device on the LAN
}

// ServiceConfig describes how to reach one backend service in one deployment.
// Local deployments address services by port on the platform-dependent host;
// remote deployments carry a full base URL plus path prefix.
type ServiceConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// DeploymentConfig is the per-environment service table, keyed by service name
type DeploymentConfig map[string]ServiceConfig

// CatalogConfig holds HTTP catalog client configuration
type CatalogConfig struct {
	Timeout              int `mapstructure:"timeout"`
	RetryDelayMs         int `mapstructure:"retry_delay_ms"`
	MaxRequestsPerSecond int `mapstructure:"max_requests_per_second"`
	PageSize             int `mapstructure:"page_size"`
	SearchTTL            int `mapstructure:"search_ttl"`   // seconds
	CategoryTTL          int `mapstructure:"category_ttl"` // seconds
	DefaultTTL           int `mapstructure:"default_ttl"`  // seconds
}

// FeedConfig holds live feed reconnection configuration
type FeedConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	BaseDelayMs int  `mapstructure:"base_delay_ms"`
	MaxDelayMs  int  `mapstructure:"max_delay_ms"`
	MaxAttempts int  `mapstructure:"max_attempts"`
}

// CartConfig holds the shipping policy knobs. The flat fee applies to any
// subtotal strictly above the threshold; zero means every non-empty cart pays.
type CartConfig struct {
	ShippingFee          float64 `mapstructure:"shipping_fee"`
	ShippingFeeThreshold float64 `mapstructure:"shipping_fee_threshold"`
}

// OrdersConfig holds order submission configuration
type OrdersConfig struct {
	Timeout int `mapstructure:"timeout"`
}

// RedisConfig holds Redis connection details for the catalog page cache
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config.yaml is fine: defaults cover every key
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("environment.override", "")
	viper.SetDefault("environment.release", false)
	viper.SetDefault("environment.platform", "android")
	viper.SetDefault("environment.lan_host", "192.168.1.100")

	// Local: direct per-service ports from the docker compose stack
	viper.SetDefault("environments.local.catalog.port", 3001)
	viper.SetDefault("environments.local.orders.port", 8000)
	viper.SetDefault("environments.local.customers.port", 3003)
	viper.SetDefault("environments.local.routes.port", 8003)

	// AWS and production: everything goes through the BFF
	viper.SetDefault("environments.aws.catalog.base_url", "https://d3f7r5jd3xated.cloudfront.net")
	viper.SetDefault("environments.aws.catalog.path", "/api/v1/catalog")
	viper.SetDefault("environments.aws.orders.base_url", "https://d3f7r5jd3xated.cloudfront.net")
	viper.SetDefault("environments.aws.orders.path", "/api/v1/orders")
	viper.SetDefault("environments.aws.customers.base_url", "https://d2daixtzj6x1qi.cloudfront.net")
	viper.SetDefault("environments.aws.routes.base_url", "https://d3f7r5jd3xated.cloudfront.net")
	viper.SetDefault("environments.aws.routes.path", "/api/v1/rutas")

	viper.SetDefault("environments.production.catalog.base_url", "https://d3f7r5jd3xated.cloudfront.net")
	viper.SetDefault("environments.production.catalog.path", "/api/v1/catalog")
	viper.SetDefault("environments.production.orders.base_url", "https://d3f7r5jd3xated.cloudfront.net")
	viper.SetDefault("environments.production.orders.path", "/api/v1/orders")
	viper.SetDefault("environments.production.customers.base_url", "https://d2daixtzj6x1qi.cloudfront.net")
	viper.SetDefault("environments.production.routes.base_url", "https://d3f7r5jd3xated.cloudfront.net")
	viper.SetDefault("environments.production.routes.path", "/api/v1/rutas")

	viper.SetDefault("catalog.timeout", 15)
	viper.SetDefault("catalog.retry_delay_ms", 500)
	viper.SetDefault("catalog.max_requests_per_second", 10)
	viper.SetDefault("catalog.page_size", 20)
	viper.SetDefault("catalog.search_ttl", 30)
	viper.SetDefault("catalog.category_ttl", 600)
	viper.SetDefault("catalog.default_ttl", 300)

	viper.SetDefault("feed.enabled", true)
	viper.SetDefault("feed.base_delay_ms", 1000)
	viper.SetDefault("feed.max_delay_ms", 30000)
	viper.SetDefault("feed.max_attempts", 5)

	viper.SetDefault("cart.shipping_fee", 10)
	viper.SetDefault("cart.shipping_fee_threshold", 0)

	viper.SetDefault("orders.timeout", 15)

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)
}
