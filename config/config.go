package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server         ServerConfig
	Store          StoreConfig
	Elasticsearch  ElasticsearchConfig
	Postgres       PostgresConfig
	Cache          CacheConfig
	Completion     CompletionConfig
	Recommendation RecommendationConfig
	RateLimit      RateLimitConfig
	Log            LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StoreConfig describes the shop the assistant serves
type StoreConfig struct {
	Name             string `mapstructure:"name"`
	Description      string `mapstructure:"description"`
	BaseURL          string `mapstructure:"base_url"`
	ConsumerKey      string `mapstructure:"consumer_key"`
	ConsumerSecret   string `mapstructure:"consumer_secret"`
	CurrencySymbol   string `mapstructure:"currency_symbol"`
	PlaceholderImage string `mapstructure:"placeholder_image"`
}

// ElasticsearchConfig holds the product index connection
type ElasticsearchConfig struct {
	Addresses    []string `mapstructure:"addresses"`
	Username     string   `mapstructure:"username"`
	Password     string   `mapstructure:"password"`
	ProductIndex string   `mapstructure:"product_index"`
}

// PostgresConfig holds the knowledge base and log database connection
type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	Database       string `mapstructure:"database"`
	SSLMode        string `mapstructure:"sslmode"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	Migrate        bool   `mapstructure:"migrate"`
}

// DSN returns the lib/pq connection string
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type             string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL         string        `mapstructure:"redis_url"`
	ProfileRetention time.Duration `mapstructure:"profile_retention"`
	FallbackTTL      time.Duration `mapstructure:"fallback_ttl"`
}

// CompletionConfig holds the language model settings
type CompletionConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	Model         string        `mapstructure:"model"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxTokens     int           `mapstructure:"max_tokens"`
	Temperature   float32       `mapstructure:"temperature"`
	HistoryWindow int           `mapstructure:"history_window"`
}

// Enabled reports whether a model is configured
func (c CompletionConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

// RecommendationConfig tunes candidate retrieval and ranking
type RecommendationConfig struct {
	CandidateLimit      int           `mapstructure:"candidate_limit"`
	FallbackLimit       int           `mapstructure:"fallback_limit"`
	MaxResults          int           `mapstructure:"max_results"`
	TopSellerLimit      int           `mapstructure:"top_seller_limit"`
	CollaboratorTimeout time.Duration `mapstructure:"collaborator_timeout"`
	SalesWindow         time.Duration `mapstructure:"sales_window"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Store int `mapstructure:"store"`  // store API requests per hour
}

// LogConfig selects log verbosity and encoding
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shopchat/")

	v.SetEnvPrefix("SHOPCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env when present. Variables already set in the
// environment are not overridden.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values.
// Every key needs a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	v.SetDefault("store.name", "Our Store")
	v.SetDefault("store.description", "")
	v.SetDefault("store.base_url", "http://localhost")
	v.SetDefault("store.consumer_key", "")
	v.SetDefault("store.consumer_secret", "")
	v.SetDefault("store.currency_symbol", "$")
	v.SetDefault("store.placeholder_image", "/images/placeholder.png")

	v.SetDefault("elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("elasticsearch.username", "")
	v.SetDefault("elasticsearch.password", "")
	v.SetDefault("elasticsearch.product_index", "products")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "shopchat")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.database", "shopchat")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_connections", 10)
	v.SetDefault("postgres.max_idle", 5)
	v.SetDefault("postgres.migrate", true)

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.profile_retention", "720h") // 30 days
	v.SetDefault("cache.fallback_ttl", "15m")

	v.SetDefault("completion.api_key", "")
	v.SetDefault("completion.base_url", "")
	v.SetDefault("completion.model", "")
	v.SetDefault("completion.timeout", "30s")
	v.SetDefault("completion.max_tokens", 500)
	v.SetDefault("completion.temperature", 0.7)
	v.SetDefault("completion.history_window", 10)

	v.SetDefault("recommendation.candidate_limit", 12)
	v.SetDefault("recommendation.fallback_limit", 6)
	v.SetDefault("recommendation.max_results", 6)
	v.SetDefault("recommendation.top_seller_limit", 3)
	v.SetDefault("recommendation.collaborator_timeout", "5s")
	v.SetDefault("recommendation.sales_window", "720h")

	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.store", 3600)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if len(config.Elasticsearch.Addresses) == 0 {
		return fmt.Errorf("at least one Elasticsearch address is required")
	}

	r := config.Recommendation
	if r.CandidateLimit <= 0 || r.FallbackLimit <= 0 || r.MaxResults <= 0 {
		return fmt.Errorf("recommendation limits must be positive")
	}

	if config.Completion.Timeout <= 0 {
		return fmt.Errorf("completion timeout must be positive, got: %s", config.Completion.Timeout)
	}

	switch config.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error, got: %s", config.Log.Level)
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	return nil
}
