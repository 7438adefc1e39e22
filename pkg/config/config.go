package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Catalog CatalogConfig
	Redis   RedisConfig
	CORS    CORSConfig
	Log     LogConfig
	Planner PlannerConfig
}

// CatalogConfig describes the connection to the read-only catalog store.
type CatalogConfig struct {
	URL           string
	Key           string
	MaxOpenConns  int
	MaxIdleConns  int
	RetryAttempts int
	RetryBackoff  time.Duration
	CacheEnabled  bool
	CacheTTL      time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PlannerConfig carries process-level planner tuning. Per-request load
// bounds and preferences arrive in the request payload, not here.
type PlannerConfig struct {
	MaxAvailable int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Catalog = CatalogConfig{
		URL:           v.GetString("CATALOG_URL"),
		Key:           v.GetString("CATALOG_KEY"),
		MaxOpenConns:  v.GetInt("CATALOG_MAX_OPEN_CONNS"),
		MaxIdleConns:  v.GetInt("CATALOG_MAX_IDLE_CONNS"),
		RetryAttempts: v.GetInt("CATALOG_RETRY_ATTEMPTS"),
		RetryBackoff:  parseDuration(v.GetString("CATALOG_RETRY_BACKOFF"), 200*time.Millisecond),
		CacheEnabled:  v.GetBool("ENABLE_CATALOG_CACHE"),
		CacheTTL:      parseDuration(v.GetString("CATALOG_CACHE_TTL"), 15*time.Minute),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Planner = PlannerConfig{
		MaxAvailable: v.GetInt("PLANNER_MAX_AVAILABLE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("CATALOG_URL", "postgres://postgres@localhost:5432/catalog?sslmode=disable")
	v.SetDefault("CATALOG_KEY", "")
	v.SetDefault("CATALOG_MAX_OPEN_CONNS", 10)
	v.SetDefault("CATALOG_MAX_IDLE_CONNS", 5)
	v.SetDefault("CATALOG_RETRY_ATTEMPTS", 3)
	v.SetDefault("CATALOG_RETRY_BACKOFF", "200ms")
	v.SetDefault("ENABLE_CATALOG_CACHE", false)
	v.SetDefault("CATALOG_CACHE_TTL", "15m")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PLANNER_MAX_AVAILABLE", 12)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
