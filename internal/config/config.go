package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	API       APIConfig
	Log       LogConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	S3        S3Config
	Options   OptionsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	CookieName   string        `mapstructure:"cookie_name"`
}

// APIConfig points at the upstream inventory REST API.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// Token is used by stockctl when no --token flag is given.
	Token string `mapstructure:"token"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig limits mutations per client IP. Rate uses the limiter
// format, e.g. "30-M".
type RateLimitConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Rate    string `mapstructure:"rate"`
}

// RedisConfig holds the options cache connection. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// S3Config holds the export archive bucket settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// OptionsConfig tunes the dropdown loaders.
type OptionsConfig struct {
	RetryBase       time.Duration `mapstructure:"retry_base"`
	RetryMultiplier float64       `mapstructure:"retry_multiplier"`
	MaxAttempts     int           `mapstructure:"max_attempts"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
}

// Load reads configuration from a .env file (if present) and environment
// variables with the STOCKDESK_ prefix.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("STOCKDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.cookie_name", "token")

	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("api.timeout", "0s")
	v.SetDefault("api.token", "")

	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rate", "30-M")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "stockdesk-exports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.prefix", "exports")

	v.SetDefault("options.retry_base", "500ms")
	v.SetDefault("options.retry_multiplier", 1.5)
	v.SetDefault("options.max_attempts", 3)
	v.SetDefault("options.cache_ttl", "5m")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "STOCKDESK_SERVER_PORT",
		"server.read_timeout":      "STOCKDESK_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "STOCKDESK_SERVER_WRITE_TIMEOUT",
		"server.environment":       "STOCKDESK_SERVER_ENVIRONMENT",
		"server.cookie_name":       "STOCKDESK_SERVER_COOKIE_NAME",
		"api.base_url":             "STOCKDESK_API_BASE_URL",
		"api.timeout":              "STOCKDESK_API_TIMEOUT",
		"api.token":                "STOCKDESK_API_TOKEN",
		"log.level":                "STOCKDESK_LOG_LEVEL",
		"log.format":               "STOCKDESK_LOG_FORMAT",
		"cors.allowed_origins":     "STOCKDESK_CORS_ALLOWED_ORIGINS",
		"rate_limit.enabled":       "STOCKDESK_RATE_LIMIT_ENABLED",
		"rate_limit.rate":          "STOCKDESK_RATE_LIMIT_RATE",
		"redis.addr":               "STOCKDESK_REDIS_ADDR",
		"redis.password":           "STOCKDESK_REDIS_PASSWORD",
		"redis.db":                 "STOCKDESK_REDIS_DB",
		"s3.region":                "STOCKDESK_S3_REGION",
		"s3.bucket":                "STOCKDESK_S3_BUCKET",
		"s3.endpoint":              "STOCKDESK_S3_ENDPOINT",
		"s3.access_key":            "STOCKDESK_S3_ACCESS_KEY",
		"s3.secret_key":            "STOCKDESK_S3_SECRET_KEY",
		"s3.prefix":                "STOCKDESK_S3_PREFIX",
		"options.retry_base":       "STOCKDESK_OPTIONS_RETRY_BASE",
		"options.retry_multiplier": "STOCKDESK_OPTIONS_RETRY_MULTIPLIER",
		"options.max_attempts":     "STOCKDESK_OPTIONS_MAX_ATTEMPTS",
		"options.cache_ttl":        "STOCKDESK_OPTIONS_CACHE_TTL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("STOCKDESK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		CookieName:   v.GetString("server.cookie_name"),
	}
	cfg.API = APIConfig{
		BaseURL: strings.TrimRight(v.GetString("api.base_url"), "/"),
		Timeout: v.GetDuration("api.timeout"),
		Token:   v.GetString("api.token"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.RateLimit = RateLimitConfig{
		Enabled: v.GetBool("rate_limit.enabled"),
		Rate:    v.GetString("rate_limit.rate"),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
		Prefix:    v.GetString("s3.prefix"),
	}
	cfg.Options = OptionsConfig{
		RetryBase:       v.GetDuration("options.retry_base"),
		RetryMultiplier: v.GetFloat64("options.retry_multiplier"),
		MaxAttempts:     v.GetInt("options.max_attempts"),
		CacheTTL:        v.GetDuration("options.cache_ttl"),
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
