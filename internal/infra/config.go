package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend selectors for STORE_DRIVER and QUEUE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	CORSAllowedOrigins []string
	DefaultLocale      string
	GeoIPDBPath        string
	RateLimitPerMin    int

	UnsplashAPIKey     string
	UnsplashBaseURL    string
	ImageSearchTimeout time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	StoreDriver   string
	DatabaseURL   string
	QueueDriver   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DeliveryWorkers     int
	DeliveryMaxAttempts int
	DeliveryEmbedded    bool
	DeliveryLease       time.Duration
	StoragePath         string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8000"),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "fr"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		UnsplashAPIKey:     os.Getenv("UNSPLASH_API_KEY"),
		UnsplashBaseURL:    getEnv("UNSPLASH_BASE_URL", "https://api.unsplash.com"),
		ImageSearchTimeout: time.Second * time.Duration(getEnvInt("IMAGE_SEARCH_TIMEOUT_SECONDS", 10)),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@webgen.local"),

		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", DriverMemory)),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		QueueDriver:   strings.ToLower(getEnv("QUEUE_DRIVER", DriverMemory)),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		DeliveryWorkers:     getEnvInt("DELIVERY_WORKERS", 2),
		DeliveryMaxAttempts: getEnvInt("DELIVERY_MAX_ATTEMPTS", 1),
		DeliveryEmbedded:    getEnvBool("DELIVERY_EMBEDDED", true),
		DeliveryLease:       time.Second * time.Duration(getEnvInt("DELIVERY_LEASE_SECONDS", 600)),
		StoragePath:         getEnv("STORAGE_PATH", os.TempDir()),
	}

	switch cfg.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("STORE_DRIVER %q is not supported", cfg.StoreDriver)
	}

	switch cfg.QueueDriver {
	case DriverMemory, DriverRedis:
	default:
		return nil, fmt.Errorf("QUEUE_DRIVER %q is not supported", cfg.QueueDriver)
	}

	if cfg.DeliveryWorkers < 1 {
		return nil, fmt.Errorf("DELIVERY_WORKERS must be at least 1")
	}
	if cfg.DeliveryMaxAttempts < 1 {
		return nil, fmt.Errorf("DELIVERY_MAX_ATTEMPTS must be at least 1")
	}
	if cfg.DeliveryLease <= 0 {
		return nil, fmt.Errorf("DELIVERY_LEASE_SECONDS must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
