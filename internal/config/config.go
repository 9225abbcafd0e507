package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	defaultHTTPAddr        = ":5000"
	defaultEnvironment     = EnvDevelopment
	defaultMongoDatabase   = "product_store"
	defaultStaticDir       = "frontend/dist"
	defaultShutdownTimeout = 10 * time.Second

	defaultDBConnectTimeout  = 10 * time.Second
	defaultDBPingTimeout     = 5 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second

	defaultRateLimitMax    = 100
	defaultRateLimitWindow = 15 * time.Minute
)

type Config struct {
	MongoURI       string
	MongoDatabase  string
	RabbitMQURL    string
	HTTPAddr       string
	Environment    string
	AllowedOrigins []string
	StaticDir      string

	ShutdownTimeout   time.Duration
	DBConnectTimeout  time.Duration
	DBPingTimeout     time.Duration
	ReadHeaderTimeout time.Duration

	RateLimitMax    int
	RateLimitWindow time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		MongoURI:          getEnv("MONGODB_URI", ""),
		MongoDatabase:     getEnv("MONGO_DB", defaultMongoDatabase),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		HTTPAddr:          getEnv("HTTP_ADDR", defaultHTTPAddr),
		Environment:       getEnv("APP_ENV", defaultEnvironment),
		AllowedOrigins:    splitList(getEnv("ALLOWED_ORIGINS", "")),
		StaticDir:         getEnv("STATIC_DIR", defaultStaticDir),
		ShutdownTimeout:   defaultShutdownTimeout,
		DBConnectTimeout:  defaultDBConnectTimeout,
		DBPingTimeout:     defaultDBPingTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		RateLimitMax:      defaultRateLimitMax,
		RateLimitWindow:   defaultRateLimitWindow,
	}

	if cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.RabbitMQURL == "" {
		return Config{}, fmt.Errorf("RABBITMQ_URL is required")
	}

	return cfg, nil
}

// Notifications is the reduced configuration for the consumer binary.
type Notifications struct {
	RabbitMQURL     string
	ShutdownTimeout time.Duration
}

func LoadNotifications() (Notifications, error) {
	cfg := Notifications{
		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		ShutdownTimeout: defaultShutdownTimeout,
	}

	if cfg.RabbitMQURL == "" {
		return Notifications{}, fmt.Errorf("RABBITMQ_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
