package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Cert         string
	Organization string
	Application  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// ServerURL is the externally visible base URL of this service, used to
	// build the OAuth callback address.
	ServerURL string

	// FrontendURL is the single origin allowed for credentialed CORS and the
	// target of post-login redirects.
	FrontendURL string

	DatabaseURL string
	RedisURL    string

	// AdminEmails is the injected allowlist: membership grants the admin role
	// at login, removal demotes on the next login.
	AdminEmails []string

	SessionTTL     time.Duration
	UploadDir      string
	TrustedProxies []string

	Casdoor CasdoorConfig
	Kafka   KafkaConfig
}

const defaultSessionTTL = 30 * 24 * time.Hour

// LoadConfig reads configuration from the environment, loading a local .env
// file first when one exists.
func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "5000"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       parseLogLevel(getEnv("LOG_LEVEL", "info")),
		ServerURL:      getEnv("SERVER_URL", "http://localhost:5000"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		AdminEmails:    splitList(os.Getenv("ADMIN_EMAILS")),
		SessionTTL:     parseDuration(getEnv("SESSION_TTL", ""), defaultSessionTTL),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
		Casdoor: CasdoorConfig{
			Endpoint:     os.Getenv("CASDOOR_ENDPOINT"),
			ClientID:     os.Getenv("CASDOOR_CLIENT_ID"),
			ClientSecret: os.Getenv("CASDOOR_CLIENT_SECRET"),
			Cert:         os.Getenv("CASDOOR_CERT"),
			Organization: os.Getenv("CASDOOR_ORGANIZATION"),
			Application:  os.Getenv("CASDOOR_APPLICATION"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "testing-service.events"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func parseLogLevel(value string) slog.Level {
	switch strings.ToLower(value) {
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
