package config

import (
	"os"
	"strconv"
	"strings"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	LogLevel    string
	ProxyPrefix string

	PostgresDSN string
	DBPoolMin   int
	DBPoolMax   int

	MailjetKey    string
	MailjetSecret string
	NotifyAddress string

	ActionPolicy string
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "tracker"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "5000"
	}

	prefix := strings.TrimSpace(os.Getenv("PROXY_PREFIX"))
	if prefix == "" {
		prefix = "/"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		LogLevel:    envDefault("LOG_LEVEL", "info"),
		ProxyPrefix: prefix,

		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		DBPoolMin:   envInt("DB_POOL_MIN", 4),
		DBPoolMax:   envInt("DB_POOL_MAX", 20),

		MailjetKey:    os.Getenv("MAILJET_KEY"),
		MailjetSecret: os.Getenv("MAILJET_SECRET"),
		NotifyAddress: envDefault("NOTIF_MAIL", "none@example.com"),

		ActionPolicy: envDefault("TRACKER_ACTION_POLICY", "strict"),
	}, nil
}

func envDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
