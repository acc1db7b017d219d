package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

const devSecret = "siwes-dev-secret-do-not-use-in-production"

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Env                  string
	DatabaseURL          string
	JWTSecret            string
	JWTIssuer            string
	AccessTTLSeconds     int64
	RefreshTTLSeconds    int64
	MetricsDiskPath      string
	MetricsSampleSeconds int
	CorsOrigins          []string
	AdminEmail           string
	AdminPassword        string
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func Load() Config {
	cfg := Config{
		Env:                  envOr("APP_ENV", "development"),
		DatabaseURL:          mustEnv("DATABASE_URL"),
		JWTSecret:            strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:            envOr("JWT_ISSUER", "siwes-logbook"),
		AccessTTLSeconds:     int64(envOrInt("ACCESS_TTL_SECONDS", 86400)),
		RefreshTTLSeconds:    int64(envOrInt("REFRESH_TTL_SECONDS", 604800)),
		MetricsDiskPath:      envOr("METRICS_DISK_PATH", "storage"),
		MetricsSampleSeconds: envOrInt("METRICS_SAMPLE_INTERVAL", 15),
		CorsOrigins:          parseCSV(envOr("CORS_ORIGINS", "")),
		AdminEmail:           envOr("ADMIN_EMAIL", "admin@siwes.edu.ng"),
		AdminPassword:        envOr("ADMIN_PASSWORD", "admin123"),
	}
	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			panic("missing env var: JWT_SECRET")
		}
		log.Printf("JWT_SECRET not set, using insecure development default")
		cfg.JWTSecret = devSecret
	}
	return cfg
}

func mustEnv(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		panic("missing env var: " + key)
	}
	return value
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
