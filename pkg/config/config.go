package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone database for minimal images

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseURL        string
	MongoDatabase      string
	AppEnv             string
	BaseURL            string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	JWTSecret          string
	FrontendURL        string
	AllowedEmails      []string

	RedisURL        string
	CacheTTL        time.Duration
	RateLimitRPM    int
	TrackingTimeout time.Duration

	Log       LogConfig
	Analytics AnalyticsConfig
}

type LogConfig struct {
	Level      string
	Format     string // text or json
	File       string // rotated with lumberjack when set
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type AnalyticsConfig struct {
	Timezone    string
	DefaultDays int
}

func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", "file:db.sqlite"),
		MongoDatabase:      getEnv("MONGO_DATABASE", "booking_bridge"),
		AppEnv:             getEnv("APP_ENV", "local"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
		JWTSecret:          getEnv("JWT_SECRET", "secret"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:8080/dashboard"),
		AllowedEmails:      getListEnv("ALLOWED_EMAILS"),

		RedisURL:        getEnv("REDIS_URL", ""),
		CacheTTL:        getDurationEnv("REDIS_CACHE_TTL", 5*time.Minute),
		RateLimitRPM:    getIntEnv("RATE_LIMIT_RPM", 120),
		TrackingTimeout: getDurationEnv("TRACKING_TIMEOUT", 5*time.Second),

		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "text"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getIntEnv("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getIntEnv("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getIntEnv("LOG_MAX_AGE_DAYS", 30),
		},
		Analytics: AnalyticsConfig{
			Timezone:    getEnv("ANALYTICS_TIMEZONE", "UTC"),
			DefaultDays: getIntEnv("ANALYTICS_DEFAULT_DAYS", 30),
		},
	}
}

// Location resolves the analytics timezone, falling back to UTC.
func (c AnalyticsConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getListEnv splits a comma separated value, dropping empty entries.
func getListEnv(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
