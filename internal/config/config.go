package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Storage drivers
	StoreDriver   string // postgres, sqlite, memory
	SQLitePath    string
	MessageStore  string // postgres, mongo
	MongoURI      string
	MongoDatabase string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Admin
	AdminEmails string
	AdminToken  string

	// Server
	Port        string
	CORSOrigins string
	AppEnv      string
	RateLimit   int // requests per minute per IP; 0 disables

	// Integrations
	NATSURL              string
	PaymentWebhookSecret string
	SentryDSN            string

	// Platform
	SettingsPath     string
	MeetingBaseURL   string
	LogRetentionDays int
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real env vars win.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "mentorconnect"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		StoreDriver:   getEnv("STORE_DRIVER", "postgres"),
		SQLitePath:    getEnv("SQLITE_PATH", "mentorconnect.db"),
		MessageStore:  getEnv("MESSAGE_STORE", "postgres"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DB", "mentorconnect"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h")),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),
		AdminToken:  getEnv("ADMIN_TOKEN", ""),

		Port:        getEnv("PORT", "5000"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		AppEnv:      getEnv("APP_ENV", "development"),
		RateLimit:   getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		NATSURL:              getEnv("NATS_URL", ""),
		PaymentWebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", ""),
		SentryDSN:            getEnv("SENTRY_DSN", ""),

		SettingsPath:     getEnv("SETTINGS_PATH", "settings.yaml"),
		MeetingBaseURL:   getEnv("MEETING_BASE_URL", "https://meet.jit.si"),
		LogRetentionDays: getEnvInt("LOG_RETENTION_DAYS", 30),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// UsesPostgres reports whether the relational store is Postgres. The sqlite
// and memory drivers need no DB credentials.
func (c *Config) UsesPostgres() bool {
	return c.StoreDriver == "postgres"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}
