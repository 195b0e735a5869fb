// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	DBMaxConns        int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// AI provider settings, used for translation
	AIProvider     string // "openai", "claude", "mistral"
	OpenAIKey      string
	OpenAIModel    string
	OpenAIBaseURL  string
	ClaudeKey      string
	ClaudeModel    string
	ClaudeBaseURL  string
	MistralKey     string
	MistralModel   string
	MistralBaseURL string

	// S3-compatible object storage for uploaded images
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Studio login
	StudioEmail        string
	StudioPasswordHash string // bcrypt
	JWTSecret          string
	TokenTTL           time.Duration

	// Cache lifetimes
	RenderCacheTTL      time.Duration
	DraftTTL            time.Duration
	TranslationCacheTTL time.Duration

	// Analytics queue
	AnalyticsBuffer        int
	AnalyticsBatchSize     int
	AnalyticsFlushInterval time.Duration

	// Public API rate limiting, per client IP
	RateLimitRPS   float64
	RateLimitBurst int

	// Uploads
	MaxUploadMB   int
	ImageMaxWidth int

	// Content languages
	DefaultLanguage string
	Languages       []string
}

const (
	defaultDBPassword = "changeme"
	defaultJWTSecret  = "dev-insecure-secret"
)

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first when present; real environment variables win over it.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "contentstudio"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", defaultDBPassword),
		DBName:     envOrDefault("POSTGRES_DB", "contentstudio"),

		DBMaxConns:        envInt("POSTGRES_MAX_CONNS", 25),
		DBMaxIdleConns:    envInt("POSTGRES_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: envDuration("POSTGRES_CONN_MAX_LIFETIME", 30*time.Minute),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AIProvider:     envOrDefault("AI_PROVIDER", "openai"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:  envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ClaudeKey:      os.Getenv("CLAUDE_API_KEY"),
		ClaudeModel:    envOrDefault("CLAUDE_MODEL", "claude-sonnet-4-6"),
		ClaudeBaseURL:  envOrDefault("CLAUDE_BASE_URL", "https://api.anthropic.com"),
		MistralKey:     os.Getenv("MISTRAL_API_KEY"),
		MistralModel:   envOrDefault("MISTRAL_MODEL", "mistral-large-latest"),
		MistralBaseURL: envOrDefault("MISTRAL_BASE_URL", "https://api.mistral.ai"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "contentstudio-public"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		StudioEmail:        envOrDefault("STUDIO_EMAIL", "studio@localhost"),
		StudioPasswordHash: os.Getenv("STUDIO_PASSWORD_HASH"),
		JWTSecret:          envOrDefault("JWT_SECRET", defaultJWTSecret),
		TokenTTL:           envDuration("STUDIO_TOKEN_TTL", 12*time.Hour),

		RenderCacheTTL:      envDuration("RENDER_CACHE_TTL", 10*time.Minute),
		DraftTTL:            envDuration("DRAFT_TTL", 7*24*time.Hour),
		TranslationCacheTTL: envDuration("TRANSLATION_CACHE_TTL", 30*24*time.Hour),

		AnalyticsBuffer:        envInt("ANALYTICS_BUFFER", 1024),
		AnalyticsBatchSize:     envInt("ANALYTICS_BATCH_SIZE", 100),
		AnalyticsFlushInterval: envDuration("ANALYTICS_FLUSH_INTERVAL", 5*time.Second),

		RateLimitRPS:   envFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 30),

		MaxUploadMB:   envInt("MAX_UPLOAD_MB", 10),
		ImageMaxWidth: envInt("IMAGE_MAX_WIDTH", 1600),

		DefaultLanguage: envOrDefault("DEFAULT_LANGUAGE", "en"),
		Languages:       envList("LANGUAGES", []string{"en", "ro", "de", "fr", "es"}),
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == defaultDBPassword {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.JWTSecret == defaultJWTSecret {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		if cfg.StudioPasswordHash == "" {
			return nil, fmt.Errorf("STUDIO_PASSWORD_HASH must be set in production")
		}
	}

	if !cfg.SupportsLanguage(cfg.DefaultLanguage) {
		cfg.Languages = append([]string{cfg.DefaultLanguage}, cfg.Languages...)
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// SupportsLanguage reports whether lang is one of the configured content languages.
func (c *Config) SupportsLanguage(lang string) bool {
	for _, l := range c.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt reads an integer variable. Unparseable values fall back with a warning.
func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		slog.Warn("invalid number in environment, using default", "key", key, "value", v)
		return fallback
	}
	return f
}

// envDuration reads a Go duration string such as "90s" or "12h".
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return fallback
	}
	return d
}

// envList reads a comma-separated list, dropping blanks.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
