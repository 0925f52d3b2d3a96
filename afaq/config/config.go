package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSessionSecret is a placeholder; Validate rejects it.
const DefaultSessionSecret = "change-me"

var ErrDefaultSessionSecret = errors.New("SESSION_SECRET is unset or uses the default value")

type Config struct {
	Addr           string
	LogDir         string
	AllowedOrigins []string

	DBDriver   string
	DBPath     string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	SessionSecret string
	SessionMaxAge time.Duration
	CookieSecure  bool

	GroqAPIKey    string
	GroqModel     string
	GroqMaxTokens int

	WebsiteURL      string
	WebsiteCacheTTL time.Duration

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOSecure    bool
}

func LoadConfig() Config {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	return Config{
		Addr:           getEnv("ADDR", ":8000"),
		LogDir:         getEnv("LOG_DIR", "./logs"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DATABASE_PATH", "database/chatbot.db"),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", ""),
		DBName:     getEnv("DB_NAME", ""),

		SessionSecret: getEnv("SESSION_SECRET", DefaultSessionSecret),
		SessionMaxAge: getDuration("SESSION_MAX_AGE", 30*24*time.Hour),
		CookieSecure:  getBool("COOKIE_SECURE", false),

		GroqAPIKey:    getEnv("GROQ_API_KEY", ""),
		GroqModel:     getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GroqMaxTokens: getInt("GROQ_MAX_TOKENS", 600),

		WebsiteURL:      getEnv("WEBSITE_URL", "https://toursafaq.com/"),
		WebsiteCacheTTL: getDuration("WEBSITE_CACHE_TTL", 10*time.Minute),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "afaq-website"),
		MinIOSecure:    getBool("MINIO_SECURE", false),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(val string) []string {
	var out []string
	for _, p := range strings.Split(val, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports settings the backend must not start with.
func (c Config) Validate() error {
	if c.SessionSecret == "" || c.SessionSecret == DefaultSessionSecret {
		return ErrDefaultSessionSecret
	}
	return nil
}
