package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port          string
	PostgresDSN   string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	RedisPassword string

	JWTSecret string
	// TokenTTL is unusually long for a bearer token (inherited default of
	// ~100 hours); shorten it once refresh tokens exist.
	TokenTTL time.Duration

	GithubClientID     string
	GithubClientSecret string
}

func Load() *Config {
	// A missing .env is fine in containers; real env vars win either way.
	_ = godotenv.Load()

	return &Config{
		Port:          getenv("PORT", "8080"),
		PostgresDSN:   getenv("POSTGRES_DSN", ""),
		MongoURI:      getenv("MONGO_URI", ""),
		MongoDB:       getenv("MONGO_DB", "devlink"),
		RedisAddr:     getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		JWTSecret: getenv("JWT_SECRET", ""),
		TokenTTL:  time.Duration(getenvInt("TOKEN_TTL_HOURS", 100)) * time.Hour,

		GithubClientID:     getenv("GITHUB_CLIENT_ID", ""),
		GithubClientSecret: getenv("GITHUB_CLIENT_SECRET", ""),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
