package config

import (
	"os"
	"strconv"
	"time"

	"todo_store/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	Version     string

	// Redis backs the rate limiter; empty addr falls back to the in-memory limiter
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWTSecret enables bearer-token protection of mutating routes when set
	JWTSecret string

	AllowedOrigin   string
	APIRateLimit    int
	APIRateWindow   time.Duration
	ShutdownTimeout time.Duration

	LogLevel string
	LogJSON  bool
}

// Load reads the config from env, falling back to .env
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	version := os.Getenv("APP_VERSION")
	if version == "" {
		version = "dev"
	}

	return &Config{
		AppPort:         port,
		DatabaseURL:     dbURL,
		Version:         version,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         intEnv("REDIS_DB", 0),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AllowedOrigin:   os.Getenv("ALLOWED_ORIGIN"),
		APIRateLimit:    intEnv("API_RATE_LIMIT", 120),
		APIRateWindow:   time.Duration(intEnv("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		ShutdownTimeout: time.Duration(intEnv("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		LogLevel:        os.Getenv("LOG_LEVEL"),
		LogJSON:         os.Getenv("LOG_JSON") == "true",
	}
}

// intEnv reads a positive integer, keeping def on absence or garbage.
func intEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		logger.Warn("ignoring invalid env value", "key", key, "value", v)
		return def
	}
	return n
}
