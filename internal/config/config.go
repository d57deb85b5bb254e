package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort    string // Application port
	DBUser     string // Database user
	DBPassword string // Database password
	DBHost     string // Database host
	DBPort     string // Database port
	DBName     string // Database name
	JWTSecret  string // JWT secret key
	RedisAddr  string // Redis server address
	RedisPass  string // Redis password
	RedisDB    int    // Redis database number
	IsProd     bool   // Is production environment

	CORSOrigins string // Comma-separated allowed origins for browser clients

	ProviderBaseURL string        // Upstream video generation API base URL
	ProviderTimeout time.Duration // Per-call HTTP timeout for the provider

	PremiumPrice   int64         // Wallet cost of one premium generation
	DailyFreeLimit int           // Free generations per user per UTC day
	MinTopupAmount int64         // Smallest accepted top-up request
	PollInterval   time.Duration // Delay between upstream status checks
	PollMaxAttempt int           // Status check ceiling before timing out
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:    os.Getenv("APP_PORT"),          // Application port
		DBUser:     os.Getenv("DB_USER"),           // Database user
		DBPassword: os.Getenv("DB_PASSWORD"),       // Database password
		DBHost:     os.Getenv("DB_HOST"),           // Database host
		DBPort:     os.Getenv("DB_PORT"),           // Database port
		DBName:     os.Getenv("DB_NAME"),           // Database name
		JWTSecret:  os.Getenv("JWT_SECRET"),        // JWT secret key
		RedisAddr:  os.Getenv("REDIS_ADDR"),        // Redis server address
		RedisPass:  os.Getenv("REDIS_PASS"),        // Redis password
		RedisDB:    redisDB,                        // Redis database number
		IsProd:     os.Getenv("IS_PROD") == "true", // Is production environment

		CORSOrigins: getEnv("CORS_ORIGINS", "*"), // Browser origins

		ProviderBaseURL: getEnv("PROVIDER_BASE_URL", "https://yabes-api.pages.dev/api/ai/video/v2"),
		ProviderTimeout: getDuration("PROVIDER_TIMEOUT", 15*time.Second),

		PremiumPrice:   getInt64("PREMIUM_PRICE", 20),
		DailyFreeLimit: getInt("DAILY_FREE_LIMIT", 7),
		MinTopupAmount: getInt64("MIN_TOPUP_AMOUNT", 100),
		PollInterval:   getDuration("POLL_INTERVAL", 3*time.Second),
		PollMaxAttempt: getInt("POLL_MAX_ATTEMPTS", 20),
	}
}

// getEnv returns the environment value, or fallback when unset
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getInt returns the environment value parsed as int, or fallback
func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getInt64 returns the environment value parsed as int64, or fallback
func getInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

// getDuration returns the environment value parsed as a duration, or fallback
func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
