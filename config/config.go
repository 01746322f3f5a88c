package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	MongoURI string
	DBName   string

	// Empty secret means bearer credentials are decoded without
	// signature verification.
	AuthVerifySecret string

	RateLimitRPM   int
	RateLimitBurst int

	ReconcileInterval time.Duration
}

func Load() *Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	rpm, _ := strconv.Atoi(getEnv("RATE_LIMIT_RPM", "120"))
	burst, _ := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "30"))

	interval, err := time.ParseDuration(getEnv("RECONCILE_INTERVAL", "1h"))
	if err != nil {
		interval = time.Hour
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:            getEnv("DB_NAME", "eventmate"),
		AuthVerifySecret:  os.Getenv("AUTH_VERIFY_SECRET"),
		RateLimitRPM:      rpm,
		RateLimitBurst:    burst,
		ReconcileInterval: interval,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
