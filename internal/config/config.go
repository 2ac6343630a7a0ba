package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read from .env and the environment.
type Config struct {
	Env                string
	HTTPAddr           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPass             string
	DBName             string
	RedisAddr          string
	KafkaBrokers       []string
	OrderTopic         string
	StockGroupID       string
	APIKey             string
	JWTSecret          string
	LoyaltyProgramName string
	Location           *time.Location
	RateLimit          float64
	RateBurst          int
}

// Load reads .env when present, then the environment. Unknown time zones
// fall back to UTC.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                getEnv("ENV", "development"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "3306"),
		DBUser:             getEnv("DB_USER", "root"),
		DBPass:             getEnv("DB_PASS", ""),
		DBName:             getEnv("DB_NAME", "coffee_shop"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:       getKafkaBrokerURLs(),
		OrderTopic:         getEnv("ORDER_TOPIC", "order-topic"),
		StockGroupID:       getEnv("STOCK_GROUP_ID", "stock-service-group"),
		APIKey:             os.Getenv("API_KEY"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		LoyaltyProgramName: getEnv("LOYALTY_PROGRAM_NAME", "Coffee Stamps"),
		RateLimit:          getEnvFloat("RATE_LIMIT", 10),
		RateBurst:          getEnvInt("RATE_BURST", 20),
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Asia/Manila"))
	if err != nil {
		loc = time.UTC
	}
	cfg.Location = loc
	return cfg
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
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

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}
