package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	Port            string
	DBConn          string
	LogLevel        string
	CBRURL          string
	KeyRateMargin   decimal.Decimal
	KeyRateSchedule string
	RedisAddr       string
	AutoMigrate     bool
}

// NewConfig loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment wins.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	margin, err := decimal.NewFromString(getEnv("KEY_RATE_MARGIN", "0"))
	if err != nil {
		return nil, fmt.Errorf("KEY_RATE_MARGIN is not a number: %w", err)
	}

	autoMigrate, err := strconv.ParseBool(getEnv("AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("AUTO_MIGRATE is not a boolean: %w", err)
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DBConn:          getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=profile sslmode=disable"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		CBRURL:          getEnv("CBR_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),
		KeyRateMargin:   margin,
		KeyRateSchedule: getEnv("KEY_RATE_SCHEDULE", "@every 6h"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		AutoMigrate:     autoMigrate,
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("PORT is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
