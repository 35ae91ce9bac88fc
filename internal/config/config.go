package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DBDriver         string
	DBConnStr        string
	SQLitePath       string
	APIToken         string
	GRPCPort         int
	HTTPPort         int
	EODHDAPIKey      string
	EODHDBaseURL     string
	PriceTimeout     time.Duration
	LogLevel         string
	LogPretty        bool
	CORSOrigins      []string
	SchedulerEnabled bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DBDriver:         getEnv("DB_DRIVER", "postgres"),
		DBConnStr:        getEnv("DB_CONN_STR", ""),
		SQLitePath:       getEnv("SQLITE_PATH", "./data/investsim.db"),
		APIToken:         getEnv("API_TOKEN", "dev-token"),
		GRPCPort:         getEnvAsInt("GRPC_PORT", 8080),
		HTTPPort:         getEnvAsInt("HTTP_PORT", 8081),
		EODHDAPIKey:      getEnv("EODHD_API_KEY", "demo"),
		EODHDBaseURL:     getEnv("EODHD_BASE_URL", "https://eodhd.com"),
		PriceTimeout:     getEnvAsDuration("PRICE_TIMEOUT", 10*time.Second),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogPretty:        getEnvAsBool("LOG_PRETTY", false),
		CORSOrigins:      getEnvAsList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		SchedulerEnabled: getEnvAsBool("SCHEDULER_ENABLED", true),
	}

	if cfg.DBDriver == "postgres" && cfg.DBConnStr == "" {
		// If explicit string is missing, build it from individual vars (Docker friendly)
		cfg.DBConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "investsim"),
		)
	}
	if cfg.DBDriver == "sqlite" && cfg.DBConnStr == "" {
		cfg.DBConnStr = cfg.SQLitePath
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	if c.APIToken == "" {
		return fmt.Errorf("API_TOKEN is required")
	}
	if c.GRPCPort <= 0 || c.HTTPPort <= 0 {
		return fmt.Errorf("GRPC_PORT and HTTP_PORT must be positive")
	}
	if c.PriceTimeout <= 0 {
		return fmt.Errorf("PRICE_TIMEOUT must be positive")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
