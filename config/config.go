package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Deal      DealConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type DealConfig struct {
	// LockTimeout bounds per-deal lock acquisition; exceeded waits surface
	// as a retryable timeout instead of blocking indefinitely.
	LockTimeout time.Duration
	// ExpiryAge is how long a deal stays ACTIVE before the expiry scan
	// marks it EXPIRED.
	ExpiryAge time.Duration
}

type SchedulerConfig struct {
	ExpiryScanSpec string // cron spec for the deal expiry scan
	ViewFlushSpec  string // cron spec for draining redis view counters
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "hotdeals"),
			Password: getEnv("DB_PASSWORD", "hotdeals"),
			DBName:   getEnv("DB_NAME", "hotdeals"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			// Vote bursts on a hot deal fan out over many short-lived
			// connections; the pool ceiling bounds them.
			MaxIdleConns:    parseInt(getEnv("DB_MAX_IDLE_CONNS", "10"), 10),
			MaxOpenConns:    parseInt(getEnv("DB_MAX_OPEN_CONNS", "100"), 100),
			ConnMaxLifetime: parseDuration(getEnv("DB_CONN_MAX_LIFETIME", "30m"), 30*time.Minute),
		},
		Redis: RedisConfig{
			Enabled:  getEnv("REDIS_ENABLED", "false") == "true",
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Deal: DealConfig{
			LockTimeout: parseDuration(getEnv("DEAL_LOCK_TIMEOUT", "3s"), 3*time.Second),
			ExpiryAge:   parseDuration(getEnv("DEAL_EXPIRY_AGE", "720h"), 720*time.Hour),
		},
		Scheduler: SchedulerConfig{
			ExpiryScanSpec: getEnv("SCHEDULER_EXPIRY_SPEC", "@hourly"),
			ViewFlushSpec:  getEnv("SCHEDULER_VIEW_FLUSH_SPEC", "@every 5m"),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		result = append(result, strings.TrimSpace(part))
	}
	return result
}
