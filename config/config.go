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
	Server   ServerConfig
	Redis    RedisConfig
	Sessions SessionConfig
	App      AppConfig
}

type ServerConfig struct {
	Port               string
	RateLimitRPS       float64
	RateLimitBurst     int
	CORSAllowedOrigins []string
}

// RedisConfig is optional; an empty Addr keeps workspaces in memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	IdleTTL       time.Duration
	MaxWorkspaces int
	SweepSpec     string
	SeedFile      string
}

type AppConfig struct {
	Environment   string
	LogLevel      string
	Version       string
	DefaultLocale string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 20),
			RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 40),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Sessions: SessionConfig{
			IdleTTL:       getEnvAsDuration("SESSION_IDLE_TTL", 30*time.Minute),
			MaxWorkspaces: getEnvAsInt("SESSION_MAX_WORKSPACES", 10000),
			SweepSpec:     getEnv("SESSION_SWEEP_SPEC", "@every 1m"),
			SeedFile:      getEnv("SEED_FILE", ""),
		},
		App: AppConfig{
			Environment:   getEnv("APP_ENV", "development"),
			LogLevel:      getEnv("LOG_LEVEL", "info"),
			Version:       getEnv("APP_VERSION", "1.0.0"),
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}

	if c.Sessions.IdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be positive")
	}

	if c.Sessions.MaxWorkspaces < 0 {
		return fmt.Errorf("SESSION_MAX_WORKSPACES must not be negative")
	}

	for _, origin := range c.Server.CORSAllowedOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("CORS_ALLOWED_ORIGINS: %q must start with http:// or https://", origin)
		}
	}

	if c.App.DefaultLocale == "" {
		return fmt.Errorf("DEFAULT_LOCALE is required")
	}

	return nil
}

// IsProduction reports whether APP_ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
