package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Suspension SuspensionConfig
	Timeout    TimeoutConfig
	Sentry     SentryConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	Environment  string
	ServiceName  string
	ReadTimeout  int
	WriteTimeout int
	CORSOrigins  string // Comma-separated list of allowed origins
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MaxConns      int
	MinConns      int
	MigrationsDir string
}

// DSN builds the postgres connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// RedisAddr builds the redis address string.
func (c *RedisConfig) RedisAddr() string {
	return c.Host + ":" + c.Port
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret     string
	Expiration int // in hours
}

// SuspensionConfig controls the suspension expiry worker. Auto-expiry is a
// separately scoped feature and is disabled unless explicitly turned on;
// reactivation otherwise stays a manual admin action.
type SuspensionConfig struct {
	AutoExpiry         bool
	ExpiryCheckMinutes int
}

// Timeout defaults and bounds, in seconds.
const (
	DefaultRequestTimeout = 30
	MaxRequestTimeout     = 300
)

// TimeoutConfig holds per-request timeout configuration. RouteOverrides is
// keyed "METHOD:/route/template" and wins over the default for that route.
type TimeoutConfig struct {
	DefaultRequestTimeout int
	RouteOverrides        map[string]int
}

// DefaultRequestTimeoutDuration returns the default request timeout as a duration.
func (c *TimeoutConfig) DefaultRequestTimeoutDuration() time.Duration {
	return time.Duration(c.DefaultRequestTimeout) * time.Second
}

// TimeoutForRoute returns the timeout for a method + route template pair.
func (c *TimeoutConfig) TimeoutForRoute(method, route string) time.Duration {
	if seconds, ok := c.RouteOverrides[method+":"+route]; ok {
		return time.Duration(seconds) * time.Second
	}
	return c.DefaultRequestTimeoutDuration()
}

// SentryConfig holds error tracking configuration
type SentryConfig struct {
	DSN     string
	Enabled bool
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ServiceName:  serviceName,
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", "postgres"),
			DBName:        getEnv("DB_NAME", "driver_console"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			MaxConns:      getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:      getEnvAsInt("DB_MIN_CONNS", 5),
			MigrationsDir: getEnv("DB_MIGRATIONS_DIR", "migrations"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			Expiration: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Suspension: SuspensionConfig{
			AutoExpiry:         getEnvAsBool("SUSPENSION_AUTO_EXPIRY", false),
			ExpiryCheckMinutes: getEnvAsInt("SUSPENSION_EXPIRY_CHECK_MINUTES", 15),
		},
		Timeout: TimeoutConfig{
			DefaultRequestTimeout: getEnvAsInt("DEFAULT_REQUEST_TIMEOUT", DefaultRequestTimeout),
			RouteOverrides:        make(map[string]int),
		},
		Sentry: SentryConfig{
			DSN:     getEnv("SENTRY_DSN", ""),
			Enabled: getEnv("SENTRY_DSN", "") != "",
		},
	}

	if cfg.Timeout.DefaultRequestTimeout > MaxRequestTimeout {
		return nil, fmt.Errorf("DEFAULT_REQUEST_TIMEOUT %d exceeds maximum of %d seconds",
			cfg.Timeout.DefaultRequestTimeout, MaxRequestTimeout)
	}

	if overrides := getEnv("ROUTE_TIMEOUT_OVERRIDES", ""); overrides != "" {
		parsed := make(map[string]int)
		if err := json.Unmarshal([]byte(overrides), &parsed); err != nil {
			return nil, fmt.Errorf("ROUTE_TIMEOUT_OVERRIDES is not valid JSON: %w", err)
		}
		for route, seconds := range parsed {
			if seconds > MaxRequestTimeout {
				return nil, fmt.Errorf("route timeout for %s exceeds maximum of %d seconds", route, MaxRequestTimeout)
			}
			if seconds <= 0 {
				continue
			}
			cfg.Timeout.RouteOverrides[route] = seconds
		}
	}

	if cfg.Server.Environment == "production" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
