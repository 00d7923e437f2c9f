package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends for user data
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config represents the application configuration
type Config struct {
	// App contains identity information reported by the health endpoint
	App AppConfig
	// API contains API server configuration
	API APIConfig
	// Auth contains authentication configuration
	Auth AuthConfig
	// Database contains database configuration
	Database DatabaseConfig
	// Monitor contains dependency monitor configuration
	Monitor MonitorConfig
	// Redis contains the optional Redis dependency settings
	Redis RedisConfig
	// AMQP contains the optional message broker dependency settings
	AMQP AMQPConfig

	// Storage selects the user repository backend ("postgres" or "memory")
	Storage string

	// Rate Limiting Configuration
	RateLimit struct {
		Requests int // Number of requests allowed per window
		Window   int // Time window in seconds
		Burst    int // Maximum burst size
	}
}

// AppConfig describes the running application
type AppConfig struct {
	// Name is shown in the root banner
	Name string
	// Environment is the deployment environment (development, staging, production)
	Environment string
	// Version is the application version
	Version string
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port string
	// CORSOrigins lists the origins allowed to call the API
	CORSOrigins []string
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	// JWTSecret is the secret key used to sign JWT tokens
	JWTSecret string
	// AccessTokenDuration is the lifetime of an access token
	AccessTokenDuration time.Duration
	// RegistrationOpen determines if new user registration is allowed
	RegistrationOpen bool
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname
	Host string
	// Port is the database server port
	Port int
	// User is the database username
	User string
	// Password is the database password
	Password string
	// DBName is the database name
	DBName string
	// SSLMode is the SSL mode for the database connection
	SSLMode string
	// MigrationsPath is the path to database migrations
	MigrationsPath string
}

// MonitorConfig controls the background dependency checks
type MonitorConfig struct {
	// Schedule in cron format (e.g. "@every 30s")
	Schedule string
	// Timeout bounds a single dependency check
	Timeout time.Duration
}

// RedisConfig contains Redis connection settings. An empty Addr disables the check.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AMQPConfig contains message broker settings. An empty URL disables the check.
type AMQPConfig struct {
	URL string
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	c.App = AppConfig{
		Name:        getEnvOrDefault("APP_NAME", "pulse"),
		Environment: getEnvOrDefault("APP_ENV", "development"),
		Version:     getEnvOrDefault("APP_VERSION", "1.0.0"),
	}
	c.API = APIConfig{
		Port:        getEnvOrDefault("API_PORT", "8080"),
		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
	}
	c.Database = DatabaseConfig{
		Host:           getEnvOrDefault("DB_HOST", "localhost"),
		Port:           getEnvAsInt("DB_PORT", 5432),
		User:           getEnvOrDefault("DB_USER", "postgres"),
		Password:       getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:         getEnvOrDefault("DB_NAME", "pulse"),
		SSLMode:        getEnvOrDefault("DB_SSL_MODE", "disable"),
		MigrationsPath: getEnvOrDefault("DB_MIGRATIONS_PATH", "migrations"),
	}
	c.Auth = AuthConfig{
		JWTSecret:           os.Getenv("JWT_SECRET"),
		AccessTokenDuration: time.Duration(getEnvAsInt("ACCESS_TOKEN_MINUTES", 30)) * time.Minute,
		RegistrationOpen:    getEnvAsBool("REGISTRATION_OPEN", true),
	}
	c.Monitor = MonitorConfig{
		Schedule: getEnvOrDefault("MONITOR_SCHEDULE", "@every 30s"),
		Timeout:  getEnvAsDuration("MONITOR_TIMEOUT", 5*time.Second),
	}
	c.Redis = RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       getEnvAsInt("REDIS_DB", 0),
	}
	c.AMQP = AMQPConfig{
		URL: os.Getenv("AMQP_URL"),
	}
	c.Storage = strings.ToLower(getEnvOrDefault("STORAGE", StoragePostgres))

	// Load rate limit configuration
	c.RateLimit.Requests = getEnvAsInt("RATE_LIMIT_REQUESTS", 100)
	c.RateLimit.Window = getEnvAsInt("RATE_LIMIT_WINDOW", 60)
	c.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 20)

	return c.Validate()
}

// Validate checks that required fields are present and consistent
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if _, err := strconv.Atoi(c.API.Port); err != nil {
		return fmt.Errorf("invalid API_PORT %q: %w", c.API.Port, err)
	}
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("unsupported STORAGE %q", c.Storage)
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit requests and window must be positive")
	}
	return nil
}

// getEnvAsInt retrieves an environment variable and converts it to an integer
func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvAsBool retrieves an environment variable and converts it to a boolean
func getEnvAsBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

// getEnvAsList splits a comma separated variable, dropping empty items
func getEnvAsList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
