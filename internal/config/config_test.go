package config

import (
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

// setEnvFile exports every key of an env file for the duration of the test
func setEnvFile(t *testing.T, path string) {
	t.Helper()

	vars, err := godotenv.Read(path)
	require.NoError(t, err, "Failed to read %s", path)
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

// TestLoadFromEnv tests loading configuration from environment variables
func TestLoadFromEnv(t *testing.T) {
	setEnvFile(t, "../../.env.test")

	cfg := &Config{}
	err := cfg.LoadFromEnv()
	require.NoError(t, err)

	// Verify configuration values
	require.Equal(t, "pulse", cfg.App.Name)
	require.Equal(t, "test", cfg.App.Environment)
	require.Equal(t, "1.0.0-test", cfg.App.Version)
	require.Equal(t, "8080", cfg.API.Port)
	require.Equal(t, []string{"http://localhost:3000", "http://localhost:8000"}, cfg.API.CORSOrigins)
	require.Equal(t, "localhost", cfg.Database.Host)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, "postgres", cfg.Database.User)
	require.Equal(t, "postgres", cfg.Database.Password)
	require.Equal(t, "pulse_test", cfg.Database.DBName)
	require.Equal(t, "disable", cfg.Database.SSLMode)
	require.Equal(t, "test_secret_key", cfg.Auth.JWTSecret)
	require.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenDuration)
	require.True(t, cfg.Auth.RegistrationOpen)
	require.Equal(t, "@every 30s", cfg.Monitor.Schedule)
	require.Equal(t, 2*time.Second, cfg.Monitor.Timeout)
	require.Equal(t, StoragePostgres, cfg.Storage)
	require.Equal(t, 1000, cfg.RateLimit.Requests)
	require.Equal(t, 60, cfg.RateLimit.Window)
	require.Equal(t, 50, cfg.RateLimit.Burst)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_NAME", "APP_ENV", "APP_VERSION", "API_PORT", "STORAGE", "DB_HOST", "DB_NAME",
		"ACCESS_TOKEN_MINUTES", "MONITOR_SCHEDULE", "MONITOR_TIMEOUT", "REDIS_ADDR", "AMQP_URL",
		"CORS_ORIGINS", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("JWT_SECRET", "secret")

	cfg := &Config{}
	require.NoError(t, cfg.LoadFromEnv())

	require.Equal(t, "development", cfg.App.Environment)
	require.Equal(t, "1.0.0", cfg.App.Version)
	require.Equal(t, "8080", cfg.API.Port)
	require.Equal(t, []string{"*"}, cfg.API.CORSOrigins)
	require.Equal(t, "pulse", cfg.Database.DBName)
	require.Equal(t, 5*time.Second, cfg.Monitor.Timeout)
	require.Empty(t, cfg.Redis.Addr)
	require.Empty(t, cfg.AMQP.URL)
	require.Equal(t, 100, cfg.RateLimit.Requests)
}

func TestLoadFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		errMsg string
	}{
		{
			name:   "Missing JWT secret",
			env:    map[string]string{"JWT_SECRET": ""},
			errMsg: "JWT_SECRET is required",
		},
		{
			name:   "Invalid port",
			env:    map[string]string{"JWT_SECRET": "secret", "API_PORT": "eighty"},
			errMsg: "invalid API_PORT",
		},
		{
			name:   "Unknown storage",
			env:    map[string]string{"JWT_SECRET": "secret", "API_PORT": "8080", "STORAGE": "mongo"},
			errMsg: "unsupported STORAGE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("API_PORT", "")
			t.Setenv("STORAGE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := &Config{}
			err := cfg.LoadFromEnv()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
