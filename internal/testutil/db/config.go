package db

import (
	"os"
	"path/filepath"
	"pulse/internal/config"
	"runtime"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

// ProjectRoot returns the absolute path of the repository root
func ProjectRoot(t testing.TB) string {
	t.Helper()

	// Get the absolute path to this file
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	// Calculate project root (3 levels up from this file)
	projectRoot, err := filepath.Abs(filepath.Join(filepath.Dir(filename), "..", "..", ".."))
	require.NoError(t, err, "Failed to get absolute project root path")
	return projectRoot
}

// LoadTestConfig builds a config from .env.test in the project root. Variables already set in
// the environment win, so CI can point the tests at another database.
func LoadTestConfig(t testing.TB) *config.Config {
	t.Helper()

	projectRoot := ProjectRoot(t)

	values, err := godotenv.Read(filepath.Join(projectRoot, ".env.test"))
	require.NoError(t, err, "Failed to load .env.test file")
	for key, value := range values {
		if _, set := os.LookupEnv(key); !set {
			t.Setenv(key, value)
		}
	}

	cfg := &config.Config{}
	require.NoError(t, cfg.LoadFromEnv(), "Failed to load config")

	// Only override migrations path to ensure it's absolute
	cfg.Database.MigrationsPath = filepath.Join(projectRoot, "migrations")

	return cfg
}
