// Package integration provides utilities for postgres integration testing
package integration

import (
	"context"
	"database/sql"
	"pulse/internal/config"
	"pulse/internal/models"
	"pulse/internal/repository"
	"pulse/internal/repository/postgres"
	"pulse/internal/testutil/db"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestContext holds a migrated test database and repositories built on it
type TestContext struct {
	T        *testing.T
	DB       *sql.DB
	Config   *config.Config
	UserRepo repository.UserRepository
}

// NewTestContext creates a new test context for postgres integration tests. The test is
// skipped when Postgres is not reachable.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	cfg := db.LoadTestConfig(t)
	testDB := db.SetupTestDB(t, &cfg.Database)

	return &TestContext{
		T:        t,
		DB:       testDB,
		Config:   cfg,
		UserRepo: postgres.NewUserRepository(testDB),
	}
}

// CreateTestUser inserts a user with the given details. Password is stored as given.
func (tc *TestContext) CreateTestUser(username, email, password string) *models.User {
	tc.T.Helper()
	user := &models.User{
		Username: username,
		Email:    email,
		Password: password,
	}
	require.NoError(tc.T, tc.UserRepo.Create(context.Background(), user), "Failed to create test user")
	return user
}

// CleanupTestUsers removes all users
func (tc *TestContext) CleanupTestUsers() {
	tc.T.Helper()
	tc.ExecuteSQL("DELETE FROM users")
}

// ExecuteSQL executes a raw SQL query for testing
func (tc *TestContext) ExecuteSQL(query string, args ...interface{}) {
	tc.T.Helper()
	_, err := tc.DB.ExecContext(context.Background(), query, args...)
	require.NoError(tc.T, err)
}
