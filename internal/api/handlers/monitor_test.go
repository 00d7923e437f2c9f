package handlers_test

import (
	"net/http"
	"pulse/internal/models"
	"pulse/internal/testutil"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMonitorHandler_ListChecks(t *testing.T) {
	app := testutil.NewTestApp(t, testutil.WithChecker(failingChecker{name: "amqp"}))
	user := app.CreateTestUser("viewer", "viewer@example.com", "password123")

	resp := app.Client.Get("/api/monitor/checks")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = app.Client.Get("/api/monitor/checks", app.GetTestJWT(user))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Body))

	var checks models.ReadinessResponse
	require.NoError(t, resp.JSON(&checks))
	require.Equal(t, models.StatusNotReady, checks.Status)
	require.Equal(t, models.StatusHealthy, checks.Dependencies["database"].Status)
	require.Equal(t, models.StatusUnhealthy, checks.Dependencies["amqp"].Status)
	require.Equal(t, "amqp unreachable", checks.Dependencies["amqp"].Message)
}

func TestMonitorHandler_RunChecks(t *testing.T) {
	app := testutil.NewTestApp(t, testutil.WithoutInitialCheck())
	admin := app.CreateTestUser("admin", "admin@example.com", "password123")
	member := app.CreateTestUser("member", "member@example.com", "password123")

	resp := app.Client.PostJSON("/api/monitor/run", "", app.GetTestJWT(member))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Nothing has run yet
	status, err := app.Monitor.Status("database")
	require.NoError(t, err)
	require.Equal(t, models.StatusUnknown, status.Status)

	resp = app.Client.PostJSON("/api/monitor/run", "", app.GetTestJWT(admin))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Body))

	var checks models.ReadinessResponse
	require.NoError(t, resp.JSON(&checks))
	require.Equal(t, models.StatusReady, checks.Status)
	require.Equal(t, models.StatusHealthy, checks.Dependencies["database"].Status)

	status, err = app.Monitor.Status("database")
	require.NoError(t, err)
	require.Equal(t, models.StatusHealthy, status.Status)
}
