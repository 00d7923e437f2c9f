package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"pulse/internal/models"
	"pulse/internal/testutil"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name         string
		opts         []testutil.Option
		wantDatabase string
	}{
		{
			name:         "Database Connected",
			wantDatabase: models.DatabaseConnected,
		},
		{
			name:         "Error_DatabaseDown",
			opts:         []testutil.Option{testutil.WithDatabaseDown()},
			wantDatabase: models.DatabaseDisconnected,
		},
		{
			name:         "No Database",
			opts:         []testutil.Option{testutil.WithoutDatabase()},
			wantDatabase: models.DatabaseDisabled,
		},
		{
			name:         "Not Checked Yet",
			opts:         []testutil.Option{testutil.WithoutInitialCheck()},
			wantDatabase: models.DatabaseUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testutil.NewTestApp(t, tt.opts...)

			// Liveness never depends on the database
			body := testutil.CheckHealth(t, app.Client)
			require.Equal(t, "test", body["environment"])
			require.Equal(t, "1.0.0-test", body["version"])
			require.Equal(t, tt.wantDatabase, body["database"])
		})
	}
}

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name       string
		opts       []testutil.Option
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Success",
			wantStatus: http.StatusOK,
			wantBody:   models.StatusReady,
		},
		{
			name:       "Error_DatabaseDown",
			opts:       []testutil.Option{testutil.WithDatabaseDown()},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   models.StatusNotReady,
		},
		{
			name:       "Error_ExtraDependencyDown",
			opts:       []testutil.Option{testutil.WithChecker(failingChecker{name: "redis"})},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   models.StatusNotReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testutil.NewTestApp(t, tt.opts...)

			resp := app.Client.Get("/ready")
			require.Equal(t, tt.wantStatus, resp.StatusCode, string(resp.Body))

			var ready models.ReadinessResponse
			require.NoError(t, resp.JSON(&ready))
			require.Equal(t, tt.wantBody, ready.Status)
			require.Contains(t, ready.Dependencies, "database")
		})
	}
}

func TestHealthHandler_ReadyRefreshesHealth(t *testing.T) {
	app := testutil.NewTestApp(t)
	require.Equal(t, models.DatabaseConnected, testutil.CheckHealth(t, app.Client)["database"])

	app.Database.SetErr(testutil.ErrDatabaseDown)
	resp := app.Client.Get("/ready")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var ready models.ReadinessResponse
	require.NoError(t, resp.JSON(&ready))
	require.Equal(t, models.StatusUnhealthy, ready.Dependencies["database"].Status)
	require.Equal(t, testutil.ErrDatabaseDown.Error(), ready.Dependencies["database"].Message)

	require.Equal(t, models.DatabaseDisconnected, testutil.CheckHealth(t, app.Client)["database"])
}

type failingChecker struct {
	name string
}

func (c failingChecker) Name() string { return c.name }

func (c failingChecker) Check(ctx context.Context) error {
	return errors.New(c.name + " unreachable")
}
