package handlers_test

import (
	"pulse/internal/models"
	"pulse/internal/testutil"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootHandler_Root(t *testing.T) {
	app := testutil.NewTestApp(t)

	resp := testutil.CheckRoot(t, app.Client)

	var root models.RootResponse
	require.NoError(t, resp.JSON(&root))
	require.Equal(t, "Welcome to the pulse API", root.Message)
	require.Equal(t, "1.0.0-test", root.Version)
	require.Equal(t, "test", root.Environment)
	require.Equal(t, "/swagger/index.html", root.Docs)
}
