package testutil

import (
	"net/http"

	"github.com/stretchr/testify/require"
)

// TestingT is the part of *testing.T the scenario checks use
type TestingT interface {
	require.TestingT
	Helper()
}

// CheckHealth requires GET /health to answer 200 with status "healthy" and the
// environment and version keys present. It returns the decoded body.
func CheckHealth(t TestingT, c *Client) map[string]interface{} {
	t.Helper()

	resp := c.Get("/health")
	require.Equal(t, http.StatusOK, resp.StatusCode, "GET /health: expected status 200, body: %s", resp.Body)

	var body map[string]interface{}
	require.NoError(t, resp.JSON(&body), "GET /health: body is not a JSON object: %s", resp.Body)
	require.Contains(t, body, "status", "GET /health: body has no status key")
	require.Equal(t, "healthy", body["status"], "GET /health: status is not \"healthy\"")
	require.Contains(t, body, "environment", "GET /health: body has no environment key")
	require.Contains(t, body, "version", "GET /health: body has no version key")

	return body
}

// CheckRoot requires GET / to answer 200
func CheckRoot(t TestingT, c *Client) *Response {
	t.Helper()

	resp := c.Get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode, "GET /: expected status 200, body: %s", resp.Body)
	return resp
}
