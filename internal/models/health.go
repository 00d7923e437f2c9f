package models

import "time"

// Overall health values
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusUnknown   = "unknown"

	StatusReady    = "ready"
	StatusNotReady = "not_ready"
)

// Database connectivity values reported by the health endpoint
const (
	DatabaseConnected    = "connected"
	DatabaseDisconnected = "disconnected"
	DatabaseUnknown      = "unknown"
	DatabaseDisabled     = "disabled"
)

// HealthResponse represents the response from the health check endpoint
type HealthResponse struct {
	Status      string    `json:"status" example:"healthy"`
	Environment string    `json:"environment" example:"production"`
	Version     string    `json:"version" example:"1.0.0"`
	Database    string    `json:"database" example:"connected"`
	Time        time.Time `json:"time" example:"2024-03-20T13:00:00Z"`
}

// DependencyStatus is the result of the latest check of one dependency
type DependencyStatus struct {
	Status    string     `json:"status" example:"healthy"`
	LatencyMs int64      `json:"latency_ms" example:"3"`
	Message   string     `json:"message,omitempty" example:"dial tcp: connection refused"`
	CheckedAt *time.Time `json:"checked_at,omitempty" example:"2024-03-20T13:00:00Z"`
}

// ReadinessResponse represents the response from the readiness endpoint
type ReadinessResponse struct {
	Status       string                      `json:"status" example:"ready"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}
