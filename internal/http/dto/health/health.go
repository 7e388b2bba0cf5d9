// Package health contiene el DTO de /health.
package health

const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

// HealthResponse: checks lleva el conteo por check, o "error" si falló.
type HealthResponse struct {
	Status string         `json:"status"`
	Checks map[string]any `json:"checks"`
}
