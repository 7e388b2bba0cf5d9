// Package profile contiene los DTOs de /profile y /ping.
package profile

// PingResponse devuelve las claims verificadas del user token.
type PingResponse struct {
	Response map[string]any `json:"response"`
	Message  string         `json:"message"`
}
