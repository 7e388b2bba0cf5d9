// Package auth contiene los DTOs de /auth/*.
package auth

import "strings"

// ClientTokenRequest es el body de POST /auth/client-token.
type ClientTokenRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// ClientTokenResponse es la respuesta exitosa del intercambio.
type ClientTokenResponse struct {
	ClientJWT string `json:"client_jwt"`
	TokenType string `json:"token_type"` // "Bearer"
	ExpiresIn int64  `json:"expires_in"` // segundos
}

// TenantField acepta tenantName y el nombre legacy AppToRegisterWith.
type TenantField struct {
	TenantName        string `json:"tenantName"`
	AppToRegisterWith string `json:"AppToRegisterWith,omitempty"`
}

// Tenant devuelve el tenant pedido; tenantName gana sobre el legacy.
func (f TenantField) Tenant() string {
	if v := strings.TrimSpace(f.TenantName); v != "" {
		return v
	}
	return strings.TrimSpace(f.AppToRegisterWith)
}

// CredentialsRequest es el body de POST /auth/register y /auth/login.
type CredentialsRequest struct {
	TenantField
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MagicLinkRequest es el body de POST /auth/magic.
type MagicLinkRequest struct {
	TenantField
	Email string `json:"email"`
}

// MessageResponse es el ack genérico de /auth/magic.
type MessageResponse struct {
	Message string `json:"message"`
}
