// Package auth contiene los services de /auth/*: intercambio de client
// credentials y las operaciones de identidad relayadas al provider del tenant.
package auth

import (
	"context"
	"encoding/json"
	"time"

	dto "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/dto/auth"
)

// ClientTokenService cambia client credentials por un client token.
type ClientTokenService interface {
	Issue(ctx context.Context, in dto.ClientTokenRequest) (*dto.ClientTokenResponse, error)
}

// RegisterService crea un usuario en el provider del tenant.
// appName es el de la aplicación autenticada por el client gate.
type RegisterService interface {
	Register(ctx context.Context, appName string, in dto.CredentialsRequest) (json.RawMessage, error)
}

// LoginService hace login con password y devuelve la sesión del provider.
type LoginService interface {
	Login(ctx context.Context, appName string, in dto.CredentialsRequest) (json.RawMessage, error)
}

// MagicLinkService pide al provider que envíe un magic link.
type MagicLinkService interface {
	Send(ctx context.Context, appName string, in dto.MagicLinkRequest) (*dto.MessageResponse, error)
}

// TokenIssuer es la parte de jwt.Service que usa el intercambio.
type TokenIssuer interface {
	IssueClientToken(appName string) (string, time.Time, error)
}
