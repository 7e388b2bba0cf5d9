// Package provider define el gateway hacia el backend de identidad/datos de
// cada tenant. La implementación concreta (Supabase: GoTrue + PostgREST) vive
// en provider/supabase.
package provider

import (
	"context"
	"encoding/json"
	"time"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/repository"
)

// MagicLinkAck es la respuesta genérica de SendPasswordlessLink.
// Es la misma exista o no el email.
const MagicLinkAck = "Magic link sent if email is valid."

// UserRecord es el usuario creado por el provider.
// Raw es el JSON tal cual lo devolvió el provider (se relaya al cliente).
type UserRecord struct {
	ID    string
	Email string
	Raw   json.RawMessage
}

// Session es el resultado de un login con password.
// UserID es el id del usuario en el provider, igual al claim "sub" de AccessToken
// y a la PK de su fila en profiles.
type Session struct {
	UserID      string
	AccessToken string
	Raw         json.RawMessage
}

// Profile es la fila de la tabla profiles del tenant.
type Profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
}

// Gateway son las operaciones de identidad contra el provider de UN tenant.
//
// Errores (internal/domain/errs):
//   - CreateUser: ErrDuplicateUser, ErrProviderRejected, ErrProvider, ErrTimeout
//   - LoginWithPassword: ErrInvalidCredentials, ErrProvider, ErrTimeout
//   - SendPasswordlessLink: ErrProviderRejected, ErrProvider, ErrTimeout
//   - FetchProfile: ErrProfileNotFound, ErrInvalidInput, ErrProvider, ErrTimeout
type Gateway interface {
	CreateUser(ctx context.Context, email, password string, confirm bool) (*UserRecord, error)
	// LoginWithPassword además garantiza que exista la fila de profiles del usuario.
	LoginWithPassword(ctx context.Context, email, password string) (*Session, error)
	SendPasswordlessLink(ctx context.Context, email string) error
	FetchProfile(ctx context.Context, userID string) (*Profile, error)
}

// Factory construye un Gateway por request a partir del tenant resuelto.
// El Gateway no se comparte entre requests ni entre tenants.
type Factory interface {
	ForTenant(t *repository.Tenant) Gateway
}
