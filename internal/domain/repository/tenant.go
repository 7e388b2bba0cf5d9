package repository

import "context"

// Tenant es la configuración de una aplicación registrada en el directorio.
// Una vez resuelto, todos los campos son no vacíos (ver Complete).
type Tenant struct {
	Name             string // application_name, clave única
	ClientID         string
	ClientSecretHash string // bcrypt
	ProviderURL      string
	ServiceKey       string // privilegiada (admin API)
	AnonKey          string // pública
	JWTSecret        string // firma de los user tokens del provider
}

// Complete reporta si el registro tiene todos los atributos requeridos.
func (t *Tenant) Complete() bool {
	return t != nil &&
		t.Name != "" &&
		t.ClientID != "" &&
		t.ClientSecretHash != "" &&
		t.ProviderURL != "" &&
		t.ServiceKey != "" &&
		t.AnonKey != "" &&
		t.JWTSecret != ""
}

// ClientCredential es la vista mínima que necesita el verificador de credenciales.
type ClientCredential struct {
	ClientID   string
	SecretHash string
	AppName    string
}

// TenantRepository lee la tabla applications del directorio.
type TenantRepository interface {
	// GetByName devuelve ErrNotFound si no existe la aplicación.
	GetByName(ctx context.Context, appName string) (*Tenant, error)

	// GetCredential devuelve ErrNotFound si el client_id no existe.
	GetCredential(ctx context.Context, clientID string) (*ClientCredential, error)
}

// DirectoryStats expone los conteos usados por /health.
type DirectoryStats interface {
	CountUsers(ctx context.Context) (int64, error)
	CountApplications(ctx context.Context) (int64, error)
}
