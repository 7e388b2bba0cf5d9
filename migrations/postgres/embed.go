// Package migrations embebe los scripts SQL.
package migrations

import "embed"

// DirectoryFS contiene las migraciones de la base de directorio (tabla applications).
//
//go:embed directory/*.sql
var DirectoryFS embed.FS

// TenantFS contiene las migraciones que cada proyecto tenant necesita (tabla profiles).
//
//go:embed tenant/*.sql
var TenantFS embed.FS

const (
	DirectoryDir = "directory"
	TenantDir    = "tenant"
)
