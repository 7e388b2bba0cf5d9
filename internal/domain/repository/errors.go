package repository

import "errors"

var (
	// ErrNotFound indica que el registro solicitado no existe.
	ErrNotFound = errors.New("not found")

	// ErrNoDatabase indica que no hay base de directorio configurada.
	ErrNoDatabase = errors.New("no database configured")
)

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
