package config

import (
	"fmt"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/errs"
)

// ParseConfirmPolicy interpreta REGISTER_NO_CONFIRMATION_EMAIL.
// Solo acepta exactamente "true" o "false"; cualquier otro valor (incluido
// vacío) es un error de configuración.
func ParseConfirmPolicy(raw string) (bool, error) {
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, errs.E("config.ParseConfirmPolicy", errs.ErrInvalidSetting,
		fmt.Errorf("REGISTER_NO_CONFIRMATION_EMAIL must be \"true\" or \"false\""))
}
