package logger

import "go.uber.org/zap"

// =================================================================================
// CAMPOS - HTTP
// =================================================================================

// Field es zap.Field, para armar listas de campos sin importar zap.
type Field = zap.Field

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }

// =================================================================================
// CAMPOS - NEGOCIO
// =================================================================================

// Tenant es el nombre de aplicación resuelto (application_name).
func Tenant(v string) zap.Field { return zap.String("tenant", v) }

// AppName es la aplicación autenticada por client token.
func AppName(v string) zap.Field { return zap.String("app_name", v) }

func UserID(v string) zap.Field   { return zap.String("user_id", v) }
func ClientID(v string) zap.Field { return zap.String("client_id", v) }

// =================================================================================
// CAMPOS - SISTEMA
// =================================================================================

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }

// Layer: controller | service | repository | gateway.
func Layer(v string) zap.Field { return zap.String("layer", v) }

func Err(err error) zap.Field { return zap.Error(err) }

// Stack captura el stack actual (para panics).
func Stack() zap.Field { return zap.Stack("stack") }

// Upstream identifica la operación remota contra el provider (ej: "auth/v1/token").
func Upstream(v string) zap.Field { return zap.String("upstream", v) }

func Attempt(v int) zap.Field { return zap.Int("attempt", v) }

func String(key, v string) zap.Field { return zap.String(key, v) }
func Int(key string, v int) zap.Field { return zap.Int(key, v) }
func Int64(key string, v int64) zap.Field {
	return zap.Int64(key, v)
}
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
func Any(key string, v any) zap.Field   { return zap.Any(key, v) }
