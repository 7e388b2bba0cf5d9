// Package retry envuelve backoff exponencial para lecturas idempotentes.
// Las escrituras NUNCA pasan por acá.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/observability/logger"
)

// Policy define cuántos intentos (incluido el primero) y el intervalo inicial.
type Policy struct {
	MaxTries        uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Default: 3 intentos, 50ms → 1s.
var Default = Policy{MaxTries: 3, InitialInterval: 50 * time.Millisecond, MaxInterval: time.Second}

// Permanent marca un error como no reintentable (validación, auth, not found).
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// Do ejecuta op con backoff exponencial hasta MaxTries intentos.
// op debe devolver Permanent(err) para cortar de inmediato.
func Do[T any](ctx context.Context, name string, p Policy, op func() (T, error)) (T, error) {
	if p.MaxTries == 0 {
		p.MaxTries = 1
	}
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	b.Reset()

	attempt := 0
	return backoff.Retry(ctx, func() (T, error) {
		attempt++
		return op()
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(p.MaxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.From(ctx).Debug("retrying read",
				logger.Op(name),
				logger.Attempt(attempt),
				logger.Int64("next_ms", next.Milliseconds()),
				logger.Err(err),
			)
		}),
	)
}
