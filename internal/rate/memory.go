package rate

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter es la misma ventana fija que RedisLimiter pero local al
// proceso. Sirve para una sola réplica o para desarrollo.
type MemoryLimiter struct {
	c      *gocache.Cache
	Max    int64
	Window time.Duration
	Now    func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		c:      gocache.New(window, window),
		Max:    int64(max),
		Window: window,
		Now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.Now().UTC()
	winStart := now.Truncate(l.Window)
	k := fmt.Sprintf("%s:%d", key, winStart.Unix())
	ttl := winStart.Add(l.Window).Sub(now)

	hits := int64(1)
	if err := l.c.Add(k, hits, l.Window); err != nil {
		// ya existe la ventana
		n, ierr := l.c.IncrementInt64(k, 1)
		if ierr != nil {
			return Result{}, ierr
		}
		hits = n
	}
	return window(hits, l.Max, ttl, l.Window), nil
}
