package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestRedisLimiter_FixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := rdb.NewClient(&rdb.Options{Addr: mr.Addr()})
	defer client.Close()

	l := NewRedisLimiter(client, "test:", 2, time.Minute)
	l.Now = fixedClock(time.Date(2026, 1, 1, 10, 0, 5, 0, time.UTC))
	ctx := context.Background()

	r1, err := l.Allow(ctx, "1.2.3.4|/auth/login")
	require.NoError(t, err)
	require.True(t, r1.Allowed)
	require.EqualValues(t, 1, r1.Remaining)

	r2, err := l.Allow(ctx, "1.2.3.4|/auth/login")
	require.NoError(t, err)
	require.True(t, r2.Allowed)
	require.EqualValues(t, 0, r2.Remaining)

	r3, err := l.Allow(ctx, "1.2.3.4|/auth/login")
	require.NoError(t, err)
	require.False(t, r3.Allowed)
	require.EqualValues(t, 3, r3.CurrentHits)
	require.Greater(t, r3.RetryAfter, time.Duration(0))

	// otra clave, otra ventana
	other, err := l.Allow(ctx, "5.6.7.8|/auth/login")
	require.NoError(t, err)
	require.True(t, other.Allowed)

	require.Len(t, mr.Keys(), 2)
	require.Greater(t, mr.TTL(mr.Keys()[0]), time.Duration(0))
}

func TestRedisLimiter_NextWindowResets(t *testing.T) {
	mr := miniredis.RunT(t)
	client := rdb.NewClient(&rdb.Options{Addr: mr.Addr()})
	defer client.Close()

	now := time.Date(2026, 1, 1, 10, 0, 5, 0, time.UTC)
	l := NewRedisLimiter(client, "", 1, time.Minute)
	l.Now = func() time.Time { return now }

	r, err := l.Allow(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, r.Allowed)
	r, err = l.Allow(context.Background(), "k")
	require.NoError(t, err)
	require.False(t, r.Allowed)

	now = now.Add(time.Minute)
	r, err = l.Allow(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, r.Allowed)
}

func TestRedisLimiter_ErrorWhenRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := rdb.NewClient(&rdb.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	_, err = NewRedisLimiter(client, "", 1, time.Minute).Allow(context.Background(), "k")
	require.Error(t, err)
}

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 50, 0, time.UTC)
	l := NewMemoryLimiter(2, time.Minute)
	l.Now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		r, err := l.Allow(ctx, "k")
		require.NoError(t, err)
		require.True(t, r.Allowed)
	}
	r, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	require.False(t, r.Allowed)
	require.Equal(t, 10*time.Second, r.RetryAfter)
	require.Equal(t, 10*time.Second, r.WindowTTL)

	now = now.Add(15 * time.Second)
	r, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	require.True(t, r.Allowed)
	require.EqualValues(t, 1, r.CurrentHits)
}
