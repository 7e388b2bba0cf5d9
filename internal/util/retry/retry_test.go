package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fast = Policy{MaxTries: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}

func TestDo_RetriesTransientUntilSuccess(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), "test", fast, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, got)
	require.Equal(t, 3, calls)
}

func TestDo_StopsAtMaxTries(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), "test", fast, func() (int, error) {
		calls++
		return 0, errors.New("down")
	})
	require.Error(t, err)
	require.Equal(t, 3, calls)
}

func TestDo_PermanentIsNotRetried(t *testing.T) {
	sentinel := errors.New("not found")
	calls := 0
	_, err := Do(context.Background(), "test", fast, func() (string, error) {
		calls++
		return "", Permanent(sentinel)
	})
	require.ErrorIs(t, err, sentinel)
	require.Equal(t, 1, calls)
}

func TestPermanent_Nil(t *testing.T) {
	require.NoError(t, Permanent(nil))
}
