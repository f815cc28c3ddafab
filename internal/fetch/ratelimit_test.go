package fetch_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/restock-tracker/internal/fetch"
)

func TestRateLimiter_Wait(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		limits  fetch.Limits
		calls   int
		wantErr bool
	}{
		{
			name:   "allows calls within rate",
			limits: fetch.Limits{PerSecond: 100, Burst: 10, Daily: 5000},
			calls:  3,
		},
		{
			name:   "unlimited",
			limits: fetch.Limits{},
			calls:  20,
		},
		{
			name:    "rejects when daily budget spent",
			limits:  fetch.Limits{PerSecond: 100, Burst: 10, Daily: 2},
			calls:   3,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rl := fetch.NewRateLimiter(tt.limits)

			var lastErr error
			for range tt.calls {
				lastErr = rl.Wait(context.Background())
				if lastErr != nil {
					break
				}
			}

			if tt.wantErr {
				require.ErrorIs(t, lastErr, fetch.ErrDailyLimitReached)
			} else {
				require.NoError(t, lastErr)
			}
		})
	}
}

func TestRateLimiter_Remaining(t *testing.T) {
	t.Parallel()

	rl := fetch.NewRateLimiter(fetch.Limits{PerSecond: 100, Burst: 10, Daily: 3})
	assert.Equal(t, 3, rl.Remaining())

	require.NoError(t, rl.Wait(context.Background()))
	require.NoError(t, rl.Wait(context.Background()))
	assert.Equal(t, 2, rl.Used())
	assert.Equal(t, 1, rl.Remaining())

	assert.Equal(t, -1, fetch.NewRateLimiter(fetch.Limits{}).Remaining())
}

func TestRateLimiter_DayRollover(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	now := time.Date(2026, 10, 14, 23, 59, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	rl := fetch.NewRateLimiter(fetch.Limits{Daily: 1}, fetch.WithRateLimiterNowFunc(clock))

	require.NoError(t, rl.Wait(context.Background()))
	require.ErrorIs(t, rl.Wait(context.Background()), fetch.ErrDailyLimitReached)

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()

	require.NoError(t, rl.Wait(context.Background()))
	assert.Equal(t, 1, rl.Used())
}

func TestRateLimiter_CanceledContextReleasesBudget(t *testing.T) {
	t.Parallel()

	rl := fetch.NewRateLimiter(fetch.Limits{PerSecond: 0.001, Burst: 1, Daily: 10})
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, rl.Wait(ctx))
	assert.Equal(t, 1, rl.Used())
}
