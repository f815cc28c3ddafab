package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrDailyLimitReached is returned once a vendor's daily request budget is spent.
var ErrDailyLimitReached = errors.New("daily request budget reached")

// Limits configures a RateLimiter. A zero PerSecond disables pacing and a
// zero Daily disables the daily budget.
type Limits struct {
	PerSecond float64
	Burst     int
	Daily     int
}

// RateLimiter paces requests to a single vendor with a token bucket and
// caps them per UTC calendar day.
type RateLimiter struct {
	limiter *rate.Limiter
	daily   int
	nowFunc func() time.Time

	mu   sync.Mutex
	used int
	day  time.Time
}

// RateLimiterOption configures a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a RateLimiter.
func NewRateLimiter(l Limits, opts ...RateLimiterOption) *RateLimiter {
	limit := rate.Inf
	if l.PerSecond > 0 {
		limit = rate.Limit(l.PerSecond)
	}
	burst := l.Burst
	if burst <= 0 {
		burst = 1
	}

	r := &RateLimiter{
		limiter: rate.NewLimiter(limit, burst),
		daily:   l.Daily,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.day = startOfDay(r.nowFunc())
	return r
}

// Wait blocks until a request may proceed or ctx is done. It returns
// ErrDailyLimitReached without waiting when the budget is spent.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.reserveDaily(); err != nil {
		return err
	}
	if err := r.limiter.Wait(ctx); err != nil {
		r.release()
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}

// Used returns the number of requests counted against today's budget.
func (r *RateLimiter) Used() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rollover()
	return r.used
}

// Remaining returns the requests left today, or -1 when unlimited.
func (r *RateLimiter) Remaining() int {
	if r.daily <= 0 {
		return -1
	}
	return max(r.daily-r.Used(), 0)
}

func (r *RateLimiter) reserveDaily() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rollover()

	if r.daily > 0 && r.used >= r.daily {
		return fmt.Errorf("%w (%d/%d)", ErrDailyLimitReached, r.used, r.daily)
	}
	r.used++
	return nil
}

func (r *RateLimiter) release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.used > 0 {
		r.used--
	}
}

// rollover resets the counter on a new day. Callers hold mu.
func (r *RateLimiter) rollover() {
	if today := startOfDay(r.nowFunc()); today.After(r.day) {
		r.day = today
		r.used = 0
	}
}

func startOfDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
