package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ZanzyTHEbar/travel-type-quiz/internal/errors"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2,
	}
}

func TestRetryEventuallySucceeds(t *testing.T) {
	calls := 0
	err := RetryWithConfig(context.Background(), "test", fastRetry(5), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryGivesUp(t *testing.T) {
	calls := 0
	err := RetryWithConfig(context.Background(), "test", fastRetry(3), func() error {
		calls++
		return fmt.Errorf("attempt %d failed", calls)
	})

	assert.EqualError(t, err, "attempt 3 failed")
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnPermanentErrors(t *testing.T) {
	calls := 0
	err := RetryWithConfig(context.Background(), "test", fastRetry(5), func() error {
		calls++
		return apperrors.NewConfigurationError("bad dsn", nil)
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RetryWithConfig(ctx, "test", fastRetry(5), func() error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), true},
		{"internal", apperrors.NewInternalError("db", errors.New("boom")), true},
		{"validation", apperrors.NewValidationError("bad"), false},
		{"not found", apperrors.NewNotFoundError("response", "x"), false},
		{"cancelled", fmt.Errorf("wrapped: %w", context.Canceled), false},
		{"deadline", context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestCalculateDelay(t *testing.T) {
	cfg := RetryConfig{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, BackoffFactor: 2}

	assert.Equal(t, 100*time.Millisecond, calculateDelay(cfg, 0))
	assert.Equal(t, 400*time.Millisecond, calculateDelay(cfg, 2))
	assert.Equal(t, time.Second, calculateDelay(cfg, 10))

	cfg.JitterEnabled = true
	d := calculateDelay(cfg, 0)
	assert.GreaterOrEqual(t, d, 100*time.Millisecond)
	assert.Less(t, d, 110*time.Millisecond)
}

func TestCircuitBreakerLifecycle(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("redis", CircuitBreakerConfig{FailureThreshold: 2, RecoveryTimeout: time.Minute})
	cb.now = func() time.Time { return now }

	failing := func() error { return errors.New("down") }
	ok := func() error { return nil }

	assert.Error(t, cb.Call(failing))
	assert.Equal(t, StateClosed, cb.State())
	assert.Error(t, cb.Call(failing))
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Call(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	// probe after the recovery timeout fails and re-opens
	now = now.Add(time.Minute)
	assert.Error(t, cb.Call(failing))
	assert.Equal(t, StateOpen, cb.State())

	now = now.Add(time.Minute)
	assert.NoError(t, cb.Call(ok))
	assert.Equal(t, StateClosed, cb.State())
	assert.Zero(t, cb.Failures())

	stats := cb.Stats()
	assert.Equal(t, "redis", stats["name"])
	assert.Equal(t, "closed", stats["state"])
}

func TestCircuitBreakerReset(t *testing.T) {
	cb := NewCircuitBreaker("x", CircuitBreakerConfig{FailureThreshold: 1})
	_ = cb.Call(func() error { return errors.New("down") })
	require.Equal(t, StateOpen, cb.State())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, "half_open", StateHalfOpen.String())
}
