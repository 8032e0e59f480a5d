package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBusy = errors.New("busy")

func TestDoWithResult(t *testing.T) {
	cfg := retry.RetryConfig{
		MaxAttempts: 3,
		Backoff:     retry.LinearBackoff(time.Millisecond),
	}

	t.Run("SucceedsAfterRetries", func(t *testing.T) {
		var attempts int
		v, err := retry.DoWithResult(t.Context(), cfg, func() (string, error) {
			attempts++
			if attempts < 3 {
				return "", errBusy
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", v)
		assert.Equal(t, 3, attempts)
	})

	t.Run("ExhaustsAttempts", func(t *testing.T) {
		var attempts int
		err := retry.Do(t.Context(), cfg, func() error {
			attempts++
			return errBusy
		})
		assert.ErrorIs(t, err, errBusy)
		assert.Equal(t, 3, attempts)
	})

	t.Run("NotRetryable", func(t *testing.T) {
		cfg := cfg
		cfg.ShouldRetry = func(err error) bool { return !errors.Is(err, errBusy) }

		var attempts int
		err := retry.Do(t.Context(), cfg, func() error {
			attempts++
			return errBusy
		})
		assert.ErrorIs(t, err, errBusy)
		assert.Equal(t, 1, attempts)
	})

	t.Run("ContextCanceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cfg := retry.RetryConfig{
			MaxAttempts: 5,
			Backoff:     retry.LinearBackoff(time.Hour),
		}

		err := retry.Do(ctx, cfg, func() error {
			cancel()
			return errBusy
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, errBusy)
	})
}

func TestExponentialBackoff(t *testing.T) {
	b := retry.ExponentialBackoff(10 * time.Millisecond)
	for attempt := 1; attempt <= 4; attempt++ {
		base := time.Duration(1<<attempt) * 10 * time.Millisecond
		d := b(attempt)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, base+base/2)
	}
}
