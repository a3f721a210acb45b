package google

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// waitFor reports whether Wait returns within d.
func waitFor(r *RateLimiter, d time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return r.Wait(ctx) == nil
}

// backoffUntil returns the time the limiter resumes after a 429.
func backoffUntil(r *RateLimiter) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.retryAt
}

func TestRateLimiter_Burst(t *testing.T) {
	r := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})

	assert.True(t, waitFor(r, 10*time.Millisecond))
	assert.True(t, waitFor(r, 10*time.Millisecond))
	assert.False(t, waitFor(r, 10*time.Millisecond))
}

func TestRateLimiter_ZeroRateIsUnlimited(t *testing.T) {
	r := NewRateLimiterForSettings(&domain.CredentialSettings{})

	for range 100 {
		require.True(t, waitFor(r, 10*time.Millisecond))
	}
}

func TestRateLimiter_Backoff(t *testing.T) {
	r := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})
	r.RecordRateLimitError(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiter_BackoffNeverShortens(t *testing.T) {
	r := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})
	r.RecordRateLimitError(time.Hour)
	r.RecordRateLimitError(time.Millisecond)

	assert.False(t, waitFor(r, 20*time.Millisecond))
}

func TestRateLimiter_DefaultRetryAfter(t *testing.T) {
	r := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})
	before := time.Now()
	r.RecordRateLimitError(0)

	assert.WithinDuration(t, before.Add(DefaultRetryAfter), backoffUntil(r), time.Second)
}

func TestNewRateLimiterForSettings_APIDefaults(t *testing.T) {
	rate, burst := domain.APISheets.DefaultRateLimit()
	r := NewRateLimiterForSettings(&domain.CredentialSettings{RateLimit: rate, Burst: burst})

	for range burst {
		require.True(t, waitFor(r, 10*time.Millisecond))
	}
	assert.False(t, waitFor(r, 10*time.Millisecond))
}
