package guard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	ctx := context.Background()
	key := PlayerOpKey(uuid.New(), "guess")

	for i := 0; i < 3; i++ {
		result := rl.Check(ctx, key)
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	ctx := context.Background()
	key := PlayerOpKey(uuid.New(), "guess")

	rl.Check(ctx, key)
	rl.Check(ctx, key)
	result := rl.Check(ctx, key)

	assert.False(t, result.Allowed)
	assert.Equal(t, "rate_limiter", result.Guard)
}

func TestRateLimiter_SeparateKeys(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	ctx := context.Background()

	r1 := rl.Check(ctx, PlayerOpKey(uuid.New(), "guess"))
	r2 := rl.Check(ctx, PlayerOpKey(uuid.New(), "guess"))

	assert.True(t, r1.Allowed)
	assert.True(t, r2.Allowed)
}

func TestIdempotencyGuard_AllowsFirst(t *testing.T) {
	ig := NewIdempotencyGuard()
	result := ig.Check(context.Background(), "ticket-abc")
	assert.True(t, result.Allowed)
}

func TestIdempotencyGuard_BlocksDuplicate(t *testing.T) {
	ig := NewIdempotencyGuard()
	ctx := context.Background()

	ig.Check(ctx, "ticket-abc")
	result := ig.Check(ctx, "ticket-abc")

	assert.False(t, result.Allowed)
	assert.Equal(t, "idempotency", result.Guard)
}

func TestIdempotencyGuard_EmptyKeyAllowed(t *testing.T) {
	ig := NewIdempotencyGuard()
	ctx := context.Background()

	assert.True(t, ig.Check(ctx, "").Allowed)
	assert.True(t, ig.Check(ctx, "").Allowed)
}

func TestIdempotencyGuard_RemoveAllowsRetry(t *testing.T) {
	ig := NewIdempotencyGuard()
	ctx := context.Background()

	ig.Check(ctx, "ticket-retry")
	ig.Remove("ticket-retry")

	require.True(t, ig.Check(ctx, "ticket-retry").Allowed)
}
