// Package guard holds the pre-transaction request guards: in-memory
// idempotency and rate limiting in front of the HTTP surface, and the
// login lockout check. Guards are advisory fast paths; the durable
// idempotency truth lives in the vault ledger's external-ref index.
package guard

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/wordrush/platform/internal/domain"
)

// IdempotencyGuard deduplicates requests by idempotency key.
type IdempotencyGuard struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewIdempotencyGuard creates a new in-memory idempotency guard.
func NewIdempotencyGuard() *IdempotencyGuard {
	return &IdempotencyGuard{
		seen: make(map[string]bool),
	}
}

// Check returns whether the given key has already been processed.
func (ig *IdempotencyGuard) Check(_ context.Context, key string) domain.GuardResult {
	if key == "" {
		return domain.GuardResult{Allowed: true}
	}

	ig.mu.Lock()
	defer ig.mu.Unlock()

	if ig.seen[key] {
		return domain.GuardResult{
			Allowed: false,
			Reason:  "duplicate request: idempotency key already processed",
			Guard:   "idempotency",
		}
	}

	ig.seen[key] = true
	return domain.GuardResult{Allowed: true}
}

// Remove deletes a key from the seen set so a failed operation can be
// retried with the same key.
func (ig *IdempotencyGuard) Remove(key string) {
	ig.mu.Lock()
	defer ig.mu.Unlock()
	delete(ig.seen, key)
}

// PlayerOpKey builds the guard key for one player operation, so a
// player hammering guesses does not consume another player's budget.
func PlayerOpKey(playerID uuid.UUID, op string) string {
	return fmt.Sprintf("%s:%s", op, playerID)
}
