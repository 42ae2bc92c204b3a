// Package ledger owns every balance-moving write. Commands run inside
// the caller's transaction and follow one pattern: lock the vault rows,
// check idempotency, post append-only entries with balance snapshots,
// and emit outbox events — all atomically.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wordrush/platform/internal/domain"
	"github.com/wordrush/platform/internal/repository"
)

// Engine provides the 3 foundational ledger operations:
//  1. LockVaultForUpdate — row-level pessimistic lock
//  2. FindExistingEntry — idempotency check
//  3. PostVaultEntry — atomic balance update + append-only insert + outbox event
type Engine struct {
	vaults       repository.VaultRepository
	entries      repository.VaultEntryRepository
	entitlements repository.EntitlementRepository
	outbox       repository.OutboxRepository
}

// NewEngine creates a ledger engine with the given repositories.
func NewEngine(
	vaults repository.VaultRepository,
	entries repository.VaultEntryRepository,
	entitlements repository.EntitlementRepository,
	outbox repository.OutboxRepository,
) *Engine {
	return &Engine{
		vaults:       vaults,
		entries:      entries,
		entitlements: entitlements,
		outbox:       outbox,
	}
}

// LockVaultForUpdate acquires a row-level lock and returns the vault.
// Must be called within a transaction.
func (e *Engine) LockVaultForUpdate(ctx context.Context, tx pgx.Tx, kind domain.VaultKind) (*domain.Vault, error) {
	vault, err := e.vaults.LockForUpdate(ctx, tx, kind)
	if err != nil {
		return nil, fmt.Errorf("lock vault: %w", err)
	}
	if vault == nil {
		return nil, domain.ErrNotFound("vault", string(kind))
	}
	return vault, nil
}

// FindExistingEntry checks whether an entry with the same idempotency
// key was already posted. Returns nil when no duplicate exists.
func (e *Engine) FindExistingEntry(ctx context.Context, tx pgx.Tx, key domain.IdempotencyKey) (*domain.VaultEntry, error) {
	existing, err := e.entries.FindExisting(ctx, tx, key)
	if err != nil {
		return nil, fmt.Errorf("find existing entry: %w", err)
	}
	return existing, nil
}

// PostVaultEntry atomically applies a balance delta and appends the
// ledger row. This is the core write primitive — every command
// delegates to it.
//
// Steps:
//  1. Update the vault balance with server-side arithmetic
//  2. Insert the entry carrying the post-update balance snapshot
//  3. Insert the outbox event
//
// All 3 steps run within the caller's transaction.
func (e *Engine) PostVaultEntry(ctx context.Context, tx pgx.Tx, params domain.PostVaultEntryParams) (*domain.VaultEntry, *domain.Vault, error) {
	vault, err := e.vaults.UpdateBalance(ctx, tx, params.Vault, params.Amount)
	if err != nil {
		return nil, nil, fmt.Errorf("update vault balance: %w", err)
	}
	if vault == nil {
		return nil, nil, domain.ErrNotFound("vault", string(params.Vault))
	}

	entry := &domain.VaultEntry{
		ID:           uuid.New(),
		PlayerID:     params.PlayerID,
		Vault:        params.Vault,
		Type:         params.Type,
		Amount:       params.Amount,
		BalanceAfter: vault.Balance,
		ExternalRef:  params.ExternalRef,
		Metadata:     ensureJSON(params.Metadata),
		CreatedAt:    time.Now(),
	}
	if err := e.entries.Insert(ctx, tx, entry); err != nil {
		return nil, nil, fmt.Errorf("insert vault entry: %w", err)
	}

	if err := e.outbox.Insert(ctx, tx, domain.NewEntryPostedEvent(entry)); err != nil {
		return nil, nil, fmt.Errorf("insert outbox event: %w", err)
	}

	return entry, vault, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ensureJSON(data json.RawMessage) json.RawMessage {
	if data == nil {
		return json.RawMessage(`{}`)
	}
	return data
}
