package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/wordrush/platform/internal/domain"
	"github.com/wordrush/platform/internal/prize"
)

// ExecuteBuyTicket posts one entry fee as five vault credits.
// Pattern: Lock → Idempotency → PostVaultEntry ×5
//
// Vaults are locked in their fixed declaration order so concurrent
// purchases never deadlock. The purchase is rejected while the game is
// paused; a retried ExternalRef returns the original entries without
// moving value again.
func (e *Engine) ExecuteBuyTicket(ctx context.Context, tx pgx.Tx, cfg *domain.GameConfig, params domain.BuyTicketParams) (*domain.CommandResult, error) {
	if cfg == nil {
		return nil, domain.ErrNotFound("game config", "1")
	}
	if cfg.Paused {
		return nil, domain.ErrGamePaused()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if params.ExternalRef == "" {
		return nil, domain.ErrValidation("external ref is required")
	}

	dist, err := prize.SplitTicket(cfg.TicketPrice, cfg.PoolSplits)
	if err != nil {
		return nil, err
	}

	for _, kind := range domain.VaultKinds {
		if _, err := e.LockVaultForUpdate(ctx, tx, kind); err != nil {
			return nil, fmt.Errorf("buy ticket: %w", err)
		}
	}

	existing, err := e.FindExistingEntry(ctx, tx, domain.IdempotencyKey{
		PlayerID:    &params.PlayerID,
		Vault:       domain.VaultDaily,
		ExternalRef: params.ExternalRef,
	})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &domain.CommandResult{
			Entries:    []domain.VaultEntry{*existing},
			Idempotent: true,
		}, nil
	}

	result := &domain.CommandResult{Balances: make(map[domain.VaultKind]int64)}
	amounts := dist.Amounts()
	for _, kind := range domain.VaultKinds {
		entry, vault, err := e.PostVaultEntry(ctx, tx, domain.PostVaultEntryParams{
			PlayerID:    &params.PlayerID,
			Vault:       kind,
			Type:        domain.EntryTicketSplit,
			Amount:      amounts[kind],
			ExternalRef: strPtr(params.ExternalRef),
			Metadata:    params.Metadata,
		})
		if err != nil {
			return nil, fmt.Errorf("buy ticket post %s: %w", kind, err)
		}
		result.Entries = append(result.Entries, *entry)
		result.Balances[kind] = vault.Balance
	}
	return result, nil
}
