package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/wordrush/platform/internal/domain"
	"github.com/wordrush/platform/internal/prize"
)

// ExecuteClaimPrize settles one winner entitlement exactly once.
// Pattern: Lock entitlement → Lock vault → check → transfer → mark claimed
//
// The claimed check, the balance check, and the flag flip run in one
// transaction against locked rows, so two concurrent claims on the
// same entitlement serialize and the loser sees ALREADY_CLAIMED.
func (e *Engine) ExecuteClaimPrize(ctx context.Context, tx pgx.Tx, params domain.ClaimPrizeParams) (*domain.CommandResult, *domain.WinnerEntitlement, error) {
	ent, err := e.entitlements.LockForUpdate(ctx, tx, params.PlayerID, params.Granularity, params.PeriodID)
	if err != nil {
		return nil, nil, fmt.Errorf("lock entitlement: %w", err)
	}
	if ent == nil {
		return nil, nil, domain.ErrNotFound("entitlement",
			fmt.Sprintf("%s/%s/%s", params.PlayerID, params.Granularity, params.PeriodID))
	}

	vaultKind := domain.PrizeVaultFor(params.Granularity)
	vault, err := e.LockVaultForUpdate(ctx, tx, vaultKind)
	if err != nil {
		return nil, nil, fmt.Errorf("claim prize: %w", err)
	}

	now := time.Now()
	if err := prize.Claim(ent, vaultKind, vault.Balance, now); err != nil {
		return nil, nil, err
	}

	// Debit the vault; the negative entry with the winner's id is the
	// transfer record the payment collaborator consumes.
	ref := fmt.Sprintf("claim-%s-%s-%s", params.Granularity, params.PeriodID, params.PlayerID)
	entry, updated, err := e.PostVaultEntry(ctx, tx, domain.PostVaultEntryParams{
		PlayerID:    &params.PlayerID,
		Vault:       vaultKind,
		Type:        domain.EntryPrizeClaim,
		Amount:      -ent.Amount,
		ExternalRef: strPtr(ref),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("claim prize post: %w", err)
	}

	if err := e.entitlements.MarkClaimed(ctx, tx, ent); err != nil {
		return nil, nil, err
	}
	if err := e.outbox.Insert(ctx, tx, domain.NewPrizeClaimedEvent(ent)); err != nil {
		return nil, nil, fmt.Errorf("insert outbox event: %w", err)
	}

	return &domain.CommandResult{
		Entries:  []domain.VaultEntry{*entry},
		Balances: map[domain.VaultKind]int64{vaultKind: updated.Balance},
	}, ent, nil
}
