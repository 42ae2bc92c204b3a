package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/wordrush/platform/internal/domain"
)

// ExecuteWithdrawRevenue debits the platform vault. Admin only; the
// full exact-amount balance check runs before any transfer is issued,
// so a partial withdrawal can never occur.
func (e *Engine) ExecuteWithdrawRevenue(ctx context.Context, tx pgx.Tx, params domain.WithdrawRevenueParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, err
	}

	vault, err := e.LockVaultForUpdate(ctx, tx, domain.VaultPlatform)
	if err != nil {
		return nil, fmt.Errorf("withdraw revenue: %w", err)
	}
	if vault.Balance < params.Amount {
		return nil, domain.ErrInsufficientVaultBalance(domain.VaultPlatform, params.Amount, vault.Balance)
	}

	if params.ExternalRef != "" {
		existing, err := e.FindExistingEntry(ctx, tx, domain.IdempotencyKey{
			Vault:       domain.VaultPlatform,
			ExternalRef: params.ExternalRef,
		})
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &domain.CommandResult{Entries: []domain.VaultEntry{*existing}, Idempotent: true}, nil
		}
	}

	entry, updated, err := e.PostVaultEntry(ctx, tx, domain.PostVaultEntryParams{
		Vault:       domain.VaultPlatform,
		Type:        domain.EntryRevenueWithdrawal,
		Amount:      -params.Amount,
		ExternalRef: strPtr(params.ExternalRef),
		Metadata:    params.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("withdraw revenue post: %w", err)
	}

	return &domain.CommandResult{
		Entries:  []domain.VaultEntry{*entry},
		Balances: map[domain.VaultKind]int64{domain.VaultPlatform: updated.Balance},
	}, nil
}
