package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/wordrush/platform/internal/domain"
)

// ExecuteFundVault credits a vault from an external source.
// Pattern: Lock → Idempotency → PostVaultEntry
func (e *Engine) ExecuteFundVault(ctx context.Context, tx pgx.Tx, params domain.FundVaultParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, err
	}

	if _, err := e.LockVaultForUpdate(ctx, tx, params.Vault); err != nil {
		return nil, fmt.Errorf("fund vault: %w", err)
	}

	if params.ExternalRef != "" {
		existing, err := e.FindExistingEntry(ctx, tx, domain.IdempotencyKey{
			Vault:       params.Vault,
			ExternalRef: params.ExternalRef,
		})
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &domain.CommandResult{Entries: []domain.VaultEntry{*existing}, Idempotent: true}, nil
		}
	}

	entry, vault, err := e.PostVaultEntry(ctx, tx, domain.PostVaultEntryParams{
		Vault:       params.Vault,
		Type:        domain.EntryVaultFunding,
		Amount:      params.Amount,
		ExternalRef: strPtr(params.ExternalRef),
		Metadata:    params.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("fund vault post: %w", err)
	}

	return &domain.CommandResult{
		Entries:  []domain.VaultEntry{*entry},
		Balances: map[domain.VaultKind]int64{params.Vault: vault.Balance},
	}, nil
}
