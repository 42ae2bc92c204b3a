package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/wordrush/platform/internal/domain"
	"github.com/wordrush/platform/internal/infra"
)

type vaultEntryRepo struct{}

// NewVaultEntryRepository returns a pgx-backed VaultEntryRepository.
func NewVaultEntryRepository() VaultEntryRepository {
	return &vaultEntryRepo{}
}

const vaultEntryColumns = `id, player_id, vault, entry_type, amount, balance_after,
	external_ref, metadata, created_at`

// FindExisting checks the idempotency index: one (player, vault,
// external ref) triple posts at most once.
func (r *vaultEntryRepo) FindExisting(ctx context.Context, db DBTX, key domain.IdempotencyKey) (*domain.VaultEntry, error) {
	row := db.QueryRow(ctx,
		`SELECT `+vaultEntryColumns+` FROM vault_entries
		 WHERE player_id IS NOT DISTINCT FROM $1 AND vault = $2 AND external_ref = $3`,
		key.PlayerID, key.Vault, key.ExternalRef)
	return scanVaultEntry(row)
}

func (r *vaultEntryRepo) Insert(ctx context.Context, db DBTX, e *domain.VaultEntry) error {
	_, err := db.Exec(ctx, `
		INSERT INTO vault_entries (`+vaultEntryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.PlayerID, e.Vault, e.Type,
		infra.Int64ToNumeric(e.Amount), infra.Int64ToNumeric(e.BalanceAfter),
		e.ExternalRef, e.Metadata, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vault entry: %w", err)
	}
	return nil
}

func (r *vaultEntryRepo) ListByVault(ctx context.Context, db DBTX, kind domain.VaultKind, limit int) ([]domain.VaultEntry, error) {
	rows, err := db.Query(ctx,
		`SELECT `+vaultEntryColumns+` FROM vault_entries
		 WHERE vault = $1 ORDER BY created_at DESC LIMIT $2`, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("list vault entries: %w", err)
	}
	defer rows.Close()

	var out []domain.VaultEntry
	for rows.Next() {
		e, err := scanVaultEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func scanVaultEntry(row pgx.Row) (*domain.VaultEntry, error) {
	e := &domain.VaultEntry{}
	var amount, balanceAfter pgtype.Numeric
	err := row.Scan(&e.ID, &e.PlayerID, &e.Vault, &e.Type,
		&amount, &balanceAfter, &e.ExternalRef, &e.Metadata, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan vault entry: %w", err)
	}
	if e.Amount, err = infra.NumericToInt64(amount); err != nil {
		return nil, fmt.Errorf("convert amount: %w", err)
	}
	if e.BalanceAfter, err = infra.NumericToInt64(balanceAfter); err != nil {
		return nil, fmt.Errorf("convert balance_after: %w", err)
	}
	return e, nil
}
