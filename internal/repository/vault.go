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

type vaultRepo struct{}

// NewVaultRepository returns a pgx-backed VaultRepository.
func NewVaultRepository() VaultRepository {
	return &vaultRepo{}
}

func (r *vaultRepo) Find(ctx context.Context, db DBTX, kind domain.VaultKind) (*domain.Vault, error) {
	row := db.QueryRow(ctx,
		`SELECT kind, balance, created_at, updated_at FROM vaults WHERE kind = $1`, kind)
	return scanVault(row)
}

func (r *vaultRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, kind domain.VaultKind) (*domain.Vault, error) {
	row := tx.QueryRow(ctx,
		`SELECT kind, balance, created_at, updated_at FROM vaults WHERE kind = $1 FOR UPDATE`, kind)
	return scanVault(row)
}

func (r *vaultRepo) List(ctx context.Context, db DBTX) ([]domain.Vault, error) {
	rows, err := db.Query(ctx,
		`SELECT kind, balance, created_at, updated_at FROM vaults ORDER BY kind`)
	if err != nil {
		return nil, fmt.Errorf("list vaults: %w", err)
	}
	defer rows.Close()

	var out []domain.Vault
	for rows.Next() {
		v, err := scanVault(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (r *vaultRepo) Create(ctx context.Context, db DBTX, v *domain.Vault) error {
	_, err := db.Exec(ctx,
		`INSERT INTO vaults (kind, balance, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		v.Kind, infra.Int64ToNumeric(v.Balance), v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert vault: %w", err)
	}
	return nil
}

// UpdateBalance applies the delta with server-side arithmetic so the
// stored balance never depends on a stale in-memory read.
func (r *vaultRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, kind domain.VaultKind, delta int64) (*domain.Vault, error) {
	row := tx.QueryRow(ctx, `
		UPDATE vaults SET balance = balance + $2, updated_at = now()
		WHERE kind = $1
		RETURNING kind, balance, created_at, updated_at`,
		kind, infra.Int64ToNumeric(delta))
	return scanVault(row)
}

func scanVault(row pgx.Row) (*domain.Vault, error) {
	v := &domain.Vault{}
	var balance pgtype.Numeric
	err := row.Scan(&v.Kind, &balance, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan vault: %w", err)
	}
	if v.Balance, err = infra.NumericToInt64(balance); err != nil {
		return nil, fmt.Errorf("convert balance: %w", err)
	}
	return v, nil
}
