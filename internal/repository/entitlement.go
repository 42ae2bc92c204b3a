package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/wordrush/platform/internal/domain"
	"github.com/wordrush/platform/internal/infra"
)

type entitlementRepo struct{}

// NewEntitlementRepository returns a pgx-backed EntitlementRepository.
func NewEntitlementRepository() EntitlementRepository {
	return &entitlementRepo{}
}

const entitlementColumns = `player_id, granularity, period_id, rank, amount, claimed, created_at, claimed_at`

func (r *entitlementRepo) Find(ctx context.Context, db DBTX, playerID uuid.UUID, g domain.Granularity, periodID string) (*domain.WinnerEntitlement, error) {
	row := db.QueryRow(ctx,
		`SELECT `+entitlementColumns+` FROM winner_entitlements
		 WHERE player_id = $1 AND granularity = $2 AND period_id = $3`,
		playerID, g, periodID)
	return scanEntitlement(row)
}

func (r *entitlementRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, playerID uuid.UUID, g domain.Granularity, periodID string) (*domain.WinnerEntitlement, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+entitlementColumns+` FROM winner_entitlements
		 WHERE player_id = $1 AND granularity = $2 AND period_id = $3 FOR UPDATE`,
		playerID, g, periodID)
	return scanEntitlement(row)
}

func (r *entitlementRepo) ListByPlayer(ctx context.Context, db DBTX, playerID uuid.UUID) ([]domain.WinnerEntitlement, error) {
	rows, err := db.Query(ctx,
		`SELECT `+entitlementColumns+` FROM winner_entitlements
		 WHERE player_id = $1 ORDER BY created_at DESC`, playerID)
	if err != nil {
		return nil, fmt.Errorf("list entitlements: %w", err)
	}
	defer rows.Close()

	var out []domain.WinnerEntitlement
	for rows.Next() {
		e, err := scanEntitlement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *entitlementRepo) Create(ctx context.Context, db DBTX, e *domain.WinnerEntitlement) error {
	_, err := db.Exec(ctx, `
		INSERT INTO winner_entitlements (`+entitlementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.PlayerID, e.Granularity, e.PeriodID, e.Rank,
		infra.Int64ToNumeric(e.Amount), e.Claimed, e.CreatedAt, e.ClaimedAt,
	)
	if err != nil {
		return fmt.Errorf("insert entitlement: %w", err)
	}
	return nil
}

func (r *entitlementRepo) MarkClaimed(ctx context.Context, tx pgx.Tx, e *domain.WinnerEntitlement) error {
	tag, err := tx.Exec(ctx, `
		UPDATE winner_entitlements SET claimed = true, claimed_at = $4
		WHERE player_id = $1 AND granularity = $2 AND period_id = $3 AND claimed = false`,
		e.PlayerID, e.Granularity, e.PeriodID, e.ClaimedAt,
	)
	if err != nil {
		return fmt.Errorf("mark claimed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyClaimed()
	}
	return nil
}

func scanEntitlement(row pgx.Row) (*domain.WinnerEntitlement, error) {
	e := &domain.WinnerEntitlement{}
	var amount pgtype.Numeric
	err := row.Scan(&e.PlayerID, &e.Granularity, &e.PeriodID, &e.Rank,
		&amount, &e.Claimed, &e.CreatedAt, &e.ClaimedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan entitlement: %w", err)
	}
	if e.Amount, err = infra.NumericToInt64(amount); err != nil {
		return nil, fmt.Errorf("convert amount: %w", err)
	}
	return e, nil
}
