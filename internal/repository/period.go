package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/wordrush/platform/internal/domain"
	"github.com/wordrush/platform/internal/infra"
)

type periodRepo struct{}

// NewPeriodRepository returns a pgx-backed PeriodRepository.
func NewPeriodRepository() PeriodRepository {
	return &periodRepo{}
}

func (r *periodRepo) Find(ctx context.Context, db DBTX, g domain.Granularity, periodID string) (*domain.PeriodState, error) {
	row := db.QueryRow(ctx, `
		SELECT granularity, period_id, finalized, total_participants,
		       vault_balance_at_close, winners, finalized_at
		FROM period_states
		WHERE granularity = $1 AND period_id = $2`, g, periodID)

	p := &domain.PeriodState{}
	var winners []byte
	var balance pgtype.Numeric
	err := row.Scan(&p.Granularity, &p.PeriodID, &p.Finalized, &p.TotalParticipants,
		&balance, &winners, &p.FinalizedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan period state: %w", err)
	}
	if p.VaultBalanceAtClose, err = infra.NumericToInt64(balance); err != nil {
		return nil, fmt.Errorf("convert vault_balance_at_close: %w", err)
	}
	if len(winners) > 0 {
		if err := json.Unmarshal(winners, &p.Winners); err != nil {
			return nil, fmt.Errorf("unmarshal winners: %w", err)
		}
	}
	return p, nil
}

func (r *periodRepo) Create(ctx context.Context, db DBTX, p *domain.PeriodState) error {
	winners, err := json.Marshal(p.Winners)
	if err != nil {
		return fmt.Errorf("marshal winners: %w", err)
	}
	_, err = db.Exec(ctx, `
		INSERT INTO period_states
			(granularity, period_id, finalized, total_participants,
			 vault_balance_at_close, winners, finalized_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.Granularity, p.PeriodID, p.Finalized, p.TotalParticipants,
		infra.Int64ToNumeric(p.VaultBalanceAtClose), winners, p.FinalizedAt,
	)
	if err != nil {
		return fmt.Errorf("insert period state: %w", err)
	}
	return nil
}
