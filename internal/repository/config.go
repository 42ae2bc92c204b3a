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

type configRepo struct{}

// NewConfigRepository returns a pgx-backed ConfigRepository.
// game_config is a singleton row keyed by id = 1.
func NewConfigRepository() ConfigRepository {
	return &configRepo{}
}

const configColumns = `authority, ticket_price,
	split_daily, split_weekly, split_monthly, split_platform, split_lucky_draw,
	winner_split_1, winner_split_2, winner_split_3,
	paused, created_at, updated_at`

func (r *configRepo) Find(ctx context.Context, db DBTX) (*domain.GameConfig, error) {
	row := db.QueryRow(ctx, `SELECT `+configColumns+` FROM game_config WHERE id = 1`)
	return scanConfig(row)
}

func (r *configRepo) LockForUpdate(ctx context.Context, tx pgx.Tx) (*domain.GameConfig, error) {
	row := tx.QueryRow(ctx, `SELECT `+configColumns+` FROM game_config WHERE id = 1 FOR UPDATE`)
	return scanConfig(row)
}

func (r *configRepo) Create(ctx context.Context, db DBTX, cfg *domain.GameConfig) error {
	_, err := db.Exec(ctx, `
		INSERT INTO game_config (id, `+configColumns+`)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		cfg.Authority, infra.Int64ToNumeric(cfg.TicketPrice),
		cfg.PoolSplits.Daily, cfg.PoolSplits.Weekly, cfg.PoolSplits.Monthly,
		cfg.PoolSplits.Platform, cfg.PoolSplits.LuckyDraw,
		cfg.WinnerSplits[0], cfg.WinnerSplits[1], cfg.WinnerSplits[2],
		cfg.Paused, cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert game config: %w", err)
	}
	return nil
}

func (r *configRepo) Update(ctx context.Context, db DBTX, cfg *domain.GameConfig) error {
	tag, err := db.Exec(ctx, `
		UPDATE game_config SET
			authority = $1, ticket_price = $2,
			split_daily = $3, split_weekly = $4, split_monthly = $5,
			split_platform = $6, split_lucky_draw = $7,
			winner_split_1 = $8, winner_split_2 = $9, winner_split_3 = $10,
			paused = $11, updated_at = $12
		WHERE id = 1`,
		cfg.Authority, infra.Int64ToNumeric(cfg.TicketPrice),
		cfg.PoolSplits.Daily, cfg.PoolSplits.Weekly, cfg.PoolSplits.Monthly,
		cfg.PoolSplits.Platform, cfg.PoolSplits.LuckyDraw,
		cfg.WinnerSplits[0], cfg.WinnerSplits[1], cfg.WinnerSplits[2],
		cfg.Paused, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update game config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("game config", "1")
	}
	return nil
}

func scanConfig(row pgx.Row) (*domain.GameConfig, error) {
	cfg := &domain.GameConfig{}
	var price pgtype.Numeric
	err := row.Scan(
		&cfg.Authority, &price,
		&cfg.PoolSplits.Daily, &cfg.PoolSplits.Weekly, &cfg.PoolSplits.Monthly,
		&cfg.PoolSplits.Platform, &cfg.PoolSplits.LuckyDraw,
		&cfg.WinnerSplits[0], &cfg.WinnerSplits[1], &cfg.WinnerSplits[2],
		&cfg.Paused, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan game config: %w", err)
	}
	if cfg.TicketPrice, err = infra.NumericToInt64(price); err != nil {
		return nil, fmt.Errorf("convert ticket_price: %w", err)
	}
	return cfg, nil
}
