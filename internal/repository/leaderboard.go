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

type leaderboardRepo struct{}

// NewLeaderboardRepository returns a pgx-backed LeaderboardRepository.
func NewLeaderboardRepository() LeaderboardRepository {
	return &leaderboardRepo{}
}

const leaderboardColumns = `period_id, granularity, capacity, entries, total_players,
	prize_pool, finalized, created_at, finalized_at`

func (r *leaderboardRepo) Find(ctx context.Context, db DBTX, g domain.Granularity, periodID string) (*domain.Leaderboard, error) {
	row := db.QueryRow(ctx,
		`SELECT `+leaderboardColumns+` FROM leaderboards
		 WHERE granularity = $1 AND period_id = $2`, g, periodID)
	return scanLeaderboard(row)
}

func (r *leaderboardRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, g domain.Granularity, periodID string) (*domain.Leaderboard, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+leaderboardColumns+` FROM leaderboards
		 WHERE granularity = $1 AND period_id = $2 FOR UPDATE`, g, periodID)
	return scanLeaderboard(row)
}

func (r *leaderboardRepo) Create(ctx context.Context, db DBTX, lb *domain.Leaderboard) error {
	entries, err := json.Marshal(lb.Entries)
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}
	_, err = db.Exec(ctx, `
		INSERT INTO leaderboards (`+leaderboardColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		lb.PeriodID, lb.Granularity, lb.Capacity, entries, lb.TotalPlayers,
		infra.Int64ToNumeric(lb.PrizePool), lb.Finalized, lb.CreatedAt, lb.FinalizedAt,
	)
	if err != nil {
		return fmt.Errorf("insert leaderboard: %w", err)
	}
	return nil
}

func (r *leaderboardRepo) Update(ctx context.Context, db DBTX, lb *domain.Leaderboard) error {
	entries, err := json.Marshal(lb.Entries)
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}
	tag, err := db.Exec(ctx, `
		UPDATE leaderboards SET
			entries = $3, total_players = $4, prize_pool = $5,
			finalized = $6, finalized_at = $7
		WHERE granularity = $1 AND period_id = $2`,
		lb.Granularity, lb.PeriodID, entries, lb.TotalPlayers,
		infra.Int64ToNumeric(lb.PrizePool), lb.Finalized, lb.FinalizedAt,
	)
	if err != nil {
		return fmt.Errorf("update leaderboard: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("leaderboard", fmt.Sprintf("%s/%s", lb.Granularity, lb.PeriodID))
	}
	return nil
}

func scanLeaderboard(row pgx.Row) (*domain.Leaderboard, error) {
	lb := &domain.Leaderboard{}
	var entries []byte
	var pool pgtype.Numeric
	err := row.Scan(
		&lb.PeriodID, &lb.Granularity, &lb.Capacity, &entries, &lb.TotalPlayers,
		&pool, &lb.Finalized, &lb.CreatedAt, &lb.FinalizedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan leaderboard: %w", err)
	}
	if lb.PrizePool, err = infra.NumericToInt64(pool); err != nil {
		return nil, fmt.Errorf("convert prize_pool: %w", err)
	}
	if len(entries) > 0 {
		if err := json.Unmarshal(entries, &lb.Entries); err != nil {
			return nil, fmt.Errorf("unmarshal entries: %w", err)
		}
	}
	return lb, nil
}
