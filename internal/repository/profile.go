package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wordrush/platform/internal/domain"
)

type profileRepo struct{}

// NewProfileRepository returns a pgx-backed ProfileRepository.
func NewProfileRepository() ProfileRepository {
	return &profileRepo{}
}

const profileColumns = `player_id, username, games_played, games_won, current_streak, max_streak,
	total_score, best_score, avg_guesses, guess_distribution, last_played_period,
	last_paid_period, has_played_this_period, achievements, created_at, last_played_at`

func (r *profileRepo) FindByPlayerID(ctx context.Context, db DBTX, playerID uuid.UUID) (*domain.PlayerProfile, error) {
	row := db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM player_profiles WHERE player_id = $1`, playerID)
	return scanProfile(row)
}

func (r *profileRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, playerID uuid.UUID) (*domain.PlayerProfile, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM player_profiles WHERE player_id = $1 FOR UPDATE`, playerID)
	return scanProfile(row)
}

func (r *profileRepo) Create(ctx context.Context, db DBTX, p *domain.PlayerProfile) error {
	dist, achievements, err := marshalProfileBlobs(p)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, `
		INSERT INTO player_profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.PlayerID, p.Username, p.GamesPlayed, p.GamesWon, p.CurrentStreak, p.MaxStreak,
		p.TotalScore, p.BestScore, p.AvgGuesses, dist, p.LastPlayedPeriod,
		p.LastPaidPeriod, p.HasPlayedThisPeriod, achievements, p.CreatedAt, p.LastPlayedAt,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *profileRepo) Update(ctx context.Context, db DBTX, p *domain.PlayerProfile) error {
	dist, achievements, err := marshalProfileBlobs(p)
	if err != nil {
		return err
	}
	tag, err := db.Exec(ctx, `
		UPDATE player_profiles SET
			username = $2, games_played = $3, games_won = $4, current_streak = $5,
			max_streak = $6, total_score = $7, best_score = $8, avg_guesses = $9,
			guess_distribution = $10, last_played_period = $11, last_paid_period = $12,
			has_played_this_period = $13, achievements = $14, last_played_at = $15
		WHERE player_id = $1`,
		p.PlayerID, p.Username, p.GamesPlayed, p.GamesWon, p.CurrentStreak,
		p.MaxStreak, p.TotalScore, p.BestScore, p.AvgGuesses,
		dist, p.LastPlayedPeriod, p.LastPaidPeriod,
		p.HasPlayedThisPeriod, achievements, p.LastPlayedAt,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("profile", p.PlayerID.String())
	}
	return nil
}

func marshalProfileBlobs(p *domain.PlayerProfile) ([]byte, []byte, error) {
	dist, err := json.Marshal(p.GuessDistribution)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal guess distribution: %w", err)
	}
	achievements, err := json.Marshal(p.Achievements)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal achievements: %w", err)
	}
	return dist, achievements, nil
}

func scanProfile(row pgx.Row) (*domain.PlayerProfile, error) {
	p := &domain.PlayerProfile{}
	var dist, achievements []byte
	err := row.Scan(
		&p.PlayerID, &p.Username, &p.GamesPlayed, &p.GamesWon, &p.CurrentStreak, &p.MaxStreak,
		&p.TotalScore, &p.BestScore, &p.AvgGuesses, &dist, &p.LastPlayedPeriod,
		&p.LastPaidPeriod, &p.HasPlayedThisPeriod, &achievements, &p.CreatedAt, &p.LastPlayedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	if err := json.Unmarshal(dist, &p.GuessDistribution); err != nil {
		return nil, fmt.Errorf("unmarshal guess distribution: %w", err)
	}
	if len(achievements) > 0 {
		if err := json.Unmarshal(achievements, &p.Achievements); err != nil {
			return nil, fmt.Errorf("unmarshal achievements: %w", err)
		}
	}
	return p, nil
}
