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

type sessionRepo struct{}

// NewSessionRepository returns a pgx-backed SessionRepository.
func NewSessionRepository() SessionRepository {
	return &sessionRepo{}
}

const sessionColumns = `player_id, session_id, target_word_hash, word_index, target_word,
	guesses, guesses_used, is_solved, time_ms, score, completed, period_id, started_at, keystrokes`

func (r *sessionRepo) FindByID(ctx context.Context, db DBTX, sessionID string) (*domain.GameSession, error) {
	row := db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM game_sessions WHERE session_id = $1`, sessionID)
	return scanSession(row)
}

func (r *sessionRepo) FindByPlayer(ctx context.Context, db DBTX, playerID uuid.UUID) (*domain.GameSession, error) {
	row := db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM game_sessions WHERE player_id = $1`, playerID)
	return scanSession(row)
}

func (r *sessionRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, playerID uuid.UUID) (*domain.GameSession, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM game_sessions WHERE player_id = $1 FOR UPDATE`, playerID)
	return scanSession(row)
}

func (r *sessionRepo) Create(ctx context.Context, db DBTX, s *domain.GameSession) error {
	guesses, keystrokes, err := marshalSessionBlobs(s)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, `
		INSERT INTO game_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		s.PlayerID, s.SessionID, s.TargetWordHash, s.WordIndex, s.TargetWord,
		guesses, s.GuessesUsed, s.IsSolved, s.TimeMS, s.Score, s.Completed,
		s.PeriodID, s.StartedAt, keystrokes,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Update(ctx context.Context, db DBTX, s *domain.GameSession) error {
	guesses, keystrokes, err := marshalSessionBlobs(s)
	if err != nil {
		return err
	}
	tag, err := db.Exec(ctx, `
		UPDATE game_sessions SET
			session_id = $2, target_word_hash = $3, word_index = $4, target_word = $5,
			guesses = $6, guesses_used = $7, is_solved = $8, time_ms = $9,
			score = $10, completed = $11, period_id = $12, started_at = $13, keystrokes = $14
		WHERE player_id = $1`,
		s.PlayerID, s.SessionID, s.TargetWordHash, s.WordIndex, s.TargetWord,
		guesses, s.GuessesUsed, s.IsSolved, s.TimeMS,
		s.Score, s.Completed, s.PeriodID, s.StartedAt, keystrokes,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("session", s.SessionID)
	}
	return nil
}

func marshalSessionBlobs(s *domain.GameSession) ([]byte, []byte, error) {
	guesses, err := json.Marshal(s.Guesses)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal guesses: %w", err)
	}
	keystrokes, err := json.Marshal(s.Keystrokes)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal keystrokes: %w", err)
	}
	return guesses, keystrokes, nil
}

func scanSession(row pgx.Row) (*domain.GameSession, error) {
	s := &domain.GameSession{}
	var guesses, keystrokes []byte
	err := row.Scan(
		&s.PlayerID, &s.SessionID, &s.TargetWordHash, &s.WordIndex, &s.TargetWord,
		&guesses, &s.GuessesUsed, &s.IsSolved, &s.TimeMS, &s.Score, &s.Completed,
		&s.PeriodID, &s.StartedAt, &keystrokes,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	if err := json.Unmarshal(guesses, &s.Guesses); err != nil {
		return nil, fmt.Errorf("unmarshal guesses: %w", err)
	}
	if len(keystrokes) > 0 {
		if err := json.Unmarshal(keystrokes, &s.Keystrokes); err != nil {
			return nil, fmt.Errorf("unmarshal keystrokes: %w", err)
		}
	}
	return s, nil
}
