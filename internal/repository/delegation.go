package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/wordrush/platform/internal/domain"
)

type delegationRepo struct{}

// NewDelegationRepository returns a pgx-backed DelegationRepository.
func NewDelegationRepository() DelegationRepository {
	return &delegationRepo{}
}

const delegationColumns = `session_id, player_id, status, snapshot, digest,
	exported_at, applied_at, reconciled_at`

func (r *delegationRepo) Find(ctx context.Context, db DBTX, sessionID string) (*domain.SessionDelegation, error) {
	row := db.QueryRow(ctx,
		`SELECT `+delegationColumns+` FROM session_delegations WHERE session_id = $1`, sessionID)
	return scanDelegation(row)
}

func (r *delegationRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, sessionID string) (*domain.SessionDelegation, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+delegationColumns+` FROM session_delegations WHERE session_id = $1 FOR UPDATE`, sessionID)
	return scanDelegation(row)
}

func (r *delegationRepo) Create(ctx context.Context, db DBTX, d *domain.SessionDelegation) error {
	_, err := db.Exec(ctx, `
		INSERT INTO session_delegations (`+delegationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.SessionID, d.PlayerID, d.Status, d.Snapshot, d.Digest,
		d.ExportedAt, d.AppliedAt, d.ReconciledAt,
	)
	if err != nil {
		return fmt.Errorf("insert delegation: %w", err)
	}
	return nil
}

func (r *delegationRepo) Update(ctx context.Context, db DBTX, d *domain.SessionDelegation) error {
	tag, err := db.Exec(ctx, `
		UPDATE session_delegations SET
			status = $2, snapshot = $3, digest = $4,
			exported_at = $5, applied_at = $6, reconciled_at = $7
		WHERE session_id = $1`,
		d.SessionID, d.Status, d.Snapshot, d.Digest,
		d.ExportedAt, d.AppliedAt, d.ReconciledAt,
	)
	if err != nil {
		return fmt.Errorf("update delegation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("delegation", d.SessionID)
	}
	return nil
}

func scanDelegation(row pgx.Row) (*domain.SessionDelegation, error) {
	d := &domain.SessionDelegation{}
	err := row.Scan(&d.SessionID, &d.PlayerID, &d.Status, &d.Snapshot, &d.Digest,
		&d.ExportedAt, &d.AppliedAt, &d.ReconciledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan delegation: %w", err)
	}
	return d, nil
}
