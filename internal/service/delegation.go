package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wordrush/platform/internal/delegation"
	"github.com/wordrush/platform/internal/domain"
	"github.com/wordrush/platform/internal/repository"
)

// DelegationService moves a session to a faster execution venue and
// back: export seals a snapshot, apply folds in remote progress, and
// reconcile merges the result into the durable session row. A session
// completed remotely settles through the normal completion path after
// reconciliation.
type DelegationService struct {
	pool        *pgxpool.Pool
	sessions    repository.SessionRepository
	delegations repository.DelegationRepository
	games       *GameService
	logger      *slog.Logger
}

// NewDelegationService creates a DelegationService.
func NewDelegationService(
	pool *pgxpool.Pool,
	sessions repository.SessionRepository,
	delegations repository.DelegationRepository,
	games *GameService,
	logger *slog.Logger,
) *DelegationService {
	return &DelegationService{
		pool:        pool,
		sessions:    sessions,
		delegations: delegations,
		games:       games,
		logger:      logger,
	}
}

// Export seals the caller's active session into a delegation record
// and returns the snapshot for the remote venue.
func (s *DelegationService) Export(ctx context.Context, playerID uuid.UUID) (*domain.SessionDelegation, error) {
	now := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	session, err := s.sessions.LockForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, domain.ErrInternal("lock session", err)
	}
	if session == nil {
		return nil, domain.ErrNotFound("session", playerID.String())
	}

	existing, err := s.delegations.Find(ctx, tx, session.SessionID)
	if err != nil {
		return nil, domain.ErrInternal("find delegation", err)
	}
	if existing != nil && existing.Status != domain.DelegationReconciled {
		return nil, domain.ErrConflict("session is already delegated")
	}

	d, err := delegation.Export(session, now)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if err := s.delegations.Update(ctx, tx, d); err != nil {
			return nil, domain.ErrInternal("update delegation", err)
		}
	} else {
		if err := s.delegations.Create(ctx, tx, d); err != nil {
			return nil, domain.ErrInternal("create delegation", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("session exported", "player_id", playerID, "session_id", session.SessionID)
	return d, nil
}

// Apply folds a remotely mutated session snapshot into the delegation
// record. The remote state must descend from the exported one.
func (s *DelegationService) Apply(ctx context.Context, playerID uuid.UUID, remoteSnapshot json.RawMessage) error {
	now := time.Now()

	var remote domain.GameSession
	if err := json.Unmarshal(remoteSnapshot, &remote); err != nil {
		return domain.ErrValidation("malformed remote session snapshot")
	}
	if remote.PlayerID != playerID {
		return domain.ErrForbidden("snapshot belongs to another player")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	d, err := s.delegations.LockForUpdate(ctx, tx, remote.SessionID)
	if err != nil {
		return domain.ErrInternal("lock delegation", err)
	}
	if d == nil {
		return domain.ErrNotFound("delegation", remote.SessionID)
	}

	if err := delegation.Apply(d, &remote, now); err != nil {
		return err
	}

	if err := s.delegations.Update(ctx, tx, d); err != nil {
		return domain.ErrInternal("update delegation", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("delegation applied", "session_id", remote.SessionID, "guesses_used", remote.GuessesUsed)
	return nil
}

// Reconcile merges the delegated state back into the durable session
// row. A snapshot that arrived completed settles immediately through
// the normal completion path.
func (s *DelegationService) Reconcile(ctx context.Context, playerID uuid.UUID) (*SessionView, error) {
	now := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	profile, err := s.games.profiles.LockForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, domain.ErrInternal("lock profile", err)
	}
	if profile == nil {
		return nil, domain.ErrNotFound("profile", playerID.String())
	}

	session, err := s.sessions.LockForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, domain.ErrInternal("lock session", err)
	}
	if session == nil {
		return nil, domain.ErrNotFound("session", playerID.String())
	}

	d, err := s.delegations.LockForUpdate(ctx, tx, session.SessionID)
	if err != nil {
		return nil, domain.ErrInternal("lock delegation", err)
	}
	if d == nil {
		return nil, domain.ErrNotFound("delegation", session.SessionID)
	}

	merged, err := delegation.Reconcile(d, now)
	if err != nil {
		return nil, err
	}

	if mergeErr := delegation.MergeBack(session, merged); mergeErr != nil {
		// The durable row advanced (or completed and settled) while the
		// handoff was out. The stale result is discarded, but the
		// delegation still closes so the player can export again.
		if err := s.delegations.Update(ctx, tx, d); err != nil {
			return nil, domain.ErrInternal("update delegation", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, domain.ErrInternal("commit tx", err)
		}
		s.logger.Warn("stale delegation discarded",
			"player_id", playerID, "session_id", session.SessionID)
		return nil, mergeErr
	}

	if session.Completed {
		if _, err := s.games.settleCompleted(ctx, tx, profile, session, now); err != nil {
			return nil, err
		}
		if err := s.games.profiles.Update(ctx, tx, profile); err != nil {
			return nil, domain.ErrInternal("update profile", err)
		}
	}

	if err := s.sessions.Update(ctx, tx, session); err != nil {
		return nil, domain.ErrInternal("update session", err)
	}
	if err := s.delegations.Update(ctx, tx, d); err != nil {
		return nil, domain.ErrInternal("update delegation", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("session reconciled",
		"player_id", playerID, "session_id", session.SessionID, "completed", session.Completed)
	return sessionView(session), nil
}
