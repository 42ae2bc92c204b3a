package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wordrush/platform/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// ProfileRepository provides access to player_profiles.
type ProfileRepository interface {
	// FindByPlayerID returns a profile, or nil if none exists.
	FindByPlayerID(ctx context.Context, db DBTX, playerID uuid.UUID) (*domain.PlayerProfile, error)

	// LockForUpdate acquires a row-level lock (SELECT FOR UPDATE) and returns the profile.
	LockForUpdate(ctx context.Context, tx pgx.Tx, playerID uuid.UUID) (*domain.PlayerProfile, error)

	// Create inserts a new profile.
	Create(ctx context.Context, db DBTX, profile *domain.PlayerProfile) error

	// Update persists the full mutable state of a profile.
	Update(ctx context.Context, db DBTX, profile *domain.PlayerProfile) error
}

// SessionRepository provides access to game_sessions.
type SessionRepository interface {
	// FindByID returns a session, or nil if none exists.
	FindByID(ctx context.Context, db DBTX, sessionID string) (*domain.GameSession, error)

	// FindByPlayer returns the player's session record, or nil. One
	// record exists per player; resets repoint it at a new period.
	FindByPlayer(ctx context.Context, db DBTX, playerID uuid.UUID) (*domain.GameSession, error)

	// LockForUpdate locks the player's session row for the mutating
	// transaction.
	LockForUpdate(ctx context.Context, tx pgx.Tx, playerID uuid.UUID) (*domain.GameSession, error)

	// Create inserts a new session.
	Create(ctx context.Context, db DBTX, session *domain.GameSession) error

	// Update persists the full mutable state of a session.
	Update(ctx context.Context, db DBTX, session *domain.GameSession) error
}

// LeaderboardRepository provides access to leaderboards.
type LeaderboardRepository interface {
	// Find returns the board keyed by (period, granularity), or nil.
	Find(ctx context.Context, db DBTX, g domain.Granularity, periodID string) (*domain.Leaderboard, error)

	// LockForUpdate locks the board row for score folds and finalization.
	LockForUpdate(ctx context.Context, tx pgx.Tx, g domain.Granularity, periodID string) (*domain.Leaderboard, error)

	// Create inserts a new empty board.
	Create(ctx context.Context, db DBTX, lb *domain.Leaderboard) error

	// Update persists entries, counters, and finalization state.
	Update(ctx context.Context, db DBTX, lb *domain.Leaderboard) error
}

// PeriodRepository provides access to period_states.
type PeriodRepository interface {
	// Find returns a closed period record, or nil.
	Find(ctx context.Context, db DBTX, g domain.Granularity, periodID string) (*domain.PeriodState, error)

	// Create inserts the immutable close record.
	Create(ctx context.Context, db DBTX, state *domain.PeriodState) error
}

// EntitlementRepository provides access to winner_entitlements.
type EntitlementRepository interface {
	// Find returns an entitlement, or nil.
	Find(ctx context.Context, db DBTX, playerID uuid.UUID, g domain.Granularity, periodID string) (*domain.WinnerEntitlement, error)

	// LockForUpdate locks the entitlement row so concurrent claims serialize.
	LockForUpdate(ctx context.Context, tx pgx.Tx, playerID uuid.UUID, g domain.Granularity, periodID string) (*domain.WinnerEntitlement, error)

	// ListByPlayer returns a player's entitlements, newest first.
	ListByPlayer(ctx context.Context, db DBTX, playerID uuid.UUID) ([]domain.WinnerEntitlement, error)

	// Create inserts a new entitlement.
	Create(ctx context.Context, db DBTX, e *domain.WinnerEntitlement) error

	// MarkClaimed flips the claimed flag.
	MarkClaimed(ctx context.Context, tx pgx.Tx, e *domain.WinnerEntitlement) error
}

// VaultRepository provides access to the vault balance rows.
type VaultRepository interface {
	// Find returns a vault, or nil.
	Find(ctx context.Context, db DBTX, kind domain.VaultKind) (*domain.Vault, error)

	// LockForUpdate locks the vault row for a balance-moving transaction.
	LockForUpdate(ctx context.Context, tx pgx.Tx, kind domain.VaultKind) (*domain.Vault, error)

	// List returns all vaults.
	List(ctx context.Context, db DBTX) ([]domain.Vault, error)

	// Create inserts a vault holding record.
	Create(ctx context.Context, db DBTX, v *domain.Vault) error

	// UpdateBalance applies a server-side balance delta and returns the row.
	UpdateBalance(ctx context.Context, tx pgx.Tx, kind domain.VaultKind, delta int64) (*domain.Vault, error)
}

// VaultEntryRepository provides access to the vault_entries ledger.
type VaultEntryRepository interface {
	// FindExisting checks the idempotency index for a duplicate entry.
	FindExisting(ctx context.Context, db DBTX, key domain.IdempotencyKey) (*domain.VaultEntry, error)

	// Insert creates a ledger entry with its balance snapshot.
	Insert(ctx context.Context, db DBTX, e *domain.VaultEntry) error

	// ListByVault returns entries for one vault, newest first.
	ListByVault(ctx context.Context, db DBTX, kind domain.VaultKind, limit int) ([]domain.VaultEntry, error)
}

// ConfigRepository provides access to the singleton game_config row.
type ConfigRepository interface {
	// Find returns the config, or nil when not yet initialized.
	Find(ctx context.Context, db DBTX) (*domain.GameConfig, error)

	// LockForUpdate locks the config row for admin mutation.
	LockForUpdate(ctx context.Context, tx pgx.Tx) (*domain.GameConfig, error)

	// Create inserts the singleton row.
	Create(ctx context.Context, db DBTX, cfg *domain.GameConfig) error

	// Update persists the mutable config fields.
	Update(ctx context.Context, db DBTX, cfg *domain.GameConfig) error
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event within the same transaction as the
	// state change it announces.
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublished returns pending events for the poller.
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]domain.OutboxDraft, error)

	// MarkPublished removes events the poller delivered.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}

// AuthUserRepository provides access to auth_users.
type AuthUserRepository interface {
	// FindByEmail returns an auth user by email, or nil.
	FindByEmail(ctx context.Context, db DBTX, email string) (*domain.AuthUser, error)

	// Create inserts a new auth user.
	Create(ctx context.Context, db DBTX, user *domain.AuthUser) error
}

// DelegationRepository provides access to session_delegations.
type DelegationRepository interface {
	// Find returns the delegation for a session, or nil.
	Find(ctx context.Context, db DBTX, sessionID string) (*domain.SessionDelegation, error)

	// LockForUpdate locks the delegation row for apply/reconcile.
	LockForUpdate(ctx context.Context, tx pgx.Tx, sessionID string) (*domain.SessionDelegation, error)

	// Create inserts an exported snapshot.
	Create(ctx context.Context, db DBTX, d *domain.SessionDelegation) error

	// Update persists status transitions and applied snapshots.
	Update(ctx context.Context, db DBTX, d *domain.SessionDelegation) error
}
