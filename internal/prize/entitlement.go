package prize

import (
	"time"

	"github.com/google/uuid"
	"github.com/wordrush/platform/internal/domain"
)

// NewEntitlement grants one winner the right to claim one fixed prize
// amount. The target period must be finalized, the player must appear
// in its declared winners, the rank must be 1-3, and the amount must
// be positive.
func NewEntitlement(period *domain.PeriodState, playerID uuid.UUID, rank uint8, amount int64, now time.Time) (*domain.WinnerEntitlement, error) {
	if !period.Finalized {
		return nil, domain.ErrNotFinalized("period")
	}
	if !period.HasWinner(playerID) {
		return nil, domain.ErrValidation("player is not a declared winner for this period")
	}
	if err := domain.ValidateRank(rank); err != nil {
		return nil, err
	}
	if err := domain.ValidatePositiveAmount(amount); err != nil {
		return nil, err
	}
	return &domain.WinnerEntitlement{
		PlayerID:    playerID,
		Granularity: period.Granularity,
		PeriodID:    period.PeriodID,
		Rank:        rank,
		Amount:      amount,
		CreatedAt:   now,
	}, nil
}

// Claim marks an entitlement claimed after checking it against the
// paying vault's balance. The caller runs this inside the same atomic
// transaction that moves the value, so two concurrent claims on one
// entitlement cannot both pass the claimed check. Entitlements never
// expire; an unclaimed one stays claimable indefinitely.
func Claim(e *domain.WinnerEntitlement, vault domain.VaultKind, vaultBalance int64, now time.Time) error {
	if e.Claimed {
		return domain.ErrAlreadyClaimed()
	}
	if vaultBalance < e.Amount {
		return domain.ErrInsufficientVaultBalance(vault, e.Amount, vaultBalance)
	}
	e.Claimed = true
	e.ClaimedAt = &now
	return nil
}
