package domain

import (
	"time"

	"github.com/google/uuid"
)

// PeriodState records a period's close. Created at finalization and
// immutable afterwards: the prize pool snapshot and winner list are
// the authoritative inputs for entitlement creation.
type PeriodState struct {
	Granularity       Granularity `json:"granularity"`
	PeriodID          string      `json:"period_id"`
	Finalized         bool        `json:"finalized"`
	TotalParticipants uint32      `json:"total_participants"`
	// Vault balance frozen at close; all prize math runs on this value.
	VaultBalanceAtClose int64       `json:"vault_balance_at_close"`
	Winners             []uuid.UUID `json:"winners"`
	FinalizedAt         time.Time   `json:"finalized_at"`
}

// HasWinner reports whether the player appears in the declared winners.
func (p *PeriodState) HasWinner(playerID uuid.UUID) bool {
	for _, w := range p.Winners {
		if w == playerID {
			return true
		}
	}
	return false
}

// WinnerEntitlement grants one winner the right to claim one fixed
// prize amount exactly once. Claimed transitions false to true once;
// the amount never mutates after creation. Unclaimed entitlements
// never expire.
type WinnerEntitlement struct {
	PlayerID    uuid.UUID   `json:"player_id"`
	Granularity Granularity `json:"granularity"`
	PeriodID    string      `json:"period_id"`
	Rank        uint8       `json:"rank"`
	Amount      int64       `json:"amount"`
	Claimed     bool        `json:"claimed"`
	CreatedAt   time.Time   `json:"created_at"`
	ClaimedAt   *time.Time  `json:"claimed_at,omitempty"`
}
