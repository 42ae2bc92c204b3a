package domain

import (
	"time"

	"github.com/google/uuid"
)

// PoolSplits is the five-way basis-point split of one entry fee.
type PoolSplits struct {
	Daily     uint16 `json:"daily"`
	Weekly    uint16 `json:"weekly"`
	Monthly   uint16 `json:"monthly"`
	Platform  uint16 `json:"platform"`
	LuckyDraw uint16 `json:"lucky_draw"`
}

// Total returns the sum of all pool splits in basis points.
func (p PoolSplits) Total() int {
	return int(p.Daily) + int(p.Weekly) + int(p.Monthly) + int(p.Platform) + int(p.LuckyDraw)
}

// GameConfig is the authority-owned global configuration.
type GameConfig struct {
	Authority   uuid.UUID  `json:"authority"`
	TicketPrice int64      `json:"ticket_price"`
	PoolSplits  PoolSplits `json:"pool_splits"`
	// Winner payout weights in basis points for ranks 1..3.
	WinnerSplits [TopWinnersCount]uint16 `json:"winner_splits"`
	Paused       bool                    `json:"paused"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// Validate checks the split invariants: both the pool splits and the
// winner splits must sum to exactly BasisPointsTotal, and the ticket
// price must be positive.
func (c *GameConfig) Validate() error {
	if c.TicketPrice <= 0 {
		return ErrValidation("ticket price must be positive")
	}
	if c.PoolSplits.Total() != BasisPointsTotal {
		return ErrValidation("pool splits must sum to 10000 basis points")
	}
	winnerTotal := 0
	for _, w := range c.WinnerSplits {
		winnerTotal += int(w)
	}
	if winnerTotal != BasisPointsTotal {
		return ErrValidation("winner splits must sum to 10000 basis points")
	}
	return nil
}
