// Package prize closes competition periods: it freezes leaderboards,
// splits the frozen vault balance among the declared winners, and
// grants claimable entitlements.
package prize

import (
	"fmt"

	"github.com/wordrush/platform/internal/domain"
)

// floorBasisPoints computes floor(amount * bp / 10000) without
// overflowing int64 for any non-negative amount.
func floorBasisPoints(amount int64, bp uint16) int64 {
	q := amount / domain.BasisPointsTotal
	r := amount % domain.BasisPointsTotal
	return q*int64(bp) + r*int64(bp)/domain.BasisPointsTotal
}

// CalculateWinnerSplits divides a frozen vault balance among up to
// three ranked winners by basis-point weights. Ranks past the first
// get floor(balance * weight / 10000); everything integer division
// truncates, plus the shares of absent ranks, folds into first place
// so the returned amounts always sum to the balance exactly.
func CalculateWinnerSplits(balance int64, weights [domain.TopWinnersCount]uint16, numWinners int) ([]int64, error) {
	if balance < 0 {
		return nil, domain.ErrValidation("vault balance must not be negative")
	}
	if numWinners < 1 || numWinners > domain.TopWinnersCount {
		return nil, domain.ErrValidation(fmt.Sprintf("winner count must be 1-%d, got %d", domain.TopWinnersCount, numWinners))
	}
	var total uint32
	for _, w := range weights {
		total += uint32(w)
	}
	if total != domain.BasisPointsTotal {
		return nil, domain.ErrValidation(fmt.Sprintf("winner splits sum to %d basis points, want %d", total, domain.BasisPointsTotal))
	}

	amounts := make([]int64, numWinners)
	rest := int64(0)
	for k := 1; k < numWinners; k++ {
		amounts[k] = floorBasisPoints(balance, weights[k])
		rest += amounts[k]
	}
	amounts[0] = balance - rest
	return amounts, nil
}

// ValidateWinnerSplits rechecks the exact-sum invariant before any
// value moves: the split amounts must reconstruct the balance with
// nothing created or destroyed.
func ValidateWinnerSplits(balance int64, amounts []int64) error {
	var sum int64
	for _, a := range amounts {
		if a < 0 {
			return domain.ErrValidation("prize amount must not be negative")
		}
		sum += a
	}
	if sum != balance {
		return domain.ErrValidation(fmt.Sprintf("prize amounts sum to %d, vault balance is %d", sum, balance))
	}
	return nil
}

// TicketDistribution is one entry fee divided across the five prize
// and revenue vaults.
type TicketDistribution struct {
	Daily     int64
	Weekly    int64
	Monthly   int64
	Platform  int64
	LuckyDraw int64
}

// Amounts returns the distribution keyed by destination vault.
func (d TicketDistribution) Amounts() map[domain.VaultKind]int64 {
	return map[domain.VaultKind]int64{
		domain.VaultDaily:     d.Daily,
		domain.VaultWeekly:    d.Weekly,
		domain.VaultMonthly:   d.Monthly,
		domain.VaultPlatform:  d.Platform,
		domain.VaultLuckyDraw: d.LuckyDraw,
	}
}

// SplitTicket divides a ticket price across the five vaults by the
// configured pool weights. The daily share absorbs truncation so the
// five amounts always sum to the ticket price exactly.
func SplitTicket(price int64, splits domain.PoolSplits) (TicketDistribution, error) {
	if price <= 0 {
		return TicketDistribution{}, domain.ErrValidation("ticket price must be positive")
	}
	if splits.Total() != domain.BasisPointsTotal {
		return TicketDistribution{}, domain.ErrValidation(
			fmt.Sprintf("pool splits sum to %d basis points, want %d", splits.Total(), domain.BasisPointsTotal))
	}

	d := TicketDistribution{
		Weekly:    floorBasisPoints(price, splits.Weekly),
		Monthly:   floorBasisPoints(price, splits.Monthly),
		Platform:  floorBasisPoints(price, splits.Platform),
		LuckyDraw: floorBasisPoints(price, splits.LuckyDraw),
	}
	d.Daily = price - d.Weekly - d.Monthly - d.Platform - d.LuckyDraw
	return d, nil
}
