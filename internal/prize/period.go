package prize

import (
	"time"

	"github.com/google/uuid"
	"github.com/wordrush/platform/internal/domain"
)

// FinalizeLeaderboard closes a leaderboard one-way: it requires at
// least one entry and an exact match between the caller-supplied
// period id and the board's own, then freezes the standings.
func FinalizeLeaderboard(lb *domain.Leaderboard, periodID string, now time.Time) error {
	if lb.Finalized {
		return domain.ErrAlreadyFinalized("leaderboard")
	}
	if lb.PeriodID != periodID {
		return domain.ErrValidation("period id does not match leaderboard")
	}
	if len(lb.Entries) == 0 {
		return domain.ErrValidation("cannot finalize an empty leaderboard")
	}
	lb.Finalized = true
	lb.FinalizedAt = &now
	return nil
}

// Winners returns the top-ranked player ids, at most TopWinnersCount.
func Winners(lb *domain.Leaderboard) []uuid.UUID {
	n := len(lb.Entries)
	if n > domain.TopWinnersCount {
		n = domain.TopWinnersCount
	}
	winners := make([]uuid.UUID, n)
	for i := 0; i < n; i++ {
		winners[i] = lb.Entries[i].PlayerID
	}
	return winners
}

// FinalizePeriod snapshots a finalized leaderboard into an immutable
// period record: the vault balance frozen at close, the declared
// winners, and their computed prize amounts. The split is validated
// against the exact-sum invariant before the record is produced.
func FinalizePeriod(lb *domain.Leaderboard, vaultBalance int64, winnerSplits [domain.TopWinnersCount]uint16, now time.Time) (*domain.PeriodState, []int64, error) {
	if !lb.Finalized {
		return nil, nil, domain.ErrNotFinalized("leaderboard")
	}

	winners := Winners(lb)
	amounts, err := CalculateWinnerSplits(vaultBalance, winnerSplits, len(winners))
	if err != nil {
		return nil, nil, err
	}
	if err := ValidateWinnerSplits(vaultBalance, amounts); err != nil {
		return nil, nil, err
	}

	return &domain.PeriodState{
		Granularity:         lb.Granularity,
		PeriodID:            lb.PeriodID,
		Finalized:           true,
		TotalParticipants:   lb.TotalPlayers,
		VaultBalanceAtClose: vaultBalance,
		Winners:             winners,
		FinalizedAt:         now,
	}, amounts, nil
}
