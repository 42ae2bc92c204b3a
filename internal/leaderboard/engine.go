// Package leaderboard folds completed game scores into bounded, ranked
// standings and tracks how a player's rank moved on each submission.
package leaderboard

import (
	"math"
	"sort"
	"time"

	"github.com/wordrush/platform/internal/domain"
)

// New returns an empty leaderboard for one competition window.
func New(periodID string, g domain.Granularity, now time.Time) *domain.Leaderboard {
	return &domain.Leaderboard{
		PeriodID:    periodID,
		Granularity: g,
		Capacity:    g.Capacity(),
		CreatedAt:   now,
	}
}

// UpdateResult describes what one score submission did to the board.
type UpdateResult struct {
	// Applied is false when the board is finalized or the policy
	// rejected the score; the board is unchanged in that case.
	Applied bool
	// RankChange is +1 when the player entered the ranked list, -1 when
	// they fell off it, otherwise oldRank-newRank (positive = climbed).
	RankChange int
	NewRank    int
}

// UpdateScore folds a finished game into the standings under the
// board's granularity policy, re-sorts, and trims to capacity.
// Finalized boards ignore the submission without error.
func UpdateScore(lb *domain.Leaderboard, entry domain.LeaderEntry) UpdateResult {
	if lb.Finalized {
		return UpdateResult{}
	}

	oldRank := lb.Rank(entry.PlayerID)
	idx := oldRank - 1

	switch {
	case idx < 0:
		lb.Entries = append(lb.Entries, entry)
		// Counts entries, not distinct players; see the field doc.
		lb.TotalPlayers++
	case lb.Granularity.Policy() == domain.PolicyAccumulate:
		existing := &lb.Entries[idx]
		existing.Score = saturatingAdd(existing.Score, entry.Score)
		existing.GuessesUsed = entry.GuessesUsed
		existing.TimeMS = entry.TimeMS
		existing.Timestamp = entry.Timestamp
		existing.Username = entry.Username
	default: // replace_if_better
		existing := &lb.Entries[idx]
		if entry.Score <= existing.Score {
			return UpdateResult{NewRank: oldRank}
		}
		*existing = entry
	}

	sortEntries(lb.Entries)
	if len(lb.Entries) > lb.Capacity {
		lb.Entries = lb.Entries[:lb.Capacity]
	}

	newRank := lb.Rank(entry.PlayerID)
	return UpdateResult{
		Applied:    true,
		RankChange: rankChange(oldRank, newRank),
		NewRank:    newRank,
	}
}

// ThresholdToEnter returns the score a newcomer must beat to appear on
// the board. Zero while the board has open slots.
func ThresholdToEnter(lb *domain.Leaderboard) int64 {
	if len(lb.Entries) < lb.Capacity {
		return 0
	}
	return lb.Entries[len(lb.Entries)-1].Score
}

// sortEntries orders standings by score descending, then elapsed time
// ascending, then guesses used ascending. The sort is stable so equal
// entries keep their submission order.
func sortEntries(entries []domain.LeaderEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.TimeMS != b.TimeMS {
			return a.TimeMS < b.TimeMS
		}
		return a.GuessesUsed < b.GuessesUsed
	})
}

func rankChange(oldRank, newRank int) int {
	switch {
	case oldRank == 0 && newRank > 0:
		return 1
	case oldRank > 0 && newRank == 0:
		return -1
	case oldRank == 0 && newRank == 0:
		return 0
	}
	return oldRank - newRank
}

func saturatingAdd(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	if b < 0 && a < math.MinInt64-b {
		return math.MinInt64
	}
	return a + b
}
