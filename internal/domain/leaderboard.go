package domain

import (
	"time"

	"github.com/google/uuid"
)

// Granularity tags the competition window a leaderboard covers.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// Granularities lists all competition windows fed by one game outcome.
var Granularities = []Granularity{GranularityDaily, GranularityWeekly, GranularityMonthly}

// Valid reports whether g is a known granularity.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return true
	}
	return false
}

// UpdatePolicy selects how a new score folds into an existing entry.
type UpdatePolicy string

const (
	// PolicyReplaceIfBetter overwrites an existing entry only when the
	// new score is strictly greater.
	PolicyReplaceIfBetter UpdatePolicy = "replace_if_better"
	// PolicyAccumulate adds the new score to the existing one,
	// saturating instead of overflowing.
	PolicyAccumulate UpdatePolicy = "accumulate"
)

// Policy returns the update policy configured for this granularity:
// best-single-score for daily boards, accumulated score for the
// longer windows.
func (g Granularity) Policy() UpdatePolicy {
	if g == GranularityDaily {
		return PolicyReplaceIfBetter
	}
	return PolicyAccumulate
}

// Capacity returns the entry cap for this granularity's leaderboard.
func (g Granularity) Capacity() int {
	if g == GranularityDaily {
		return TopLeaderboardCapacity
	}
	return BulkLeaderboardCapacity
}

// LeaderEntry is a single ranked standing.
type LeaderEntry struct {
	PlayerID    uuid.UUID `json:"player_id"`
	Score       int64     `json:"score"`
	GuessesUsed uint8     `json:"guesses_used"`
	TimeMS      uint64    `json:"time_ms"`
	Timestamp   time.Time `json:"timestamp"`
	Username    string    `json:"username"`
}

// Leaderboard holds bounded, ranked standings for one (period,
// granularity). Entries stay sorted by score desc, time asc, guesses
// asc and never exceed Capacity. Once Finalized the standings are
// immutable; late updates are silently ignored so a closed period
// cannot be reopened by stray writes.
type Leaderboard struct {
	PeriodID     string       `json:"period_id"`
	Granularity  Granularity  `json:"granularity"`
	Capacity     int          `json:"capacity"`
	Entries      []LeaderEntry `json:"entries"`
	// TotalPlayers counts board entries, not distinct players: a player
	// trimmed off a full board counts again if they re-enter. The board
	// only remembers its ranked entries, so distinct counting would need
	// an unbounded seen set.
	TotalPlayers uint32       `json:"total_players"`
	PrizePool    int64        `json:"prize_pool"`
	Finalized    bool         `json:"finalized"`
	CreatedAt    time.Time    `json:"created_at"`
	FinalizedAt  *time.Time   `json:"finalized_at,omitempty"`
}

// Rank returns the player's 1-based rank, or 0 if absent.
func (l *Leaderboard) Rank(playerID uuid.UUID) int {
	for i, e := range l.Entries {
		if e.PlayerID == playerID {
			return i + 1
		}
	}
	return 0
}
