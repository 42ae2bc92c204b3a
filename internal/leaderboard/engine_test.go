package leaderboard

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordrush/platform/internal/domain"
)

func entry(score int64, timeMS uint64, guesses uint8) domain.LeaderEntry {
	return domain.LeaderEntry{
		PlayerID:    uuid.New(),
		Score:       score,
		TimeMS:      timeMS,
		GuessesUsed: guesses,
		Timestamp:   time.Now(),
	}
}

func TestUpdateScore_EnterAndRank(t *testing.T) {
	lb := New("D123", domain.GranularityDaily, time.Now())

	res := UpdateScore(lb, entry(900, 45_000, 3))
	require.True(t, res.Applied)
	assert.Equal(t, 1, res.NewRank)
	assert.Equal(t, 1, res.RankChange, "entering the board reports +1")

	res = UpdateScore(lb, entry(1500, 25_000, 1))
	require.True(t, res.Applied)
	assert.Equal(t, 1, res.NewRank)
	assert.Equal(t, uint32(2), lb.TotalPlayers)
}

func TestUpdateScore_Ordering(t *testing.T) {
	lb := New("D123", domain.GranularityDaily, time.Now())

	a := entry(1000, 60_000, 4) // ties broken by time
	b := entry(1000, 30_000, 5)
	c := entry(1000, 30_000, 2) // then by guesses
	for _, e := range []domain.LeaderEntry{a, b, c} {
		UpdateScore(lb, e)
	}

	require.Len(t, lb.Entries, 3)
	assert.Equal(t, c.PlayerID, lb.Entries[0].PlayerID)
	assert.Equal(t, b.PlayerID, lb.Entries[1].PlayerID)
	assert.Equal(t, a.PlayerID, lb.Entries[2].PlayerID)
}

func TestUpdateScore_DailyReplaceIfBetter(t *testing.T) {
	lb := New("D123", domain.GranularityDaily, time.Now())
	e := entry(900, 45_000, 3)
	UpdateScore(lb, e)

	t.Run("lower score rejected", func(t *testing.T) {
		worse := e
		worse.Score = 500
		res := UpdateScore(lb, worse)
		assert.False(t, res.Applied)
		assert.Equal(t, int64(900), lb.Entries[0].Score)
	})

	t.Run("equal score rejected", func(t *testing.T) {
		same := e
		res := UpdateScore(lb, same)
		assert.False(t, res.Applied)
	})

	t.Run("higher score replaces", func(t *testing.T) {
		better := e
		better.Score = 1300
		better.GuessesUsed = 1
		res := UpdateScore(lb, better)
		require.True(t, res.Applied)
		assert.Equal(t, int64(1300), lb.Entries[0].Score)
		assert.Equal(t, uint8(1), lb.Entries[0].GuessesUsed)
	})

	assert.Equal(t, uint32(1), lb.TotalPlayers, "resubmission is not a new player")
}

func TestUpdateScore_WeeklyAccumulates(t *testing.T) {
	lb := New("W2534", domain.GranularityWeekly, time.Now())
	e := entry(900, 45_000, 3)
	UpdateScore(lb, e)

	again := e
	again.Score = 400
	again.TimeMS = 80_000
	again.GuessesUsed = 5
	res := UpdateScore(lb, again)

	require.True(t, res.Applied)
	assert.Equal(t, int64(1300), lb.Entries[0].Score)
	assert.Equal(t, uint64(80_000), lb.Entries[0].TimeMS, "stats reflect the latest game")
}

func TestUpdateScore_AccumulateSaturates(t *testing.T) {
	lb := New("W2534", domain.GranularityWeekly, time.Now())
	e := entry(math.MaxInt64-100, 45_000, 3)
	UpdateScore(lb, e)

	again := e
	again.Score = 500
	res := UpdateScore(lb, again)

	require.True(t, res.Applied)
	assert.Equal(t, int64(math.MaxInt64), lb.Entries[0].Score)
}

func TestUpdateScore_CapacityTrim(t *testing.T) {
	lb := New("D123", domain.GranularityDaily, time.Now())
	require.Equal(t, domain.TopLeaderboardCapacity, lb.Capacity)

	for i := 0; i < lb.Capacity; i++ {
		UpdateScore(lb, entry(int64(1000+i), 30_000, 3))
	}

	t.Run("too weak to enter reports no rank", func(t *testing.T) {
		res := UpdateScore(lb, entry(10, 30_000, 3))
		assert.True(t, res.Applied)
		assert.Equal(t, 0, res.NewRank)
		assert.Len(t, lb.Entries, lb.Capacity)
	})

	t.Run("strong entry displaces the tail", func(t *testing.T) {
		weakest := lb.Entries[lb.Capacity-1].PlayerID
		res := UpdateScore(lb, entry(5000, 20_000, 1))
		assert.Equal(t, 1, res.NewRank)
		assert.Len(t, lb.Entries, lb.Capacity)
		assert.Equal(t, 0, lb.Rank(weakest))
	})
}

func TestUpdateScore_RankChange(t *testing.T) {
	lb := New("W2534", domain.GranularityWeekly, time.Now())
	rival := entry(1000, 30_000, 2)
	UpdateScore(lb, rival)

	me := entry(600, 50_000, 4)
	res := UpdateScore(lb, me)
	require.Equal(t, 2, res.NewRank)

	// Accumulating past the rival climbs one place: old 2 - new 1.
	again := me
	again.Score = 700
	res = UpdateScore(lb, again)
	assert.Equal(t, 1, res.NewRank)
	assert.Equal(t, 1, res.RankChange)
}

func TestUpdateScore_FinalizedBoardIgnoresWrites(t *testing.T) {
	lb := New("D123", domain.GranularityDaily, time.Now())
	UpdateScore(lb, entry(900, 45_000, 3))
	lb.Finalized = true

	before := lb.Entries[0]
	res := UpdateScore(lb, entry(9999, 10_000, 1))
	assert.False(t, res.Applied)
	assert.Len(t, lb.Entries, 1)
	assert.Equal(t, before, lb.Entries[0])
}

func TestUpdateScore_TrimmedReturnerCountsAgain(t *testing.T) {
	lb := New("D123", domain.GranularityDaily, time.Now())

	returner := entry(1, 90_000, 7)
	UpdateScore(lb, returner)
	for i := 0; i < domain.TopLeaderboardCapacity; i++ {
		UpdateScore(lb, entry(int64(1000+i*100), 30_000, 3))
	}
	require.Equal(t, 0, lb.Rank(returner.PlayerID), "lowest score trimmed off the full board")

	returner.Score = 5000
	res := UpdateScore(lb, returner)
	require.True(t, res.Applied)
	assert.Equal(t, 1, res.NewRank)
	assert.Equal(t, uint32(domain.TopLeaderboardCapacity+2), lb.TotalPlayers,
		"TotalPlayers counts entries, not distinct players")
}

func TestThresholdToEnter(t *testing.T) {
	lb := New("D123", domain.GranularityDaily, time.Now())
	assert.Equal(t, int64(0), ThresholdToEnter(lb), "open board admits any score")

	for i := 0; i < domain.TopLeaderboardCapacity; i++ {
		UpdateScore(lb, entry(int64(1000+i*100), 30_000, 3))
	}
	assert.Equal(t, int64(1000), ThresholdToEnter(lb), "full board requires beating the last ranked score")
}

func TestWeeklyCapacity(t *testing.T) {
	lb := New("W2534", domain.GranularityWeekly, time.Now())
	for i := 0; i < domain.BulkLeaderboardCapacity+20; i++ {
		UpdateScore(lb, entry(int64(i), 30_000, 3))
	}
	assert.Len(t, lb.Entries, domain.BulkLeaderboardCapacity)
	assert.Equal(t, uint32(domain.BulkLeaderboardCapacity+20), lb.TotalPlayers,
		fmt.Sprintf("all %d entrants counted even when trimmed", domain.BulkLeaderboardCapacity+20))
}
