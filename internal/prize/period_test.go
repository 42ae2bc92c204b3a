package prize

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordrush/platform/internal/domain"
	"github.com/wordrush/platform/internal/leaderboard"
)

func boardWithEntries(t *testing.T, n int) *domain.Leaderboard {
	t.Helper()
	lb := leaderboard.New("D123", domain.GranularityDaily, time.Now())
	for i := 0; i < n; i++ {
		res := leaderboard.UpdateScore(lb, domain.LeaderEntry{
			PlayerID:    uuid.New(),
			Score:       int64(1000 - i*100),
			TimeMS:      30_000,
			GuessesUsed: 3,
			Timestamp:   time.Now(),
		})
		require.True(t, res.Applied)
	}
	return lb
}

func TestFinalizeLeaderboard(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		lb := boardWithEntries(t, 2)
		require.NoError(t, FinalizeLeaderboard(lb, "D123", time.Now()))
		assert.True(t, lb.Finalized)
		assert.NotNil(t, lb.FinalizedAt)
	})

	t.Run("finalization is one-way", func(t *testing.T) {
		lb := boardWithEntries(t, 2)
		require.NoError(t, FinalizeLeaderboard(lb, "D123", time.Now()))
		err := FinalizeLeaderboard(lb, "D123", time.Now())
		require.Error(t, err)
		assert.Equal(t, "ALREADY_FINALIZED", err.(*domain.AppError).Code)
	})

	t.Run("period id must match", func(t *testing.T) {
		lb := boardWithEntries(t, 2)
		assert.Error(t, FinalizeLeaderboard(lb, "D124", time.Now()))
		assert.False(t, lb.Finalized)
	})

	t.Run("empty board cannot close", func(t *testing.T) {
		lb := leaderboard.New("D123", domain.GranularityDaily, time.Now())
		assert.Error(t, FinalizeLeaderboard(lb, "D123", time.Now()))
	})
}

func TestWinners(t *testing.T) {
	t.Run("caps at three", func(t *testing.T) {
		lb := boardWithEntries(t, 5)
		winners := Winners(lb)
		require.Len(t, winners, 3)
		assert.Equal(t, lb.Entries[0].PlayerID, winners[0])
		assert.Equal(t, lb.Entries[2].PlayerID, winners[2])
	})

	t.Run("fewer players, fewer winners", func(t *testing.T) {
		assert.Len(t, Winners(boardWithEntries(t, 1)), 1)
	})
}

func TestFinalizePeriod(t *testing.T) {
	t.Run("snapshots winners and splits the pool", func(t *testing.T) {
		lb := boardWithEntries(t, 5)
		require.NoError(t, FinalizeLeaderboard(lb, "D123", time.Now()))

		state, amounts, err := FinalizePeriod(lb, 10_001, defaultWeights, time.Now())
		require.NoError(t, err)

		assert.Equal(t, "D123", state.PeriodID)
		assert.Equal(t, domain.GranularityDaily, state.Granularity)
		assert.True(t, state.Finalized)
		assert.Equal(t, uint32(5), state.TotalParticipants)
		assert.Equal(t, int64(10_001), state.VaultBalanceAtClose)
		assert.Len(t, state.Winners, 3)
		assert.Equal(t, []int64{5001, 3000, 2000}, amounts)
	})

	t.Run("requires a finalized leaderboard", func(t *testing.T) {
		lb := boardWithEntries(t, 2)
		_, _, err := FinalizePeriod(lb, 10_000, defaultWeights, time.Now())
		require.Error(t, err)
		assert.Equal(t, "NOT_FINALIZED", err.(*domain.AppError).Code)
	})
}
