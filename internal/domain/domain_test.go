package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateUsername("player_one"))
		assert.NoError(t, ValidateUsername("A"))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Error(t, ValidateUsername(""))
	})

	t.Run("too long", func(t *testing.T) {
		long := make([]byte, MaxUsernameLength+1)
		for i := range long {
			long[i] = 'a'
		}
		assert.Error(t, ValidateUsername(string(long)))
	})

	t.Run("bad characters", func(t *testing.T) {
		assert.Error(t, ValidateUsername("no spaces"))
		assert.Error(t, ValidateUsername("émile"))
	})
}

func TestValidatePeriodID(t *testing.T) {
	assert.NoError(t, ValidatePeriodID("D123"))
	assert.Error(t, ValidatePeriodID(""))
	assert.Error(t, ValidatePeriodID("123456789012345678901")) // 21 chars
}

func TestValidateRank(t *testing.T) {
	assert.NoError(t, ValidateRank(1))
	assert.NoError(t, ValidateRank(3))
	assert.Error(t, ValidateRank(0))
	assert.Error(t, ValidateRank(4))
}

func TestValidateGuess(t *testing.T) {
	assert.NoError(t, ValidateGuess("BRIDGE"))
	assert.Error(t, ValidateGuess("CAT"))
	assert.Error(t, ValidateGuess("bridge")) // lowercase rejected, caller uppercases
	assert.Error(t, ValidateGuess("BRIDG3"))
}

func TestGameConfigValidate(t *testing.T) {
	valid := GameConfig{
		TicketPrice:  1_000_000,
		PoolSplits:   PoolSplits{Daily: 4000, Weekly: 2500, Monthly: 1500, Platform: 1500, LuckyDraw: 500},
		WinnerSplits: [TopWinnersCount]uint16{5000, 3000, 2000},
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("pool splits off by one", func(t *testing.T) {
		cfg := valid
		cfg.PoolSplits.Daily = 4001
		assert.Error(t, cfg.Validate())
	})

	t.Run("winner splits not 100 percent", func(t *testing.T) {
		cfg := valid
		cfg.WinnerSplits = [TopWinnersCount]uint16{5000, 3000, 1000}
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero ticket price", func(t *testing.T) {
		cfg := valid
		cfg.TicketPrice = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestUnlockAchievement(t *testing.T) {
	now := time.Now()

	t.Run("appends new record", func(t *testing.T) {
		p := &PlayerProfile{}
		p.UnlockAchievement(AchievementFirstGame, now)
		require.Len(t, p.Achievements, 1)
		assert.True(t, p.HasAchievement(AchievementFirstGame))
	})

	t.Run("refreshes existing record", func(t *testing.T) {
		p := &PlayerProfile{}
		p.UnlockAchievement(AchievementFirstWin, now)
		later := now.Add(time.Hour)
		p.UnlockAchievement(AchievementFirstWin, later)
		require.Len(t, p.Achievements, 1)
		assert.Equal(t, later, *p.Achievements[0].UnlockedAt)
	})

	t.Run("overflow silently dropped", func(t *testing.T) {
		p := &PlayerProfile{}
		for i := 0; i < MaxAchievements; i++ {
			p.UnlockAchievement(uint8(100+i), now)
		}
		p.UnlockAchievement(99, now)
		assert.Len(t, p.Achievements, MaxAchievements)
		assert.False(t, p.HasAchievement(99))
	})
}

func TestRecordKeystroke(t *testing.T) {
	s := &GameSession{}
	for i := 0; i < MaxKeystrokes+10; i++ {
		s.RecordKeystroke(Keystroke{Key: "A", TimestampMS: uint64(i)})
	}
	assert.Len(t, s.Keystrokes, MaxKeystrokes)
}

func TestGranularityPolicy(t *testing.T) {
	assert.Equal(t, PolicyReplaceIfBetter, GranularityDaily.Policy())
	assert.Equal(t, PolicyAccumulate, GranularityWeekly.Policy())
	assert.Equal(t, PolicyAccumulate, GranularityMonthly.Policy())

	assert.Equal(t, TopLeaderboardCapacity, GranularityDaily.Capacity())
	assert.Equal(t, BulkLeaderboardCapacity, GranularityMonthly.Capacity())

	assert.True(t, GranularityDaily.Valid())
	assert.False(t, Granularity("hourly").Valid())
}

func TestLeaderboardRank(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	l := &Leaderboard{Entries: []LeaderEntry{{PlayerID: a}, {PlayerID: b}}}
	assert.Equal(t, 1, l.Rank(a))
	assert.Equal(t, 2, l.Rank(b))
	assert.Equal(t, 0, l.Rank(uuid.New()))
}

func TestPrizeVaultFor(t *testing.T) {
	assert.Equal(t, VaultDaily, PrizeVaultFor(GranularityDaily))
	assert.Equal(t, VaultWeekly, PrizeVaultFor(GranularityWeekly))
	assert.Equal(t, VaultMonthly, PrizeVaultFor(GranularityMonthly))
}
