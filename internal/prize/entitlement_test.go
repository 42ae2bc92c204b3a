package prize

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordrush/platform/internal/domain"
)

func finalizedPeriod(winners ...uuid.UUID) *domain.PeriodState {
	return &domain.PeriodState{
		Granularity:         domain.GranularityDaily,
		PeriodID:            "D123",
		Finalized:           true,
		TotalParticipants:   uint32(len(winners)),
		VaultBalanceAtClose: 10_000,
		Winners:             winners,
		FinalizedAt:         time.Now(),
	}
}

func TestNewEntitlement(t *testing.T) {
	winner := uuid.New()
	period := finalizedPeriod(winner, uuid.New())

	t.Run("grants a claimable right", func(t *testing.T) {
		e, err := NewEntitlement(period, winner, 1, 5000, time.Now())
		require.NoError(t, err)
		assert.Equal(t, winner, e.PlayerID)
		assert.Equal(t, "D123", e.PeriodID)
		assert.Equal(t, uint8(1), e.Rank)
		assert.Equal(t, int64(5000), e.Amount)
		assert.False(t, e.Claimed)
	})

	t.Run("rejects an unfinalized period", func(t *testing.T) {
		open := finalizedPeriod(winner)
		open.Finalized = false
		_, err := NewEntitlement(open, winner, 1, 5000, time.Now())
		require.Error(t, err)
		assert.Equal(t, "NOT_FINALIZED", err.(*domain.AppError).Code)
	})

	t.Run("rejects a player not in the winners list", func(t *testing.T) {
		_, err := NewEntitlement(period, uuid.New(), 1, 5000, time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects rank outside 1-3", func(t *testing.T) {
		for _, rank := range []uint8{0, 4, 255} {
			_, err := NewEntitlement(period, winner, rank, 5000, time.Now())
			assert.Error(t, err, "rank %d", rank)
		}
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		_, err := NewEntitlement(period, winner, 1, 0, time.Now())
		assert.Error(t, err)
	})
}

func TestClaim(t *testing.T) {
	newEnt := func() *domain.WinnerEntitlement {
		return &domain.WinnerEntitlement{
			PlayerID:    uuid.New(),
			Granularity: domain.GranularityDaily,
			PeriodID:    "D123",
			Rank:        1,
			Amount:      5000,
			CreatedAt:   time.Now(),
		}
	}

	t.Run("claims once", func(t *testing.T) {
		e := newEnt()
		require.NoError(t, Claim(e, domain.VaultDaily, 10_000, time.Now()))
		assert.True(t, e.Claimed)
		assert.NotNil(t, e.ClaimedAt)
	})

	t.Run("second claim always fails", func(t *testing.T) {
		e := newEnt()
		require.NoError(t, Claim(e, domain.VaultDaily, 10_000, time.Now()))
		for i := 0; i < 3; i++ {
			err := Claim(e, domain.VaultDaily, 10_000, time.Now())
			require.Error(t, err)
			assert.Equal(t, "ALREADY_CLAIMED", err.(*domain.AppError).Code)
		}
	})

	t.Run("insufficient vault balance leaves it unclaimed", func(t *testing.T) {
		e := newEnt()
		err := Claim(e, domain.VaultDaily, 4999, time.Now())
		require.Error(t, err)
		assert.Equal(t, "INSUFFICIENT_BALANCE", err.(*domain.AppError).Code)
		assert.False(t, e.Claimed)
	})
}
