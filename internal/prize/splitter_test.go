package prize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordrush/platform/internal/domain"
)

var defaultWeights = [domain.TopWinnersCount]uint16{5000, 3000, 2000}

func TestCalculateWinnerSplits_ExactSum(t *testing.T) {
	balances := []int64{0, 1, 7, 99, 100, 10_000, 10_001, 333_333, 1_000_000_007, math.MaxInt64}
	weightSets := [][domain.TopWinnersCount]uint16{
		{5000, 3000, 2000},
		{6000, 2500, 1500},
		{10000, 0, 0},
		{3334, 3333, 3333},
	}
	for _, v := range balances {
		for _, w := range weightSets {
			for winners := 1; winners <= 3; winners++ {
				amounts, err := CalculateWinnerSplits(v, w, winners)
				require.NoError(t, err)
				require.Len(t, amounts, winners)

				var sum int64
				for _, a := range amounts {
					assert.GreaterOrEqual(t, a, int64(0))
					sum += a
				}
				assert.Equal(t, v, sum, "balance=%d weights=%v winners=%d", v, w, winners)
			}
		}
	}
}

func TestCalculateWinnerSplits_RemainderToFirstPlace(t *testing.T) {
	// 10001 * 30% = 3000.3 and 10001 * 20% = 2000.2; both truncate and
	// the lost units land on rank 1.
	amounts, err := CalculateWinnerSplits(10_001, defaultWeights, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{5001, 3000, 2000}, amounts)
}

func TestCalculateWinnerSplits_FewerWinners(t *testing.T) {
	t.Run("sole winner takes everything", func(t *testing.T) {
		amounts, err := CalculateWinnerSplits(10_000, defaultWeights, 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{10_000}, amounts)
	})

	t.Run("missing third share folds into first", func(t *testing.T) {
		amounts, err := CalculateWinnerSplits(10_000, defaultWeights, 2)
		require.NoError(t, err)
		assert.Equal(t, []int64{7000, 3000}, amounts)
	})
}

func TestCalculateWinnerSplits_Rejections(t *testing.T) {
	_, err := CalculateWinnerSplits(-1, defaultWeights, 3)
	assert.Error(t, err, "negative balance")

	_, err = CalculateWinnerSplits(100, defaultWeights, 0)
	assert.Error(t, err, "zero winners")

	_, err = CalculateWinnerSplits(100, [3]uint16{5000, 3000, 1000}, 3)
	assert.Error(t, err, "weights short of 10000")
}

func TestValidateWinnerSplits(t *testing.T) {
	assert.NoError(t, ValidateWinnerSplits(100, []int64{50, 30, 20}))
	assert.Error(t, ValidateWinnerSplits(100, []int64{50, 30, 19}), "value destroyed")
	assert.Error(t, ValidateWinnerSplits(100, []int64{50, 30, 21}), "value created")
	assert.Error(t, ValidateWinnerSplits(0, []int64{1, -1}), "negative amount")
}

func TestSplitTicket(t *testing.T) {
	splits := domain.PoolSplits{Daily: 4000, Weekly: 2500, Monthly: 1500, Platform: 1500, LuckyDraw: 500}

	t.Run("even split", func(t *testing.T) {
		d, err := SplitTicket(10_000, splits)
		require.NoError(t, err)
		assert.Equal(t, TicketDistribution{Daily: 4000, Weekly: 2500, Monthly: 1500, Platform: 1500, LuckyDraw: 500}, d)
	})

	t.Run("truncation lands in the daily vault", func(t *testing.T) {
		d, err := SplitTicket(999, splits)
		require.NoError(t, err)
		sum := d.Daily + d.Weekly + d.Monthly + d.Platform + d.LuckyDraw
		assert.Equal(t, int64(999), sum)
		assert.Equal(t, int64(249), d.Weekly)
		assert.Equal(t, int64(149), d.Monthly)
	})

	t.Run("rejects invalid inputs", func(t *testing.T) {
		_, err := SplitTicket(0, splits)
		assert.Error(t, err)
		bad := splits
		bad.LuckyDraw = 600
		_, err = SplitTicket(100, bad)
		assert.Error(t, err)
	})
}
