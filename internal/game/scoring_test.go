package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinalScore_Solved(t *testing.T) {
	// Perfect game: 1 guess in under 30 seconds.
	assert.Equal(t, uint32(1500), FinalScore(true, 1, 25_000))

	// Good game: 3 guesses in 45 seconds.
	assert.Equal(t, uint32(900), FinalScore(true, 3, 45_000))

	// Slow game: 7 guesses in 10 minutes.
	assert.Equal(t, uint32(100), FinalScore(true, 7, 600_000))
}

func TestFinalScore_Unsolved(t *testing.T) {
	assert.Equal(t, uint32(0), FinalScore(false, 7, 60_000))
	assert.Equal(t, uint32(0), FinalScore(false, 3, 30_000))
	assert.Equal(t, uint32(0), FinalScore(false, 1, 1_000))
}

func TestBaseScore_Table(t *testing.T) {
	expect := map[uint8]uint32{1: 1000, 2: 800, 3: 600, 4: 400, 5: 300, 6: 200, 7: 100}
	for guesses, want := range expect {
		assert.Equal(t, want, baseScore(guesses), "guesses=%d", guesses)
	}
	assert.Equal(t, uint32(0), baseScore(0))
	assert.Equal(t, uint32(0), baseScore(8))
}

func TestTimeBonus_Tiers(t *testing.T) {
	cases := []struct {
		timeMS uint64
		want   uint32
	}{
		{0, 500},
		{29_999, 500},
		{30_000, 300},
		{59_999, 300},
		{60_000, 150},
		{119_999, 150},
		{120_000, 50},
		{299_999, 50},
		{300_000, 0},
		{3_600_000, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, timeBonus(c.timeMS), "time=%dms", c.timeMS)
	}
}
