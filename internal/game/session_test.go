package game

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordrush/platform/internal/domain"
)

func newTestSession(t *testing.T, target string) *domain.GameSession {
	t.Helper()
	s, err := NewSession(uuid.New(), "D123", CommitWord(target), 0, time.Now().Add(-45*time.Second))
	require.NoError(t, err)
	return s
}

func TestApplyGuess_SolveCompletesSession(t *testing.T) {
	s := newTestSession(t, "BRIDGE")

	out, err := ApplyGuess(s, "BRIDGE", "bridge", time.Now())
	require.NoError(t, err)

	assert.True(t, out.Solved)
	assert.True(t, out.Completed)
	assert.Equal(t, uint8(1), out.GuessNumber)

	assert.True(t, s.Completed)
	assert.True(t, s.IsSolved)
	assert.Equal(t, "BRIDGE", s.TargetWord, "target revealed on completion")
	// 1 guess + under 60s elapsed: 1000 base + 300 bonus.
	assert.Equal(t, uint32(1300), s.Score)
}

func TestApplyGuess_WrongGuessKeepsPlaying(t *testing.T) {
	s := newTestSession(t, "BRIDGE")

	out, err := ApplyGuess(s, "BRIDGE", "CASTLE", time.Now())
	require.NoError(t, err)

	assert.False(t, out.Solved)
	assert.False(t, out.Completed)
	assert.False(t, s.Completed)
	assert.Empty(t, s.TargetWord, "target stays hidden mid-game")
	require.NotNil(t, s.Guesses[0])
	assert.Equal(t, "CASTLE", s.Guesses[0].Guess)
}

func TestApplyGuess_SeventhGuessAutoCompletes(t *testing.T) {
	s := newTestSession(t, "BRIDGE")

	for i := 0; i < domain.MaxGuesses-1; i++ {
		_, err := ApplyGuess(s, "BRIDGE", "CASTLE", time.Now())
		require.NoError(t, err)
	}
	out, err := ApplyGuess(s, "BRIDGE", "CASTLE", time.Now())
	require.NoError(t, err)

	assert.True(t, out.Completed)
	assert.False(t, out.Solved)
	assert.True(t, s.Completed)
	assert.Equal(t, uint32(0), s.Score, "unsolved game scores zero")
	assert.Equal(t, "BRIDGE", s.TargetWord)
}

func TestApplyGuess_RejectedAfterCompletion(t *testing.T) {
	s := newTestSession(t, "BRIDGE")
	_, err := ApplyGuess(s, "BRIDGE", "BRIDGE", time.Now())
	require.NoError(t, err)

	for _, guess := range []string{"BRIDGE", "CASTLE", "??????"} {
		_, err := ApplyGuess(s, "BRIDGE", guess, time.Now())
		require.Error(t, err, "guess %q accepted after completion", guess)
		appErr, ok := err.(*domain.AppError)
		require.True(t, ok)
		assert.Equal(t, "SESSION_COMPLETED", appErr.Code)
	}
}

func TestApplyGuess_InvalidLength(t *testing.T) {
	s := newTestSession(t, "BRIDGE")
	_, err := ApplyGuess(s, "BRIDGE", "CAT", time.Now())
	require.Error(t, err)
	assert.Equal(t, uint8(0), s.GuessesUsed, "rejected guess leaves no state change")
}

func TestComplete_Explicit(t *testing.T) {
	s := newTestSession(t, "BRIDGE")
	_, err := ApplyGuess(s, "BRIDGE", "CASTLE", time.Now())
	require.NoError(t, err)

	require.NoError(t, Complete(s, "BRIDGE", time.Now()))
	assert.True(t, s.Completed)
	assert.Equal(t, uint32(0), s.Score)

	assert.Error(t, Complete(s, "BRIDGE", time.Now()), "completion is terminal")
}

func TestComplete_ClockSkewClampedToZero(t *testing.T) {
	s := newTestSession(t, "BRIDGE")
	s.StartedAt = time.Now().Add(time.Hour) // relocated copy with a future start
	s.IsSolved = true
	s.GuessesUsed = 2

	require.NoError(t, Complete(s, "BRIDGE", time.Now()))
	assert.Equal(t, uint64(0), s.TimeMS)
	assert.Equal(t, uint32(800+500), s.Score)
}

func TestReset(t *testing.T) {
	prof := &domain.PlayerProfile{LastPaidPeriod: "D124"}

	t.Run("clears gameplay state", func(t *testing.T) {
		s := newTestSession(t, "BRIDGE")
		_, err := ApplyGuess(s, "BRIDGE", "BRIDGE", time.Now())
		require.NoError(t, err)
		s.RecordKeystroke(domain.Keystroke{Key: "B"})

		hash := CommitWord("CASTLE")
		require.NoError(t, Reset(s, prof, "D124", hash, 2, time.Now()))

		assert.Equal(t, uint8(0), s.GuessesUsed)
		assert.False(t, s.Completed)
		assert.False(t, s.IsSolved)
		assert.Equal(t, uint32(0), s.Score)
		assert.Empty(t, s.TargetWord)
		assert.Nil(t, s.Guesses[0])
		assert.Empty(t, s.Keystrokes)
		assert.Equal(t, "D124", s.PeriodID)
		assert.Equal(t, hash, s.TargetWordHash)
		assert.Equal(t, fmt.Sprintf("rush-%s-D124", s.PlayerID), s.SessionID)
	})

	t.Run("requires payment for the target period", func(t *testing.T) {
		s := newTestSession(t, "BRIDGE")
		err := Reset(s, &domain.PlayerProfile{LastPaidPeriod: "D123"}, "D124", nil, 0, time.Now())
		require.Error(t, err)
		assert.Equal(t, "PERIOD_NOT_PAID", err.(*domain.AppError).Code)
	})

	t.Run("one payment cannot reset twice", func(t *testing.T) {
		s := newTestSession(t, "BRIDGE") // session already on D123
		err := Reset(s, &domain.PlayerProfile{LastPaidPeriod: "D123"}, "D123", nil, 0, time.Now())
		require.Error(t, err)
		assert.Equal(t, "ALREADY_PLAYED_PERIOD", err.(*domain.AppError).Code)
	})
}
