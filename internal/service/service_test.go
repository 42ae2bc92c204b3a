package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordrush/platform/internal/game"
)

func TestSessionView_HidesTargetWordUntilCompleted(t *testing.T) {
	start := time.Now()
	s, err := game.NewSession(uuid.New(), "D123", game.CommitWord("TEMPLE"), 19, start)
	require.NoError(t, err)

	v := sessionView(s)
	assert.Empty(t, v.TargetWord, "in-flight session must not leak the hidden word")
	assert.Empty(t, v.Guesses)

	_, err = game.ApplyGuess(s, "TEMPLE", "temple", start.Add(20*time.Second))
	require.NoError(t, err)

	v = sessionView(s)
	assert.True(t, v.Completed)
	assert.Equal(t, "TEMPLE", v.TargetWord)
}

func TestSessionView_CompactsGuesses(t *testing.T) {
	start := time.Now()
	s, err := game.NewSession(uuid.New(), "D123", game.CommitWord("TEMPLE"), 19, start)
	require.NoError(t, err)

	_, err = game.ApplyGuess(s, "TEMPLE", "SILVER", start.Add(5*time.Second))
	require.NoError(t, err)
	_, err = game.ApplyGuess(s, "TEMPLE", "PUZZLE", start.Add(10*time.Second))
	require.NoError(t, err)

	v := sessionView(s)
	assert.Len(t, v.Guesses, 2, "nil guess slots are dropped from the view")
	assert.Equal(t, "SILVER", v.Guesses[0].Guess)
	assert.Equal(t, "PUZZLE", v.Guesses[1].Guess)
	assert.Empty(t, v.TargetWord)
}
