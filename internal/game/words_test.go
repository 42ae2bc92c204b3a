package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordrush/platform/internal/domain"
)

func TestWordList_Shape(t *testing.T) {
	seen := map[string]bool{}
	for _, w := range Words {
		assert.Len(t, w, domain.WordLength, "word %q", w)
		assert.False(t, seen[w], "duplicate word %q", w)
		seen[w] = true
	}
}

func TestWordByIndex(t *testing.T) {
	w, err := WordByIndex(0)
	require.NoError(t, err)
	assert.Equal(t, Words[0], w)

	_, err = WordByIndex(uint32(len(Words)))
	assert.Error(t, err)
}

func TestIsValidWord(t *testing.T) {
	assert.True(t, IsValidWord("bridge"))
	assert.True(t, IsValidWord("BRIDGE"))
	assert.False(t, IsValidWord("ZZZZZZ"))
}

func TestCommitWord(t *testing.T) {
	h1 := CommitWord("BRIDGE")
	h2 := CommitWord("BRIDGE")
	h3 := CommitWord("CASTLE")
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 32)
}

func TestDemoSelector_Deterministic(t *testing.T) {
	sel := NewDemoSelector()
	player := uuid.New()

	a, err := sel.Select(player, "D123", 0)
	require.NoError(t, err)
	b, err := sel.Select(player, "D123", 0)
	require.NoError(t, err)
	assert.Equal(t, a, b, "same inputs select the same word")

	c, err := sel.Select(player, "D124", 0)
	require.NoError(t, err)
	assert.Less(t, int(c.WordIndex), len(Words))

	word, err := WordByIndex(a.WordIndex)
	require.NoError(t, err)
	assert.Equal(t, CommitWord(word), a.WordHash)
}

func TestSecureSelector_InRangeAndCommitted(t *testing.T) {
	sel := NewSecureSelector()
	for i := 0; i < 50; i++ {
		s, err := sel.Select(uuid.New(), "D123", 0)
		require.NoError(t, err)
		require.Less(t, int(s.WordIndex), len(Words))
		word, err := WordByIndex(s.WordIndex)
		require.NoError(t, err)
		assert.Equal(t, CommitWord(word), s.WordHash)
	}
}
