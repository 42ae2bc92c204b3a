package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordrush/platform/internal/domain"
)

func marksOf(t *testing.T, guess, target string) [domain.WordLength]domain.LetterMark {
	t.Helper()
	marks, err := EvaluateGuess(guess, target)
	require.NoError(t, err)
	return marks
}

func TestEvaluateGuess_AllCorrect(t *testing.T) {
	marks := marksOf(t, "BRIDGE", "BRIDGE")
	for _, m := range marks {
		assert.Equal(t, domain.MarkCorrect, m)
	}
	assert.True(t, AllCorrect(marks))
}

func TestEvaluateGuess_AllAbsent(t *testing.T) {
	marks := marksOf(t, "ABCDEF", "GHIJKL")
	for _, m := range marks {
		assert.Equal(t, domain.MarkAbsent, m)
	}
	assert.False(t, AllCorrect(marks))
}

func TestEvaluateGuess_Mixed(t *testing.T) {
	// K moved, ERNEL aligned.
	marks := marksOf(t, "EKRNEL", "KERNEL")
	expect := [domain.WordLength]domain.LetterMark{
		domain.MarkPresent, // E exists elsewhere
		domain.MarkPresent, // K exists elsewhere
		domain.MarkCorrect, // R
		domain.MarkCorrect, // N
		domain.MarkCorrect, // E
		domain.MarkCorrect, // L
	}
	assert.Equal(t, expect, marks)
}

func TestEvaluateGuess_DuplicateLetters(t *testing.T) {
	t.Run("repeated guess letter consumed once", func(t *testing.T) {
		// Target PUZZLE has one P. First P is correct, second P must
		// not also count.
		marks := marksOf(t, "PPZZLE", "PUZZLE")
		assert.Equal(t, domain.MarkCorrect, marks[0])
		assert.Equal(t, domain.MarkAbsent, marks[1])
		assert.Equal(t, domain.MarkCorrect, marks[2])
		assert.Equal(t, domain.MarkCorrect, marks[3])
		assert.Equal(t, domain.MarkCorrect, marks[4])
		assert.Equal(t, domain.MarkCorrect, marks[5])
	})

	t.Run("correct match consumes before present", func(t *testing.T) {
		// Target ENERGY: three E's? Two E's (pos 0, 2). Guess EEEEEE:
		// two Correct (positions 0 and 2), rest Absent.
		marks := marksOf(t, "EEEEEE", "ENERGY")
		correct, present := 0, 0
		for _, m := range marks {
			switch m {
			case domain.MarkCorrect:
				correct++
			case domain.MarkPresent:
				present++
			}
		}
		assert.Equal(t, 2, correct)
		assert.Equal(t, 0, present)
	})
}

// A letter never yields more Correct+Present marks than its count in
// the target, for a spread of guess/target pairs.
func TestEvaluateGuess_DuplicateSafety(t *testing.T) {
	pairs := [][2]string{
		{"ORANGE", "GARDEN"},
		{"GARDEN", "ORANGE"},
		{"LADDER", "HAMMER"},
		{"ENERGY", "TEMPLE"},
		{"AAAAAA", "ANCHOR"},
		{"ANCHOR", "AAAAAA"},
	}
	for _, p := range pairs {
		guess, target := p[0], p[1]
		t.Run(guess+"_vs_"+target, func(t *testing.T) {
			marks := marksOf(t, guess, target)
			for c := byte('A'); c <= 'Z'; c++ {
				inTarget := strings.Count(target, string(c))
				marked := 0
				for i := 0; i < domain.WordLength; i++ {
					if guess[i] == c && marks[i] != domain.MarkAbsent {
						marked++
					}
				}
				assert.LessOrEqual(t, marked, inTarget,
					"letter %c over-counted for %s vs %s", c, guess, target)
			}
		})
	}
}

func TestEvaluateGuess_LengthMismatch(t *testing.T) {
	_, err := EvaluateGuess("CAT", "BRIDGE")
	require.Error(t, err)
	appErr, ok := err.(*domain.AppError)
	require.True(t, ok)
	assert.Equal(t, "INVALID_GUESS_LENGTH", appErr.Code)
}

func TestNormalizeGuess(t *testing.T) {
	assert.Equal(t, "BRIDGE", NormalizeGuess("  bridge "))
}
