// Package game holds the pure gameplay core: guess evaluation, score
// computation, the session state machine and word selection.
package game

import (
	"strings"

	"github.com/wordrush/platform/internal/domain"
)

// EvaluateGuess compares a guess to the target word and returns one
// verdict per position. Both strings must be uppercase and exactly
// domain.WordLength long.
//
// Two-pass evaluation keeps duplicate letters honest: pass one marks
// exact matches and consumes the matched target letter, pass two marks
// a Present only while unconsumed copies of the letter remain. A target
// letter is never counted twice.
func EvaluateGuess(guess, target string) ([domain.WordLength]domain.LetterMark, error) {
	var marks [domain.WordLength]domain.LetterMark
	if len(guess) != domain.WordLength || len(target) != domain.WordLength {
		return marks, domain.ErrInvalidGuessLength(len(guess))
	}

	remaining := []byte(target)

	for i := 0; i < domain.WordLength; i++ {
		if guess[i] == target[i] {
			marks[i] = domain.MarkCorrect
			remaining[i] = 0
		} else {
			marks[i] = domain.MarkAbsent
		}
	}

	for i := 0; i < domain.WordLength; i++ {
		if marks[i] == domain.MarkCorrect {
			continue
		}
		for j := 0; j < domain.WordLength; j++ {
			if remaining[j] != 0 && remaining[j] == guess[i] {
				marks[i] = domain.MarkPresent
				remaining[j] = 0
				break
			}
		}
	}

	return marks, nil
}

// AllCorrect reports whether every verdict is Correct.
func AllCorrect(marks [domain.WordLength]domain.LetterMark) bool {
	for _, m := range marks {
		if m != domain.MarkCorrect {
			return false
		}
	}
	return true
}

// NormalizeGuess uppercases and trims a raw guess.
func NormalizeGuess(guess string) string {
	return strings.ToUpper(strings.TrimSpace(guess))
}
