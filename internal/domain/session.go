package domain

import (
	"time"

	"github.com/google/uuid"
)

// LetterMark is the per-position verdict of a guess evaluation.
type LetterMark string

const (
	MarkCorrect LetterMark = "correct"
	MarkPresent LetterMark = "present"
	MarkAbsent  LetterMark = "absent"
)

// GuessRecord stores one submitted guess and its per-letter verdicts.
type GuessRecord struct {
	Guess string                 `json:"guess"`
	Marks [WordLength]LetterMark `json:"marks"`
}

// Keystroke is a single input event recorded for analytics only.
type Keystroke struct {
	Key         string `json:"key"`
	TimestampMS uint64 `json:"timestamp_ms"`
	GuessIndex  uint8  `json:"guess_index"`
}

// GameSession is one player's game attempt for one period. Created on
// ticket purchase, mutated through at most MaxGuesses guesses, then
// completed. The record is reusable: a reset clears gameplay state for
// a newly paid period.
//
// TargetWord stays empty until Completed is true; only the hash of the
// hidden word is stored during play.
type GameSession struct {
	PlayerID  uuid.UUID `json:"player_id"`
	SessionID string    `json:"session_id"`

	TargetWordHash []byte `json:"target_word_hash"`
	WordIndex      uint32 `json:"word_index"`
	TargetWord     string `json:"target_word"`

	Guesses     [MaxGuesses]*GuessRecord `json:"guesses"`
	GuessesUsed uint8                    `json:"guesses_used"`
	IsSolved    bool                     `json:"is_solved"`
	TimeMS      uint64                   `json:"time_ms"`
	Score       uint32                   `json:"score"`
	Completed   bool                     `json:"completed"`

	PeriodID  string    `json:"period_id"`
	StartedAt time.Time `json:"started_at"`

	Keystrokes []Keystroke `json:"keystrokes,omitempty"`
}

// RecordKeystroke appends an input event. Overflow beyond MaxKeystrokes
// is silently dropped; the log is best-effort analytics data.
func (s *GameSession) RecordKeystroke(k Keystroke) {
	if len(s.Keystrokes) >= MaxKeystrokes {
		return
	}
	s.Keystrokes = append(s.Keystrokes, k)
}
