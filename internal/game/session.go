package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wordrush/platform/internal/domain"
)

// NewSession creates a fresh session with the word committed by hash.
// The target word itself stays out of the record until completion.
func NewSession(playerID uuid.UUID, periodID string, wordHash []byte, wordIndex uint32, startedAt time.Time) (*domain.GameSession, error) {
	if err := domain.ValidatePeriodID(periodID); err != nil {
		return nil, err
	}
	sessionID := fmt.Sprintf("rush-%s-%s", playerID, periodID)
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	return &domain.GameSession{
		PlayerID:       playerID,
		SessionID:      sessionID,
		TargetWordHash: wordHash,
		WordIndex:      wordIndex,
		PeriodID:       periodID,
		StartedAt:      startedAt,
	}, nil
}

// GuessOutcome reports what one accepted guess did to the session.
type GuessOutcome struct {
	Marks       [domain.WordLength]domain.LetterMark `json:"marks"`
	GuessNumber uint8                                `json:"guess_number"`
	Solved      bool                                 `json:"solved"`
	Completed   bool                                 `json:"completed"`
	Score       uint32                               `json:"score"`
}

// ApplyGuess evaluates and stores one guess. A guess that solves the
// word or spends the last attempt auto-completes the session: elapsed
// time comes from the stored start timestamp, the final score is
// computed and the target word is revealed. Completion is terminal.
func ApplyGuess(s *domain.GameSession, target, rawGuess string, now time.Time) (*GuessOutcome, error) {
	if s.Completed {
		return nil, domain.ErrSessionCompleted()
	}
	if s.GuessesUsed >= domain.MaxGuesses {
		return nil, domain.ErrOutOfGuesses()
	}

	guess := NormalizeGuess(rawGuess)
	if err := domain.ValidateGuess(guess); err != nil {
		return nil, err
	}

	marks, err := EvaluateGuess(guess, target)
	if err != nil {
		return nil, err
	}

	s.Guesses[s.GuessesUsed] = &domain.GuessRecord{Guess: guess, Marks: marks}
	s.GuessesUsed++

	if AllCorrect(marks) {
		s.IsSolved = true
	}

	outcome := &GuessOutcome{
		Marks:       marks,
		GuessNumber: s.GuessesUsed,
		Solved:      s.IsSolved,
	}

	if s.IsSolved || s.GuessesUsed >= domain.MaxGuesses {
		complete(s, target, now)
		outcome.Completed = true
		outcome.Score = s.Score
	}

	return outcome, nil
}

// Complete finalizes a session explicitly. Used for sessions the player
// abandons mid-game and later closes out; an unsolved session scores 0.
func Complete(s *domain.GameSession, target string, now time.Time) error {
	if s.Completed {
		return domain.ErrSessionCompleted()
	}
	complete(s, target, now)
	return nil
}

func complete(s *domain.GameSession, target string, now time.Time) {
	elapsed := now.Sub(s.StartedAt)
	if elapsed < 0 {
		// Clock skew across a delegation boundary; never store a
		// negative duration.
		elapsed = 0
	}
	s.TimeMS = uint64(elapsed.Milliseconds())
	s.Score = FinalScore(s.IsSolved, s.GuessesUsed, s.TimeMS)
	s.Completed = true
	s.TargetWord = target
}

// Reset clears gameplay state so the session record can host a new
// period's game. The reset is replay-safe: the profile must show an
// entry fee paid for exactly the target period, and the session must
// not already belong to that period, so one payment cannot fund two
// resets.
func Reset(s *domain.GameSession, profile *domain.PlayerProfile, targetPeriod string, wordHash []byte, wordIndex uint32, now time.Time) error {
	if err := domain.ValidatePeriodID(targetPeriod); err != nil {
		return err
	}
	if profile.LastPaidPeriod != targetPeriod {
		return domain.ErrPeriodNotPaid(targetPeriod)
	}
	if s.PeriodID == targetPeriod {
		return domain.ErrAlreadyPlayedPeriod(targetPeriod)
	}

	s.Guesses = [domain.MaxGuesses]*domain.GuessRecord{}
	s.GuessesUsed = 0
	s.IsSolved = false
	s.TimeMS = 0
	s.Score = 0
	s.Completed = false
	s.TargetWord = ""
	s.Keystrokes = nil

	s.TargetWordHash = wordHash
	s.WordIndex = wordIndex
	s.SessionID = fmt.Sprintf("rush-%s-%s", s.PlayerID, targetPeriod)
	s.PeriodID = targetPeriod
	s.StartedAt = now
	return nil
}
