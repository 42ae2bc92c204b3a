// Package settlement applies a completed game to everything downstream
// of the session: the player's lifetime statistics, the three period
// leaderboards the outcome feeds, and the achievement rule table.
package settlement

import (
	"time"

	"github.com/wordrush/platform/internal/domain"
	"github.com/wordrush/platform/internal/leaderboard"
)

// Result reports what one settlement changed.
type Result struct {
	// Boards holds the per-granularity leaderboard outcome. A board the
	// caller did not supply, or one already finalized, is absent.
	Boards map[domain.Granularity]leaderboard.UpdateResult
	// Unlocked lists achievement ids earned by this game.
	Unlocked []uint8
}

// SettleGame folds a completed session into the player's profile and
// the supplied period leaderboards, then re-evaluates achievements.
// The caller runs it inside the transaction that persists all three
// record kinds, so a settlement either fully applies or not at all.
func SettleGame(
	profile *domain.PlayerProfile,
	session *domain.GameSession,
	boards map[domain.Granularity]*domain.Leaderboard,
	now time.Time,
) (*Result, error) {
	if !session.Completed {
		return nil, domain.ErrConflict("cannot settle an incomplete session")
	}

	applyStats(profile, session, now)

	res := &Result{Boards: make(map[domain.Granularity]leaderboard.UpdateResult)}
	entry := domain.LeaderEntry{
		PlayerID:    session.PlayerID,
		Score:       int64(session.Score),
		GuessesUsed: session.GuessesUsed,
		TimeMS:      session.TimeMS,
		Timestamp:   now,
		Username:    profile.Username,
	}
	for _, g := range domain.Granularities {
		lb, ok := boards[g]
		if !ok {
			continue
		}
		if out := leaderboard.UpdateScore(lb, entry); out.Applied {
			res.Boards[g] = out
		}
	}

	res.Unlocked = EvaluateAchievements(profile, session, now)
	return res, nil
}

// applyStats updates the lifetime counters for one finished game.
func applyStats(p *domain.PlayerProfile, s *domain.GameSession, now time.Time) {
	p.GamesPlayed++
	p.TotalScore += uint64(s.Score)

	if s.IsSolved {
		p.GamesWon++
		p.CurrentStreak++
		if p.CurrentStreak > p.MaxStreak {
			p.MaxStreak = p.CurrentStreak
		}
		if s.Score > p.BestScore {
			p.BestScore = s.Score
		}
		if s.GuessesUsed >= 1 && s.GuessesUsed <= domain.MaxGuesses {
			p.GuessDistribution[s.GuessesUsed-1]++
		}
	} else {
		p.CurrentStreak = 0
	}

	p.AvgGuesses = averageGuesses(p.GuessDistribution)
	p.LastPlayedPeriod = s.PeriodID
	p.HasPlayedThisPeriod = true
	p.LastPlayedAt = now
}

// averageGuesses derives the mean guesses-per-win from the histogram.
func averageGuesses(dist [domain.MaxGuesses]uint32) float32 {
	var wins, total uint64
	for i, n := range dist {
		wins += uint64(n)
		total += uint64(n) * uint64(i+1)
	}
	if wins == 0 {
		return 0
	}
	return float32(total) / float32(wins)
}
