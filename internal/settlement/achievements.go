package settlement

import (
	"time"

	"github.com/wordrush/platform/internal/domain"
)

// achievementRule decides, from cumulative profile statistics, whether
// one badge is earned. Rules are stateless; they run against the
// profile after its stats have been updated for the game being
// settled.
type achievementRule struct {
	id      uint8
	satisfy func(p *domain.PlayerProfile, s *domain.GameSession) bool
}

var achievementRules = []achievementRule{
	{domain.AchievementFirstGame, func(p *domain.PlayerProfile, _ *domain.GameSession) bool {
		return p.GamesPlayed >= 1
	}},
	{domain.AchievementFirstWin, func(p *domain.PlayerProfile, _ *domain.GameSession) bool {
		return p.GamesWon >= 1
	}},
	{domain.AchievementLuckyGuess, func(p *domain.PlayerProfile, s *domain.GameSession) bool {
		return s.IsSolved && s.GuessesUsed <= 2
	}},
	{domain.AchievementStreak3, func(p *domain.PlayerProfile, _ *domain.GameSession) bool {
		return p.CurrentStreak >= 3
	}},
	{domain.AchievementStreak7, func(p *domain.PlayerProfile, _ *domain.GameSession) bool {
		return p.CurrentStreak >= 7
	}},
	{domain.AchievementPerfectionist, func(p *domain.PlayerProfile, _ *domain.GameSession) bool {
		// At least 10 wins taking 3 or fewer guesses, lifetime.
		fast := p.GuessDistribution[0] + p.GuessDistribution[1] + p.GuessDistribution[2]
		return fast >= 10
	}},
}

// EvaluateAchievements runs the rule table and records every newly
// satisfied badge on the profile. Already-unlocked ids are skipped;
// unlocks past the profile cap drop silently. Returns the ids unlocked
// by this settlement.
func EvaluateAchievements(profile *domain.PlayerProfile, session *domain.GameSession, now time.Time) []uint8 {
	var unlocked []uint8
	for _, rule := range achievementRules {
		if profile.HasAchievement(rule.id) {
			continue
		}
		if !rule.satisfy(profile, session) {
			continue
		}
		profile.UnlockAchievement(rule.id, now)
		// The unlock may have been dropped at the profile cap.
		if profile.HasAchievement(rule.id) {
			unlocked = append(unlocked, rule.id)
		}
	}
	return unlocked
}
