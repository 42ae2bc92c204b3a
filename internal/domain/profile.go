package domain

import (
	"time"

	"github.com/google/uuid"
)

// Achievement is a single unlock record. Names and descriptions live in
// the client; the profile stores only the id and unlock time.
type Achievement struct {
	ID         uint8      `json:"id"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// Achievement ids evaluated by the settlement rule table.
const (
	AchievementFirstGame     uint8 = 1
	AchievementFirstWin      uint8 = 2
	AchievementLuckyGuess    uint8 = 3
	AchievementStreak3       uint8 = 4
	AchievementStreak7       uint8 = 5
	AchievementPerfectionist uint8 = 6
)

// PlayerProfile holds a player's lifetime statistics. One row per
// player, mutated only by the owner's actions and by settlement.
type PlayerProfile struct {
	PlayerID uuid.UUID `json:"player_id"`
	Username string    `json:"username"`

	GamesPlayed   uint32 `json:"games_played"`
	GamesWon      uint32 `json:"games_won"`
	CurrentStreak uint32 `json:"current_streak"`
	MaxStreak     uint32 `json:"max_streak"`
	TotalScore    uint64 `json:"total_score"`
	BestScore     uint32 `json:"best_score"`
	AvgGuesses    float32 `json:"avg_guesses"`

	// Wins bucketed by guesses used (index 0 = won in 1 guess).
	GuessDistribution [MaxGuesses]uint32 `json:"guess_distribution"`

	// Period replay tracking: the period last played, the period last
	// paid for, and whether the current period's game is spent.
	LastPlayedPeriod    string `json:"last_played_period"`
	LastPaidPeriod      string `json:"last_paid_period"`
	HasPlayedThisPeriod bool   `json:"has_played_this_period"`

	Achievements []Achievement `json:"achievements"`

	CreatedAt    time.Time `json:"created_at"`
	LastPlayedAt time.Time `json:"last_played_at"`
}

// HasAchievement reports whether the given achievement id is recorded
// with a non-empty unlock time.
func (p *PlayerProfile) HasAchievement(id uint8) bool {
	for _, a := range p.Achievements {
		if a.ID == id && a.UnlockedAt != nil {
			return true
		}
	}
	return false
}

// UnlockAchievement records an unlock. If the id already exists its
// unlock time is refreshed; otherwise a new record is appended unless
// the cap is reached, in which case the unlock is silently dropped.
func (p *PlayerProfile) UnlockAchievement(id uint8, at time.Time) {
	for i := range p.Achievements {
		if p.Achievements[i].ID == id {
			p.Achievements[i].UnlockedAt = &at
			return
		}
	}
	if len(p.Achievements) >= MaxAchievements {
		return
	}
	p.Achievements = append(p.Achievements, Achievement{ID: id, UnlockedAt: &at})
}
