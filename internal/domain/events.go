package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventProfileCreated       EventType = "rush.profile.created"
	EventGameStarted          EventType = "rush.game.started"
	EventGuessSubmitted       EventType = "rush.game.guess.submitted"
	EventGameCompleted        EventType = "rush.game.completed"
	EventSessionReset         EventType = "rush.game.session.reset"
	EventEntryPosted          EventType = "rush.vault.entry.posted"
	EventLeaderboardUpdated   EventType = "rush.leaderboard.updated"
	EventLeaderboardFinalized EventType = "rush.leaderboard.finalized"
	EventPeriodFinalized      EventType = "rush.period.finalized"
	EventEntitlementCreated   EventType = "rush.prize.entitlement.created"
	EventPrizeClaimed         EventType = "rush.prize.claimed"
	EventAchievementUnlocked  EventType = "rush.achievement.unlocked"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregateProfile     AggregateType = "profile"
	AggregateSession     AggregateType = "session"
	AggregateVault       AggregateType = "vault"
	AggregateLeaderboard AggregateType = "leaderboard"
	AggregatePeriod      AggregateType = "period"
	AggregateEntitlement AggregateType = "entitlement"
)

// OutboxDraft is the payload written to the event_outbox table.
// SeqID is the table's serial id, set only on rows read back by the
// publisher.
type OutboxDraft struct {
	SeqID         int64           `json:"-"`
	EventID       uuid.UUID       `json:"eventId"`
	AggregateType AggregateType   `json:"aggregateType"`
	AggregateID   string          `json:"aggregateId"`
	EventType     EventType       `json:"eventType"`
	PartitionKey  string          `json:"partitionKey"`
	Headers       json.RawMessage `json:"headers"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

func draft(agg AggregateType, aggID string, evt EventType, payload interface{}) OutboxDraft {
	body, _ := json.Marshal(payload)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: agg,
		AggregateID:   aggID,
		EventType:     evt,
		PartitionKey:  aggID,
		Headers:       json.RawMessage(`{}`),
		Payload:       body,
		OccurredAt:    time.Now(),
	}
}

// NewProfileCreatedEvent announces a new player profile.
func NewProfileCreatedEvent(playerID uuid.UUID, username string) OutboxDraft {
	return draft(AggregateProfile, playerID.String(), EventProfileCreated, map[string]string{
		"player_id": playerID.String(),
		"username":  username,
	})
}

// NewGameStartedEvent announces a ticket purchase and session start.
func NewGameStartedEvent(playerID uuid.UUID, sessionID, periodID string, ticketPrice int64) OutboxDraft {
	return draft(AggregateSession, sessionID, EventGameStarted, map[string]interface{}{
		"player_id":    playerID.String(),
		"session_id":   sessionID,
		"period_id":    periodID,
		"ticket_price": ticketPrice,
	})
}

// NewGuessSubmittedEvent announces a stored guess and its verdicts.
func NewGuessSubmittedEvent(playerID uuid.UUID, sessionID string, guessNumber uint8, solved bool, marks [WordLength]LetterMark) OutboxDraft {
	return draft(AggregateSession, sessionID, EventGuessSubmitted, map[string]interface{}{
		"player_id":    playerID.String(),
		"session_id":   sessionID,
		"guess_number": guessNumber,
		"is_solved":    solved,
		"marks":        marks,
	})
}

// NewGameCompletedEvent announces a completed session with final score.
func NewGameCompletedEvent(s *GameSession) OutboxDraft {
	return draft(AggregateSession, s.SessionID, EventGameCompleted, map[string]interface{}{
		"player_id":    s.PlayerID.String(),
		"session_id":   s.SessionID,
		"period_id":    s.PeriodID,
		"is_solved":    s.IsSolved,
		"guesses_used": s.GuessesUsed,
		"time_ms":      s.TimeMS,
		"score":        s.Score,
	})
}

// NewEntryPostedEvent announces a ledger entry applied to a vault.
func NewEntryPostedEvent(entry *VaultEntry) OutboxDraft {
	payload, _ := json.Marshal(entry)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateVault,
		AggregateID:   string(entry.Vault),
		EventType:     EventEntryPosted,
		PartitionKey:  string(entry.Vault),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewLeaderboardUpdatedEvent announces a ranking change.
func NewLeaderboardUpdatedEvent(g Granularity, periodID string, playerID uuid.UUID, score int64, rank, rankChange int) OutboxDraft {
	return draft(AggregateLeaderboard, string(g)+":"+periodID, EventLeaderboardUpdated, map[string]interface{}{
		"granularity": g,
		"period_id":   periodID,
		"player_id":   playerID.String(),
		"score":       score,
		"rank":        rank,
		"rank_change": rankChange,
	})
}

// NewLeaderboardFinalizedEvent announces a frozen leaderboard.
func NewLeaderboardFinalizedEvent(g Granularity, periodID string, totalPlayers uint32, winners int) OutboxDraft {
	return draft(AggregateLeaderboard, string(g)+":"+periodID, EventLeaderboardFinalized, map[string]interface{}{
		"granularity":   g,
		"period_id":     periodID,
		"total_players": totalPlayers,
		"winners_count": winners,
	})
}

// NewPeriodFinalizedEvent announces a closed period and its payouts.
func NewPeriodFinalizedEvent(state *PeriodState, amounts []int64) OutboxDraft {
	return draft(AggregatePeriod, string(state.Granularity)+":"+state.PeriodID, EventPeriodFinalized, map[string]interface{}{
		"granularity":    state.Granularity,
		"period_id":      state.PeriodID,
		"vault_balance":  state.VaultBalanceAtClose,
		"winner_amounts": amounts,
	})
}

// NewEntitlementCreatedEvent announces a claimable prize.
func NewEntitlementCreatedEvent(e *WinnerEntitlement) OutboxDraft {
	payload, _ := json.Marshal(e)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateEntitlement,
		AggregateID:   e.PlayerID.String(),
		EventType:     EventEntitlementCreated,
		PartitionKey:  e.PlayerID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewPrizeClaimedEvent announces a settled claim.
func NewPrizeClaimedEvent(e *WinnerEntitlement) OutboxDraft {
	return draft(AggregateEntitlement, e.PlayerID.String(), EventPrizeClaimed, map[string]interface{}{
		"player_id":   e.PlayerID.String(),
		"granularity": e.Granularity,
		"period_id":   e.PeriodID,
		"rank":        e.Rank,
		"amount":      e.Amount,
	})
}

// NewAchievementUnlockedEvent announces a badge unlock.
func NewAchievementUnlockedEvent(playerID uuid.UUID, achievementID uint8, at time.Time) OutboxDraft {
	return draft(AggregateProfile, playerID.String(), EventAchievementUnlocked, map[string]interface{}{
		"player_id":      playerID.String(),
		"achievement_id": achievementID,
		"unlocked_at":    at.Unix(),
	})
}
