package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wordrush/platform/internal/domain"
	"github.com/wordrush/platform/internal/game"
	"github.com/wordrush/platform/internal/leaderboard"
	"github.com/wordrush/platform/internal/ledger"
	"github.com/wordrush/platform/internal/policy"
	"github.com/wordrush/platform/internal/projection"
	"github.com/wordrush/platform/internal/repository"
	"github.com/wordrush/platform/internal/settlement"
)

// GameService orchestrates the play loop: ticket purchase, session
// lifecycle, guess submission, and the settlement that follows a
// completed game.
type GameService struct {
	pool     *pgxpool.Pool
	profiles repository.ProfileRepository
	sessions repository.SessionRepository
	boards   repository.LeaderboardRepository
	configs  repository.ConfigRepository
	outbox   repository.OutboxRepository
	engine   *ledger.Engine
	selector game.Selector
	cache    projection.Store
	logger   *slog.Logger
}

// NewGameService creates a GameService.
func NewGameService(
	pool *pgxpool.Pool,
	profiles repository.ProfileRepository,
	sessions repository.SessionRepository,
	boards repository.LeaderboardRepository,
	configs repository.ConfigRepository,
	outbox repository.OutboxRepository,
	engine *ledger.Engine,
	selector game.Selector,
	cache projection.Store,
	logger *slog.Logger,
) *GameService {
	return &GameService{
		pool:     pool,
		profiles: profiles,
		sessions: sessions,
		boards:   boards,
		configs:  configs,
		outbox:   outbox,
		engine:   engine,
		selector: selector,
		cache:    cache,
		logger:   logger,
	}
}

// GetProfile returns a player's lifetime statistics.
func (s *GameService) GetProfile(ctx context.Context, playerID uuid.UUID) (*domain.PlayerProfile, error) {
	profile, err := s.profiles.FindByPlayerID(ctx, s.pool, playerID)
	if err != nil {
		return nil, domain.ErrInternal("find profile", err)
	}
	if profile == nil {
		return nil, domain.ErrNotFound("profile", playerID.String())
	}
	return profile, nil
}

// TicketResult reports a ticket purchase.
type TicketResult struct {
	PeriodID   string                       `json:"period_id"`
	Amount     int64                        `json:"amount"`
	Idempotent bool                         `json:"idempotent"`
	Balances   map[domain.VaultKind]int64   `json:"balances"`
}

// BuyTicket charges the entry fee, splits it across the five vaults,
// and marks the current daily period as paid on the profile. Retries
// with the same external reference are absorbed without double-charging.
func (s *GameService) BuyTicket(ctx context.Context, playerID uuid.UUID, externalRef string) (*TicketResult, error) {
	periodID, err := policy.PeriodID(domain.GranularityDaily, time.Now())
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	profile, err := s.profiles.LockForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, domain.ErrInternal("lock profile", err)
	}
	if profile == nil {
		return nil, domain.ErrNotFound("profile", playerID.String())
	}

	cfg, err := s.configs.Find(ctx, tx)
	if err != nil {
		return nil, domain.ErrInternal("find config", err)
	}
	if cfg == nil {
		return nil, domain.ErrNotFound("game config", "singleton")
	}

	result, err := s.engine.ExecuteBuyTicket(ctx, tx, cfg, domain.BuyTicketParams{
		PlayerID:    playerID,
		PeriodID:    periodID,
		ExternalRef: externalRef,
	})
	if err != nil {
		return nil, err
	}

	if !result.Idempotent {
		profile.LastPaidPeriod = periodID
		if err := s.profiles.Update(ctx, tx, profile); err != nil {
			return nil, domain.ErrInternal("update profile", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	projection.InvalidateVaultBalances(ctx, s.cache)

	s.logger.Info("ticket purchased",
		"player_id", playerID, "period_id", periodID,
		"amount", cfg.TicketPrice, "idempotent", result.Idempotent)

	return &TicketResult{
		PeriodID:   periodID,
		Amount:     cfg.TicketPrice,
		Idempotent: result.Idempotent,
		Balances:   result.Balances,
	}, nil
}

// SessionView is the session as exposed to its owner. The hidden word
// never appears before completion.
type SessionView struct {
	SessionID   string                `json:"session_id"`
	PeriodID    string                `json:"period_id"`
	GuessesUsed uint8                 `json:"guesses_used"`
	Guesses     []domain.GuessRecord  `json:"guesses"`
	IsSolved    bool                  `json:"is_solved"`
	Completed   bool                  `json:"completed"`
	Score       uint32                `json:"score"`
	TimeMS      uint64                `json:"time_ms"`
	TargetWord  string                `json:"target_word,omitempty"`
	StartedAt   time.Time             `json:"started_at"`
}

func sessionView(s *domain.GameSession) *SessionView {
	v := &SessionView{
		SessionID:   s.SessionID,
		PeriodID:    s.PeriodID,
		GuessesUsed: s.GuessesUsed,
		IsSolved:    s.IsSolved,
		Completed:   s.Completed,
		Score:       s.Score,
		TimeMS:      s.TimeMS,
		StartedAt:   s.StartedAt,
	}
	for _, g := range s.Guesses {
		if g != nil {
			v.Guesses = append(v.Guesses, *g)
		}
	}
	if s.Completed {
		v.TargetWord = s.TargetWord
	}
	return v
}

// StartSession creates the player's session for the current daily
// period, or resets an existing one onto it. The period must already
// be paid for; the reset path refuses to reuse a payment.
func (s *GameService) StartSession(ctx context.Context, playerID uuid.UUID) (*SessionView, error) {
	periodID, err := policy.PeriodID(domain.GranularityDaily, time.Now())
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	profile, err := s.profiles.LockForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, domain.ErrInternal("lock profile", err)
	}
	if profile == nil {
		return nil, domain.ErrNotFound("profile", playerID.String())
	}
	if profile.LastPaidPeriod != periodID {
		return nil, domain.ErrPeriodNotPaid(periodID)
	}

	selection, err := s.selector.Select(playerID, periodID, profile.GamesPlayed)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	existing, err := s.sessions.LockForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, domain.ErrInternal("lock session", err)
	}

	var session *domain.GameSession
	if existing != nil {
		if existing.PeriodID == periodID && !existing.Completed {
			// Idempotent: the session for this period already exists.
			if err := tx.Commit(ctx); err != nil {
				return nil, domain.ErrInternal("commit tx", err)
			}
			return sessionView(existing), nil
		}
		session = existing
		if err := game.Reset(session, profile, periodID, selection.WordHash, selection.WordIndex, now); err != nil {
			return nil, err
		}
		if err := s.sessions.Update(ctx, tx, session); err != nil {
			return nil, domain.ErrInternal("update session", err)
		}
	} else {
		session, err = game.NewSession(playerID, periodID, selection.WordHash, selection.WordIndex, now)
		if err != nil {
			return nil, err
		}
		if err := s.sessions.Create(ctx, tx, session); err != nil {
			return nil, domain.ErrInternal("create session", err)
		}
	}

	profile.HasPlayedThisPeriod = false
	if err := s.profiles.Update(ctx, tx, profile); err != nil {
		return nil, domain.ErrInternal("update profile", err)
	}

	cfg, err := s.configs.Find(ctx, tx)
	if err != nil {
		return nil, domain.ErrInternal("find config", err)
	}
	var price int64
	if cfg != nil {
		price = cfg.TicketPrice
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewGameStartedEvent(playerID, session.SessionID, periodID, price)); err != nil {
		return nil, domain.ErrInternal("insert outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("session started", "player_id", playerID, "session_id", session.SessionID, "period_id", periodID)
	return sessionView(session), nil
}

// GetSession returns the caller's active session.
func (s *GameService) GetSession(ctx context.Context, playerID uuid.UUID) (*SessionView, error) {
	session, err := s.findOwnSession(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return sessionView(session), nil
}

// GuessResult combines the per-guess outcome with the settlement the
// final guess triggered, if any.
type GuessResult struct {
	Outcome    *game.GuessOutcome `json:"outcome"`
	Session    *SessionView       `json:"session"`
	Settlement *SettlementView    `json:"settlement,omitempty"`
}

// SettlementView summarizes what a completed game changed.
type SettlementView struct {
	Boards   map[domain.Granularity]leaderboard.UpdateResult `json:"boards"`
	Unlocked []uint8                                         `json:"unlocked_achievements,omitempty"`
}

// SubmitGuess evaluates one guess inside a single transaction. A guess
// that completes the game settles in the same transaction: profile
// statistics, the three period leaderboards, and achievements all move
// together or not at all.
func (s *GameService) SubmitGuess(ctx context.Context, playerID uuid.UUID, rawGuess string) (*GuessResult, error) {
	now := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	profile, err := s.profiles.LockForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, domain.ErrInternal("lock profile", err)
	}
	if profile == nil {
		return nil, domain.ErrNotFound("profile", playerID.String())
	}

	session, err := s.lockOwnSession(ctx, tx, playerID)
	if err != nil {
		return nil, err
	}

	target, err := game.WordByIndex(session.WordIndex)
	if err != nil {
		return nil, domain.ErrInternal("resolve target word", err)
	}

	outcome, err := game.ApplyGuess(session, target, rawGuess, now)
	if err != nil {
		return nil, err
	}

	if err := s.outbox.Insert(ctx, tx, domain.NewGuessSubmittedEvent(playerID, session.SessionID, outcome.GuessNumber, outcome.Solved, outcome.Marks)); err != nil {
		return nil, domain.ErrInternal("insert outbox event", err)
	}

	result := &GuessResult{Outcome: outcome}
	if outcome.Completed {
		settleView, err := s.settleCompleted(ctx, tx, profile, session, now)
		if err != nil {
			return nil, err
		}
		result.Settlement = settleView
	}

	if err := s.sessions.Update(ctx, tx, session); err != nil {
		return nil, domain.ErrInternal("update session", err)
	}
	if err := s.profiles.Update(ctx, tx, profile); err != nil {
		return nil, domain.ErrInternal("update profile", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	result.Session = sessionView(session)
	return result, nil
}

// CompleteSession closes out an abandoned session. The unsolved game
// scores zero but still settles, so the played period is spent.
func (s *GameService) CompleteSession(ctx context.Context, playerID uuid.UUID) (*GuessResult, error) {
	now := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	profile, err := s.profiles.LockForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, domain.ErrInternal("lock profile", err)
	}
	if profile == nil {
		return nil, domain.ErrNotFound("profile", playerID.String())
	}

	session, err := s.lockOwnSession(ctx, tx, playerID)
	if err != nil {
		return nil, err
	}

	target, err := game.WordByIndex(session.WordIndex)
	if err != nil {
		return nil, domain.ErrInternal("resolve target word", err)
	}
	if err := game.Complete(session, target, now); err != nil {
		return nil, err
	}

	settleView, err := s.settleCompleted(ctx, tx, profile, session, now)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Update(ctx, tx, session); err != nil {
		return nil, domain.ErrInternal("update session", err)
	}
	if err := s.profiles.Update(ctx, tx, profile); err != nil {
		return nil, domain.ErrInternal("update profile", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	return &GuessResult{Session: sessionView(session), Settlement: settleView}, nil
}

// RecordKeystrokes appends input events to the active session's
// analytics log. Overflow is dropped silently.
func (s *GameService) RecordKeystrokes(ctx context.Context, playerID uuid.UUID, keys []domain.Keystroke) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	session, err := s.lockOwnSession(ctx, tx, playerID)
	if err != nil {
		return err
	}
	if session.Completed {
		return domain.ErrSessionCompleted()
	}

	for _, k := range keys {
		session.RecordKeystroke(k)
	}
	if err := s.sessions.Update(ctx, tx, session); err != nil {
		return domain.ErrInternal("update session", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}
	return nil
}

// settleCompleted runs settlement inside the caller's transaction:
// the three boards for the session's play moment are locked (created
// when absent), folded, and persisted along with outbox events.
func (s *GameService) settleCompleted(ctx context.Context, tx pgx.Tx, profile *domain.PlayerProfile, session *domain.GameSession, now time.Time) (*SettlementView, error) {
	if err := s.outbox.Insert(ctx, tx, domain.NewGameCompletedEvent(session)); err != nil {
		return nil, domain.ErrInternal("insert outbox event", err)
	}

	// Boards are anchored to the period the session was played in, not
	// the settlement time, so a game finished just past a boundary
	// still lands on the boards it entered.
	playedAt, err := policy.PeriodStart(domain.GranularityDaily, session.PeriodID)
	if err != nil {
		return nil, err
	}
	periods, err := policy.CurrentPeriods(playedAt)
	if err != nil {
		return nil, err
	}

	boards := make(map[domain.Granularity]*domain.Leaderboard, len(domain.Granularities))
	for _, g := range domain.Granularities {
		lb, err := s.lockOrCreateBoard(ctx, tx, g, periods[g], now)
		if err != nil {
			return nil, err
		}
		boards[g] = lb
	}

	res, err := settlement.SettleGame(profile, session, boards, now)
	if err != nil {
		return nil, err
	}

	for _, g := range domain.Granularities {
		out, ok := res.Boards[g]
		if !ok {
			continue
		}
		lb := boards[g]
		if err := s.boards.Update(ctx, tx, lb); err != nil {
			return nil, domain.ErrInternal("update leaderboard", err)
		}
		evt := domain.NewLeaderboardUpdatedEvent(g, lb.PeriodID, session.PlayerID, int64(session.Score), out.NewRank, out.RankChange)
		if err := s.outbox.Insert(ctx, tx, evt); err != nil {
			return nil, domain.ErrInternal("insert outbox event", err)
		}
		projection.InvalidateLeaderboard(ctx, s.cache, g, lb.PeriodID)
	}

	for _, id := range res.Unlocked {
		if err := s.outbox.Insert(ctx, tx, domain.NewAchievementUnlockedEvent(session.PlayerID, id, now)); err != nil {
			return nil, domain.ErrInternal("insert outbox event", err)
		}
	}

	s.logger.Info("game settled",
		"player_id", session.PlayerID, "session_id", session.SessionID,
		"score", session.Score, "solved", session.IsSolved, "unlocked", len(res.Unlocked))

	return &SettlementView{Boards: res.Boards, Unlocked: res.Unlocked}, nil
}

func (s *GameService) lockOrCreateBoard(ctx context.Context, tx pgx.Tx, g domain.Granularity, periodID string, now time.Time) (*domain.Leaderboard, error) {
	lb, err := s.boards.LockForUpdate(ctx, tx, g, periodID)
	if err != nil {
		return nil, domain.ErrInternal("lock leaderboard", err)
	}
	if lb != nil {
		return lb, nil
	}
	lb = leaderboard.New(periodID, g, now)
	if err := s.boards.Create(ctx, tx, lb); err != nil {
		return nil, domain.ErrInternal("create leaderboard", err)
	}
	return lb, nil
}

func (s *GameService) findOwnSession(ctx context.Context, playerID uuid.UUID) (*domain.GameSession, error) {
	session, err := s.sessions.FindByPlayer(ctx, s.pool, playerID)
	if err != nil {
		return nil, domain.ErrInternal("find session", err)
	}
	if session == nil {
		return nil, domain.ErrNotFound("session", playerID.String())
	}
	return session, nil
}

func (s *GameService) lockOwnSession(ctx context.Context, tx pgx.Tx, playerID uuid.UUID) (*domain.GameSession, error) {
	session, err := s.sessions.LockForUpdate(ctx, tx, playerID)
	if err != nil {
		return nil, domain.ErrInternal("lock session", err)
	}
	if session == nil {
		return nil, domain.ErrNotFound("session", playerID.String())
	}
	return session, nil
}
