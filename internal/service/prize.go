package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wordrush/platform/internal/domain"
	"github.com/wordrush/platform/internal/leaderboard"
	"github.com/wordrush/platform/internal/ledger"
	"github.com/wordrush/platform/internal/policy"
	"github.com/wordrush/platform/internal/prize"
	"github.com/wordrush/platform/internal/projection"
	"github.com/wordrush/platform/internal/repository"
)

// PrizeService owns the period close and claim flows: freezing a
// leaderboard, snapshotting its prize vault into a period record,
// minting winner entitlements, and settling claims.
type PrizeService struct {
	pool         *pgxpool.Pool
	boards       repository.LeaderboardRepository
	periods      repository.PeriodRepository
	entitlements repository.EntitlementRepository
	configs      repository.ConfigRepository
	outbox       repository.OutboxRepository
	engine       *ledger.Engine
	cache        projection.Store
	logger       *slog.Logger
}

// NewPrizeService creates a PrizeService.
func NewPrizeService(
	pool *pgxpool.Pool,
	boards repository.LeaderboardRepository,
	periods repository.PeriodRepository,
	entitlements repository.EntitlementRepository,
	configs repository.ConfigRepository,
	outbox repository.OutboxRepository,
	engine *ledger.Engine,
	cache projection.Store,
	logger *slog.Logger,
) *PrizeService {
	return &PrizeService{
		pool:         pool,
		boards:       boards,
		periods:      periods,
		entitlements: entitlements,
		configs:      configs,
		outbox:       outbox,
		engine:       engine,
		cache:        cache,
		logger:       logger,
	}
}

// FinalizeResult reports a closed period.
type FinalizeResult struct {
	Period  *domain.PeriodState `json:"period"`
	Amounts []int64             `json:"amounts"`
}

// FinalizePeriod closes one competition window in a single transaction:
// the leaderboard freezes, the prize vault balance is snapshotted, and
// one entitlement per paid winner is minted. The winner amounts always
// sum to exactly the snapshotted balance.
func (s *PrizeService) FinalizePeriod(ctx context.Context, g domain.Granularity, periodID string) (*FinalizeResult, error) {
	if !g.Valid() {
		return nil, domain.ErrValidation("unknown granularity")
	}
	if err := domain.ValidatePeriodID(periodID); err != nil {
		return nil, err
	}
	now := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	cfg, err := s.configs.Find(ctx, tx)
	if err != nil {
		return nil, domain.ErrInternal("find config", err)
	}
	if cfg == nil {
		return nil, domain.ErrNotFound("game config", "singleton")
	}

	lb, err := s.boards.LockForUpdate(ctx, tx, g, periodID)
	if err != nil {
		return nil, domain.ErrInternal("lock leaderboard", err)
	}
	if lb == nil {
		return nil, domain.ErrNotFound("leaderboard", string(g)+":"+periodID)
	}

	if err := prize.FinalizeLeaderboard(lb, periodID, now); err != nil {
		return nil, err
	}

	vault, err := s.engine.LockVaultForUpdate(ctx, tx, domain.PrizeVaultFor(g))
	if err != nil {
		return nil, err
	}

	state, amounts, err := prize.FinalizePeriod(lb, vault.Balance, cfg.WinnerSplits, now)
	if err != nil {
		return nil, err
	}

	lb.PrizePool = vault.Balance
	if err := s.boards.Update(ctx, tx, lb); err != nil {
		return nil, domain.ErrInternal("update leaderboard", err)
	}
	if err := s.periods.Create(ctx, tx, state); err != nil {
		return nil, domain.ErrInternal("create period state", err)
	}

	for i, winner := range state.Winners {
		if amounts[i] <= 0 {
			continue // nothing to claim
		}
		ent, err := prize.NewEntitlement(state, winner, uint8(i+1), amounts[i], now)
		if err != nil {
			return nil, err
		}
		if err := s.entitlements.Create(ctx, tx, ent); err != nil {
			return nil, domain.ErrInternal("create entitlement", err)
		}
		if err := s.outbox.Insert(ctx, tx, domain.NewEntitlementCreatedEvent(ent)); err != nil {
			return nil, domain.ErrInternal("insert outbox event", err)
		}
	}

	if err := s.outbox.Insert(ctx, tx, domain.NewLeaderboardFinalizedEvent(g, periodID, lb.TotalPlayers, len(state.Winners))); err != nil {
		return nil, domain.ErrInternal("insert outbox event", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewPeriodFinalizedEvent(state, amounts)); err != nil {
		return nil, domain.ErrInternal("insert outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	projection.InvalidateLeaderboard(ctx, s.cache, g, periodID)

	s.logger.Info("period finalized",
		"granularity", g, "period_id", periodID,
		"prize_pool", state.VaultBalanceAtClose, "winners", len(state.Winners))

	return &FinalizeResult{Period: state, Amounts: amounts}, nil
}

// ClaimResult reports a settled prize claim.
type ClaimResult struct {
	Entitlement *domain.WinnerEntitlement  `json:"entitlement"`
	Balances    map[domain.VaultKind]int64 `json:"balances"`
}

// ClaimPrize pays one entitlement out of its prize vault, exactly once.
func (s *PrizeService) ClaimPrize(ctx context.Context, playerID uuid.UUID, g domain.Granularity, periodID string) (*ClaimResult, error) {
	if !g.Valid() {
		return nil, domain.ErrValidation("unknown granularity")
	}
	if err := domain.ValidatePeriodID(periodID); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	result, ent, err := s.engine.ExecuteClaimPrize(ctx, tx, domain.ClaimPrizeParams{
		PlayerID:    playerID,
		Granularity: g,
		PeriodID:    periodID,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	projection.InvalidateVaultBalances(ctx, s.cache)

	s.logger.Info("prize claimed",
		"player_id", playerID, "granularity", g, "period_id", periodID, "amount", ent.Amount)

	return &ClaimResult{Entitlement: ent, Balances: result.Balances}, nil
}

// ListEntitlements returns a player's entitlements, newest first.
func (s *PrizeService) ListEntitlements(ctx context.Context, playerID uuid.UUID) ([]domain.WinnerEntitlement, error) {
	ents, err := s.entitlements.ListByPlayer(ctx, s.pool, playerID)
	if err != nil {
		return nil, domain.ErrInternal("list entitlements", err)
	}
	return ents, nil
}

// LeaderboardView is a leaderboard read with derived rank context.
type LeaderboardView struct {
	*domain.Leaderboard
	// ThresholdToEnter is the score a newcomer must beat to appear on
	// the board; zero while the board has open slots.
	ThresholdToEnter int64 `json:"threshold_to_enter"`
	// ViewerRank is the requested player's 1-based rank, 0 if unranked.
	ViewerRank int `json:"viewer_rank,omitempty"`
}

// GetLeaderboard returns current standings, served from the projection
// cache when fresh and from the authoritative table otherwise. A
// non-nil viewer gets their own rank in the view.
func (s *PrizeService) GetLeaderboard(ctx context.Context, g domain.Granularity, periodID string, viewer *uuid.UUID) (*LeaderboardView, error) {
	if !g.Valid() {
		return nil, domain.ErrValidation("unknown granularity")
	}
	if periodID == "" {
		current, err := policy.PeriodID(g, time.Now())
		if err != nil {
			return nil, err
		}
		periodID = current
	}

	lb, err := projection.GetLeaderboard(ctx, s.cache, g, periodID)
	if err != nil || lb == nil {
		lb, err = s.boards.Find(ctx, s.pool, g, periodID)
		if err != nil {
			return nil, domain.ErrInternal("find leaderboard", err)
		}
		if lb == nil {
			return nil, domain.ErrNotFound("leaderboard", string(g)+":"+periodID)
		}
		projection.UpdateLeaderboard(ctx, s.cache, lb)
	}

	view := &LeaderboardView{
		Leaderboard:      lb,
		ThresholdToEnter: leaderboard.ThresholdToEnter(lb),
	}
	if viewer != nil {
		view.ViewerRank = lb.Rank(*viewer)
	}
	return view, nil
}

// GetPeriod returns a closed period record.
func (s *PrizeService) GetPeriod(ctx context.Context, g domain.Granularity, periodID string) (*domain.PeriodState, error) {
	state, err := s.periods.Find(ctx, s.pool, g, periodID)
	if err != nil {
		return nil, domain.ErrInternal("find period", err)
	}
	if state == nil {
		return nil, domain.ErrNotFound("period", string(g)+":"+periodID)
	}
	return state, nil
}
