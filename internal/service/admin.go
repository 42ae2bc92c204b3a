package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wordrush/platform/internal/domain"
	"github.com/wordrush/platform/internal/ledger"
	"github.com/wordrush/platform/internal/projection"
	"github.com/wordrush/platform/internal/repository"
)

// AdminService owns the authority-side operations: config lifecycle,
// vault bootstrap, external funding, and revenue withdrawal.
type AdminService struct {
	pool    *pgxpool.Pool
	configs repository.ConfigRepository
	vaults  repository.VaultRepository
	entries repository.VaultEntryRepository
	engine  *ledger.Engine
	cache   projection.Store
	logger  *slog.Logger
}

// NewAdminService creates an AdminService.
func NewAdminService(
	pool *pgxpool.Pool,
	configs repository.ConfigRepository,
	vaults repository.VaultRepository,
	entries repository.VaultEntryRepository,
	engine *ledger.Engine,
	cache projection.Store,
	logger *slog.Logger,
) *AdminService {
	return &AdminService{
		pool:    pool,
		configs: configs,
		vaults:  vaults,
		entries: entries,
		engine:  engine,
		cache:   cache,
		logger:  logger,
	}
}

// InitGame bootstraps the platform: the singleton config row and the
// five empty vaults land in one transaction. Running it twice fails on
// the config conflict, so a live game cannot be re-initialized.
func (s *AdminService) InitGame(ctx context.Context, cfg *domain.GameConfig) (*domain.GameConfig, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	existing, err := s.configs.Find(ctx, tx)
	if err != nil {
		return nil, domain.ErrInternal("find config", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict("game is already initialized")
	}

	now := time.Now()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	if err := s.configs.Create(ctx, tx, cfg); err != nil {
		return nil, domain.ErrInternal("create config", err)
	}

	for _, kind := range domain.VaultKinds {
		v := &domain.Vault{Kind: kind, CreatedAt: now, UpdatedAt: now}
		if err := s.vaults.Create(ctx, tx, v); err != nil {
			return nil, domain.ErrInternal("create vault", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("game initialized", "authority", cfg.Authority, "ticket_price", cfg.TicketPrice)
	return cfg, nil
}

// ConfigUpdate carries the mutable config fields. Nil means unchanged.
type ConfigUpdate struct {
	TicketPrice  *int64                          `json:"ticket_price,omitempty"`
	PoolSplits   *domain.PoolSplits              `json:"pool_splits,omitempty"`
	WinnerSplits *[domain.TopWinnersCount]uint16 `json:"winner_splits,omitempty"`
	Paused       *bool                           `json:"paused,omitempty"`
}

// UpdateConfig applies a partial config change under the row lock and
// re-validates the split invariants before committing.
func (s *AdminService) UpdateConfig(ctx context.Context, authority uuid.UUID, update ConfigUpdate) (*domain.GameConfig, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	cfg, err := s.configs.LockForUpdate(ctx, tx)
	if err != nil {
		return nil, domain.ErrInternal("lock config", err)
	}
	if cfg == nil {
		return nil, domain.ErrNotFound("game config", "singleton")
	}
	if cfg.Authority != authority {
		return nil, domain.ErrForbidden("caller is not the config authority")
	}

	if update.TicketPrice != nil {
		cfg.TicketPrice = *update.TicketPrice
	}
	if update.PoolSplits != nil {
		cfg.PoolSplits = *update.PoolSplits
	}
	if update.WinnerSplits != nil {
		cfg.WinnerSplits = *update.WinnerSplits
	}
	if update.Paused != nil {
		cfg.Paused = *update.Paused
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.UpdatedAt = time.Now()
	if err := s.configs.Update(ctx, tx, cfg); err != nil {
		return nil, domain.ErrInternal("update config", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("config updated", "authority", authority, "paused", cfg.Paused)
	return cfg, nil
}

// GetConfig returns the current game configuration.
func (s *AdminService) GetConfig(ctx context.Context) (*domain.GameConfig, error) {
	cfg, err := s.configs.Find(ctx, s.pool)
	if err != nil {
		return nil, domain.ErrInternal("find config", err)
	}
	if cfg == nil {
		return nil, domain.ErrNotFound("game config", "singleton")
	}
	return cfg, nil
}

// FundVault credits a vault from an external source. Idempotent per
// external reference.
func (s *AdminService) FundVault(ctx context.Context, params domain.FundVaultParams) (*domain.CommandResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	result, err := s.engine.ExecuteFundVault(ctx, tx, params)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	projection.InvalidateVaultBalances(ctx, s.cache)
	s.logger.Info("vault funded", "vault", params.Vault, "amount", params.Amount, "idempotent", result.Idempotent)
	return result, nil
}

// WithdrawRevenue moves accumulated platform revenue out of the
// platform vault. Only the revenue share is withdrawable; prize vaults
// are untouchable through this path.
func (s *AdminService) WithdrawRevenue(ctx context.Context, params domain.WithdrawRevenueParams) (*domain.CommandResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	result, err := s.engine.ExecuteWithdrawRevenue(ctx, tx, params)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	projection.InvalidateVaultBalances(ctx, s.cache)
	s.logger.Info("revenue withdrawn", "amount", params.Amount, "idempotent", result.Idempotent)
	return result, nil
}

// GetVaultBalances returns all vault balances, projection-first.
func (s *AdminService) GetVaultBalances(ctx context.Context) (map[domain.VaultKind]int64, error) {
	if cached, err := projection.GetVaultBalances(ctx, s.cache); err == nil && cached != nil {
		return cached.Balances, nil
	}

	vaults, err := s.vaults.List(ctx, s.pool)
	if err != nil {
		return nil, domain.ErrInternal("list vaults", err)
	}

	balances := make(map[domain.VaultKind]int64, len(vaults))
	for _, v := range vaults {
		balances[v.Kind] = v.Balance
	}

	projection.UpdateVaultBalances(ctx, s.cache, projection.VaultBalances{
		Balances:  balances,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return balances, nil
}

// ListVaultEntries returns recent ledger rows for one vault.
func (s *AdminService) ListVaultEntries(ctx context.Context, kind domain.VaultKind, limit int) ([]domain.VaultEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	entries, err := s.entries.ListByVault(ctx, s.pool, kind, limit)
	if err != nil {
		return nil, domain.ErrInternal("list vault entries", err)
	}
	return entries, nil
}
