package projection

import (
	"context"
	"fmt"
	"time"

	"github.com/wordrush/platform/internal/domain"
)

// VaultBalances is the cached view of all vault balances, refreshed
// from posted ledger entries.
type VaultBalances struct {
	Balances  map[domain.VaultKind]int64 `json:"balances"`
	UpdatedAt string                     `json:"updated_at"`
}

const (
	vaultBalancesKey = "projection:vaults"
	vaultTTL         = time.Minute

	leaderboardTTL = 30 * time.Second
)

// ApplyEntry folds one posted ledger entry into the cached balances.
// A missing or expired projection is rebuilt lazily by the caller; the
// fold is best-effort and never blocks the write path.
func ApplyEntry(ctx context.Context, store Store, e *domain.VaultEntry) error {
	var v VaultBalances
	if err := GetJSON(ctx, store, vaultBalancesKey, &v); err != nil {
		return err
	}
	if v.Balances == nil {
		v.Balances = make(map[domain.VaultKind]int64)
	}
	// BalanceAfter is authoritative; applying the snapshot rather than
	// the delta keeps the fold idempotent under event redelivery.
	v.Balances[e.Vault] = e.BalanceAfter
	return UpdateVaultBalances(ctx, store, v)
}

// UpdateVaultBalances replaces the cached vault view.
func UpdateVaultBalances(ctx context.Context, store Store, v VaultBalances) error {
	v.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return SetJSON(ctx, store, vaultBalancesKey, v, vaultTTL)
}

// GetVaultBalances retrieves the cached vault view.
func GetVaultBalances(ctx context.Context, store Store) (*VaultBalances, error) {
	var v VaultBalances
	if err := GetJSON(ctx, store, vaultBalancesKey, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// InvalidateVaultBalances drops the cached vault view.
func InvalidateVaultBalances(ctx context.Context, store Store) error {
	return store.Delete(ctx, vaultBalancesKey)
}

func leaderboardKey(g domain.Granularity, periodID string) string {
	return fmt.Sprintf("projection:leaderboard:%s:%s", g, periodID)
}

// UpdateLeaderboard caches a board snapshot for the read path.
func UpdateLeaderboard(ctx context.Context, store Store, lb *domain.Leaderboard) error {
	return SetJSON(ctx, store, leaderboardKey(lb.Granularity, lb.PeriodID), lb, leaderboardTTL)
}

// GetLeaderboard retrieves a cached board snapshot.
func GetLeaderboard(ctx context.Context, store Store, g domain.Granularity, periodID string) (*domain.Leaderboard, error) {
	var lb domain.Leaderboard
	if err := GetJSON(ctx, store, leaderboardKey(g, periodID), &lb); err != nil {
		return nil, err
	}
	return &lb, nil
}

// InvalidateLeaderboard drops a cached board snapshot.
func InvalidateLeaderboard(ctx context.Context, store Store, g domain.Granularity, periodID string) error {
	return store.Delete(ctx, leaderboardKey(g, periodID))
}
