package projection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordrush/platform/internal/domain"
)

func TestVaultBalancesRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	require.NoError(t, UpdateVaultBalances(ctx, store, VaultBalances{
		Balances: map[domain.VaultKind]int64{
			domain.VaultDaily:    4000,
			domain.VaultPlatform: 1500,
		},
	}))

	v, err := GetVaultBalances(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), v.Balances[domain.VaultDaily])
	assert.NotEmpty(t, v.UpdatedAt)

	require.NoError(t, InvalidateVaultBalances(ctx, store))
	_, err = GetVaultBalances(ctx, store)
	assert.Error(t, err)
}

func TestApplyEntry_SnapshotIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, UpdateVaultBalances(ctx, store, VaultBalances{
		Balances: map[domain.VaultKind]int64{domain.VaultDaily: 100},
	}))

	e := &domain.VaultEntry{Vault: domain.VaultDaily, Amount: 400, BalanceAfter: 500}
	require.NoError(t, ApplyEntry(ctx, store, e))
	require.NoError(t, ApplyEntry(ctx, store, e), "redelivery applies cleanly")

	v, err := GetVaultBalances(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, int64(500), v.Balances[domain.VaultDaily])
}

func TestLeaderboardProjection(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	lb := &domain.Leaderboard{
		PeriodID:    "D123",
		Granularity: domain.GranularityDaily,
		Capacity:    domain.TopLeaderboardCapacity,
		CreatedAt:   time.Now(),
	}

	require.NoError(t, UpdateLeaderboard(ctx, store, lb))
	got, err := GetLeaderboard(ctx, store, domain.GranularityDaily, "D123")
	require.NoError(t, err)
	assert.Equal(t, "D123", got.PeriodID)

	require.NoError(t, InvalidateLeaderboard(ctx, store, domain.GranularityDaily, "D123"))
	_, err = GetLeaderboard(ctx, store, domain.GranularityDaily, "D123")
	assert.Error(t, err)
}

func TestInMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Nanosecond))
	time.Sleep(time.Millisecond)
	_, err := store.Get(ctx, "k")
	assert.Error(t, err)
}
