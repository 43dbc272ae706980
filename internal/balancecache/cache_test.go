package balancecache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/andreycr/sinpe-ledger/internal/domain"
)

func setupCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	return New(client, time.Minute), mr
}

func testBalance(accountID string) domain.Balance {
	return domain.Balance{
		AccountID: accountID,
		Amount:    decimal.RequireFromString("100.00"),
		UpdatedAt: time.Date(2024, 5, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestCacheSetGet(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	want := testBalance("andrey")

	_, ok := cache.Get(ctx, "andrey")
	require.False(t, ok)

	cache.Set(ctx, want)

	got, ok := cache.Get(ctx, "andrey")
	require.True(t, ok)
	require.Equal(t, want.AccountID, got.AccountID)
	require.True(t, got.Amount.Equal(want.Amount))
	require.True(t, got.UpdatedAt.Equal(want.UpdatedAt))
}

func TestCacheExpiry(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	cache.Set(ctx, testBalance("andrey"))

	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx, "andrey")
	require.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	cache.Set(ctx, testBalance("andrey"))
	cache.Invalidate(ctx, "andrey")

	_, ok := cache.Get(ctx, "andrey")
	require.False(t, ok)
}

func TestCacheCorruptEntryIsAMiss(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(keyPrefix+"andrey", "{not json"))

	_, ok := cache.Get(ctx, "andrey")
	require.False(t, ok)
}

func TestCacheServerDownIsAMiss(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	cache.Set(ctx, testBalance("andrey"))

	mr.Close()

	_, ok := cache.Get(ctx, "andrey")
	require.False(t, ok)
}
