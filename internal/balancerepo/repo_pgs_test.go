package balancerepo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/andreycr/sinpe-ledger/internal/domain"
	"github.com/andreycr/sinpe-ledger/pkg/configpkg"
	"github.com/andreycr/sinpe-ledger/pkg/dbpkg"
	"github.com/andreycr/sinpe-ledger/pkg/randompkg"
)

func setupRepo(t *testing.T) *RepoPGS {
	t.Helper()

	config, err := configpkg.Load("../../configs")
	require.NoError(t, err)

	return NewRepoPGS(dbpkg.SetupTX(t, config.DBDriver, config.DBSource))
}

func createRandomBalance(t *testing.T, repo *RepoPGS, opening decimal.Decimal) domain.Balance {
	t.Helper()

	accountID := randompkg.AccountID()

	b, err := repo.Create(context.Background(), accountID, opening)
	require.NoError(t, err)
	require.Equal(t, accountID, b.AccountID)
	require.True(t, b.Amount.Equal(opening))
	require.NotZero(t, b.UpdatedAt)

	return b
}

func TestCreate(t *testing.T) {
	repo := setupRepo(t)

	b := createRandomBalance(t, repo, randompkg.MoneyAmountBetween(100, 10_000))

	_, err := repo.Create(context.Background(), b.AccountID, decimal.NewFromInt(1))
	require.ErrorIs(t, err, domain.ErrAccountAlreadyExists)
}

func TestGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	want := createRandomBalance(t, repo, randompkg.MoneyAmountBetween(100, 10_000))

	got, err := repo.Get(ctx, want.AccountID)
	require.NoError(t, err)
	require.Equal(t, want.AccountID, got.AccountID)
	require.True(t, got.Amount.Equal(want.Amount))

	_, err = repo.Get(ctx, randompkg.AccountID())
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestConditionalDebit(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	b := createRandomBalance(t, repo, decimal.RequireFromString("100.00"))

	got, err := repo.ConditionalDebit(ctx, b.AccountID, decimal.RequireFromString("40.00"))
	require.NoError(t, err)
	require.True(t, got.Amount.Equal(decimal.RequireFromString("60.00")))

	_, err = repo.ConditionalDebit(ctx, b.AccountID, decimal.RequireFromString("80.00"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	var insErr *domain.InsufficientFundsError
	require.ErrorAs(t, err, &insErr)
	require.True(t, insErr.Available.Equal(decimal.RequireFromString("60.00")))
	require.True(t, insErr.Requested.Equal(decimal.RequireFromString("80.00")))

	// The rejected debit left the balance untouched.
	current, err := repo.Get(ctx, b.AccountID)
	require.NoError(t, err)
	require.True(t, current.Amount.Equal(decimal.RequireFromString("60.00")))

	_, err = repo.ConditionalDebit(ctx, randompkg.AccountID(), decimal.NewFromInt(1))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}
