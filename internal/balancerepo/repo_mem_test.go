package balancerepo

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/andreycr/sinpe-ledger/internal/domain"
)

func TestRepoMemCreate(t *testing.T) {
	repo := NewRepoMem()
	ctx := context.Background()

	b, err := repo.Create(ctx, "andrey", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.Equal(t, "andrey", b.AccountID)
	require.True(t, b.Amount.Equal(decimal.NewFromInt(100)))
	require.NotZero(t, b.UpdatedAt)

	_, err = repo.Create(ctx, "andrey", decimal.NewFromInt(50))
	require.ErrorIs(t, err, domain.ErrAccountAlreadyExists)

	_, err = repo.Create(ctx, "other", decimal.NewFromInt(-1))
	require.ErrorIs(t, err, domain.ErrNegativeOpeningBalance)
}

func TestRepoMemGet(t *testing.T) {
	repo := NewRepoMem()
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = repo.Create(ctx, "andrey", decimal.NewFromInt(100))
	require.NoError(t, err)

	b, err := repo.Get(ctx, "andrey")
	require.NoError(t, err)
	require.True(t, b.Amount.Equal(decimal.NewFromInt(100)))
}

func TestRepoMemConditionalDebit(t *testing.T) {
	repo := NewRepoMem()
	ctx := context.Background()

	_, err := repo.Create(ctx, "andrey", decimal.RequireFromString("100.00"))
	require.NoError(t, err)

	b, err := repo.ConditionalDebit(ctx, "andrey", decimal.RequireFromString("40.00"))
	require.NoError(t, err)
	require.True(t, b.Amount.Equal(decimal.RequireFromString("60.00")))

	_, err = repo.ConditionalDebit(ctx, "andrey", decimal.RequireFromString("80.00"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	var insErr *domain.InsufficientFundsError
	require.ErrorAs(t, err, &insErr)
	require.True(t, insErr.Available.Equal(decimal.RequireFromString("60.00")))
	require.True(t, insErr.Requested.Equal(decimal.RequireFromString("80.00")))

	// The failed debit left the balance untouched.
	b, err = repo.Get(ctx, "andrey")
	require.NoError(t, err)
	require.True(t, b.Amount.Equal(decimal.RequireFromString("60.00")))

	_, err = repo.ConditionalDebit(ctx, "missing", decimal.NewFromInt(1))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestRepoMemConditionalDebitSerializes(t *testing.T) {
	repo := NewRepoMem()
	ctx := context.Background()

	_, err := repo.Create(ctx, "andrey", decimal.NewFromInt(1000))
	require.NoError(t, err)

	const workers = 100

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			_, _ = repo.ConditionalDebit(ctx, "andrey", decimal.NewFromInt(10))
		}()
	}

	wg.Wait()

	b, err := repo.Get(ctx, "andrey")
	require.NoError(t, err)
	require.True(t, b.Amount.IsZero(), "want 0, got %s", b.Amount)
}
