package balancerepo

import (
	"context"
	"sync"
	"time"

	"github.com/andreycr/sinpe-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// RepoMem is a concurrency-safe in-memory balance store. It backs unit tests
// and local development runs without PostgreSQL.
type RepoMem struct {
	mu       sync.Mutex
	balances map[string]domain.Balance
}

// NewRepoMem returns an empty in-memory balance store.
func NewRepoMem() *RepoMem {
	return &RepoMem{balances: make(map[string]domain.Balance)}
}

// Create provisions the balance record for a new account and returns it.
func (r *RepoMem) Create(_ context.Context, accountID string, opening decimal.Decimal) (domain.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.balances[accountID]; ok {
		return domain.Balance{}, domain.ErrAccountAlreadyExists
	}

	if opening.IsNegative() {
		return domain.Balance{}, domain.ErrNegativeOpeningBalance
	}

	b := domain.Balance{
		AccountID: accountID,
		Amount:    opening,
		UpdatedAt: time.Now().UTC(),
	}
	r.balances[accountID] = b

	return b, nil
}

// Get returns the balance of the given account.
func (r *RepoMem) Get(_ context.Context, accountID string) (domain.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.balances[accountID]
	if !ok {
		return domain.Balance{}, domain.ErrAccountNotFound
	}

	return b, nil
}

// ConditionalDebit atomically subtracts amount from the account's balance,
// provided the current balance covers it. The check and the write happen
// under one lock so concurrent debits serialize.
func (r *RepoMem) ConditionalDebit(_ context.Context, accountID string, amount decimal.Decimal) (domain.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.balances[accountID]
	if !ok {
		return domain.Balance{}, domain.ErrAccountNotFound
	}

	if b.Amount.LessThan(amount) {
		return domain.Balance{}, &domain.InsufficientFundsError{Available: b.Amount, Requested: amount}
	}

	b.Amount = b.Amount.Sub(amount)
	b.UpdatedAt = time.Now().UTC()
	r.balances[accountID] = b

	return b, nil
}
