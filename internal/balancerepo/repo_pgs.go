// Package balancerepo manages the repository layer of account balances.
package balancerepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/andreycr/sinpe-ledger/internal/domain"
	"github.com/andreycr/sinpe-ledger/pkg/dbpkg"
	"github.com/andreycr/sinpe-ledger/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RepoPGS facilitates balance repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns balance RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    balances (account_id, amount)
VALUES
    ($1, $2)
RETURNING account_id, amount, updated_at
`

// Create provisions the balance record for a new account and returns it.
func (r *RepoPGS) Create(ctx context.Context, accountID string, opening decimal.Decimal) (domain.Balance, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, accountID, opening)

	var b domain.Balance

	err := row.Scan(&b.AccountID, &b.Amount, &b.UpdatedAt)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "balances_pkey":
				return b, domain.ErrAccountAlreadyExists
			case "balances_amount_check":
				return b, domain.ErrNegativeOpeningBalance
			}
		}

		return b, classify(err)
	}

	return b, nil
}

const getQuery = `
SELECT account_id, amount, updated_at
FROM balances
WHERE account_id = $1
`

// Get returns the balance of the given account.
func (r *RepoPGS) Get(ctx context.Context, accountID string) (domain.Balance, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, accountID)

	var b domain.Balance

	err := row.Scan(&b.AccountID, &b.Amount, &b.UpdatedAt)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return b, domain.ErrAccountNotFound
		}

		return b, classify(err)
	}

	return b, nil
}

const conditionalDebitQuery = `
UPDATE balances
SET amount = amount - $2, updated_at = now()
WHERE account_id = $1 AND amount >= $2
RETURNING account_id, amount, updated_at
`

// ConditionalDebit atomically subtracts amount from the account's balance,
// provided the current balance covers it, and returns the updated balance.
//
// The funds check and the write happen in a single conditional UPDATE so that
// concurrent debits on one account serialize with no lost updates.
func (r *RepoPGS) ConditionalDebit(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Balance, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, conditionalDebitQuery, accountID, amount)

	var b domain.Balance

	err := row.Scan(&b.AccountID, &b.Amount, &b.UpdatedAt)
	if err == nil {
		return b, nil
	}

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "balances_amount_check" {
		err = sql.ErrNoRows
	}

	if err != sql.ErrNoRows {
		l.Error().Err(err).Send()
		return b, classify(err)
	}

	// The condition failed: report whether the account is missing or short of
	// funds. The available amount is advisory, read after the failed update.
	current, err := r.Get(ctx, accountID)
	if err != nil {
		return b, err
	}

	return b, &domain.InsufficientFundsError{Available: current.Amount, Requested: amount}
}

// classify maps driver failures onto the app error taxonomy: connection-class
// and cancellation failures are transient, everything else is internal.
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "08" {
		return errorspkg.ErrUnavailable
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errorspkg.ErrUnavailable
	}

	return errorspkg.ErrInternal
}
