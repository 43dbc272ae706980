// Package transactionrepo manages the repository layer of the transaction log.
package transactionrepo

import (
	"context"
	"errors"

	"github.com/andreycr/sinpe-ledger/internal/domain"
	"github.com/andreycr/sinpe-ledger/pkg/dbpkg"
	"github.com/andreycr/sinpe-ledger/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// DefaultListLimit caps history listings when the caller supplies no limit.
const DefaultListLimit = 100

// RepoPGS facilitates transaction log repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction log RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const nextSequenceIDQuery = `
INSERT INTO transaction_seqs (account_id, next_id)
VALUES ($1, 1)
ON CONFLICT (account_id) DO UPDATE
SET next_id = transaction_seqs.next_id + 1
RETURNING next_id
`

// NextSequenceID atomically allocates the next sequence id for the account.
// The counter starts at 1 and never moves backwards; ids handed out for
// appends that later fail are simply skipped, leaving a gap but no reuse.
func (r *RepoPGS) NextSequenceID(ctx context.Context, accountID string) (int64, error) {
	l := zerolog.Ctx(ctx)

	var id int64

	err := r.db.QueryRowContext(ctx, nextSequenceIDQuery, accountID).Scan(&id)
	if err != nil {
		l.Error().Err(err).Send()
		return 0, classify(err)
	}

	return id, nil
}

const appendQuery = `
INSERT INTO
    transactions (account_id, sequence_id, amount, counterparty, detail, kind, occurred_at)
VALUES
    ($1, $2, $3, $4, $5, $6, $7)
RETURNING account_id, sequence_id, amount, counterparty, detail, kind, occurred_at
`

// Append writes a new immutable transaction record and returns it as persisted.
func (r *RepoPGS) Append(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, appendQuery,
		tx.AccountID,
		tx.SequenceID,
		tx.Amount,
		tx.Counterparty,
		tx.Detail,
		tx.Kind,
		tx.OccurredAt,
	)

	var t domain.Transaction

	err := row.Scan(
		&t.AccountID,
		&t.SequenceID,
		&t.Amount,
		&t.Counterparty,
		&t.Detail,
		&t.Kind,
		&t.OccurredAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "transactions_pkey" {
			return t, domain.ErrDuplicateSequenceID
		}

		return t, classify(err)
	}

	return t, nil
}

const listRecentQuery = `
SELECT account_id, sequence_id, amount, counterparty, detail, kind, occurred_at
FROM transactions
WHERE account_id = $1
ORDER BY occurred_at DESC, sequence_id DESC
LIMIT $2
`

// ListRecent returns up to limit transactions for the account, newest first.
// An account with no transactions yields an empty slice, not an error.
func (r *RepoPGS) ListRecent(ctx context.Context, accountID string, limit int32) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.QueryContext(ctx, listRecentQuery, accountID, limit)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, classify(err)
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.AccountID,
			&t.SequenceID,
			&t.Amount,
			&t.Counterparty,
			&t.Detail,
			&t.Kind,
			&t.OccurredAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, classify(err)
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, classify(err)
	}

	return items, nil
}

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
