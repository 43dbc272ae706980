// Package ledgerservice manages the business logic layer of the ledger.
package ledgerservice

import (
	"context"
	"errors"

	"github.com/andreycr/sinpe-ledger/internal/domain"
	"github.com/andreycr/sinpe-ledger/internal/events"
	"github.com/andreycr/sinpe-ledger/pkg/clockpkg"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// BalanceStore provides the balance data access interface needed by the service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type BalanceStore interface {
	Create(ctx context.Context, accountID string, opening decimal.Decimal) (domain.Balance, error)
	Get(ctx context.Context, accountID string) (domain.Balance, error)
	ConditionalDebit(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Balance, error)
}

// TransactionLog provides the transaction log access interface needed by the service layer.
type TransactionLog interface {
	NextSequenceID(ctx context.Context, accountID string) (int64, error)
	Append(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
	ListRecent(ctx context.Context, accountID string, limit int32) ([]domain.Transaction, error)
}

// BalanceCache caches balance reads. Implementations are best effort.
type BalanceCache interface {
	Get(ctx context.Context, accountID string) (domain.Balance, bool)
	Set(ctx context.Context, b domain.Balance)
	Invalidate(ctx context.Context, accountID string)
}

// EventPublisher emits ledger events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Service facilitates ledger service layer logic.
//
// cache and publisher may be nil, in which case caching and event publishing
// are skipped. Both are side channels: the store alone decides every outcome.
type Service struct {
	balances  BalanceStore
	txlog     TransactionLog
	cache     BalanceCache
	publisher EventPublisher
	clock     clockpkg.Clock
}

// New returns a ledger service struct to manage ledger business logic.
func New(balances BalanceStore, txlog TransactionLog, cache BalanceCache, publisher EventPublisher, clock clockpkg.Clock) *Service {
	return &Service{
		balances:  balances,
		txlog:     txlog,
		cache:     cache,
		publisher: publisher,
		clock:     clock,
	}
}

// CreateAccount provisions a balance record with the given opening amount.
func (s *Service) CreateAccount(ctx context.Context, accountID, opening string) (domain.Balance, error) {
	l := zerolog.Ctx(ctx)

	if accountID == "" {
		return domain.Balance{}, domain.ErrAccountIDRequired
	}

	amount, err := decimal.NewFromString(opening)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Balance{}, domain.ErrInvalidAmount
	}

	if amount.IsNegative() {
		return domain.Balance{}, domain.ErrNegativeOpeningBalance
	}

	b, err := s.balances.Create(ctx, accountID, amount)
	if err != nil {
		return domain.Balance{}, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, b)
	}

	return b, nil
}

// GetBalance returns the current balance of the account, serving cached reads
// when a cache is configured.
func (s *Service) GetBalance(ctx context.Context, accountID string) (domain.Balance, error) {
	if accountID == "" {
		return domain.Balance{}, domain.ErrAccountIDRequired
	}

	if s.cache != nil {
		if b, ok := s.cache.Get(ctx, accountID); ok {
			return b, nil
		}
	}

	b, err := s.balances.Get(ctx, accountID)
	if err != nil {
		return domain.Balance{}, err
	}

	// This fill can land after a concurrent debit's Invalidate and pin a
	// stale amount until the TTL expires. The store stays authoritative.
	if s.cache != nil {
		s.cache.Set(ctx, b)
	}

	return b, nil
}

// Debit verifies sufficient funds and subtracts amount from the account's
// balance in a single conditional store update, then returns the new balance.
// Failed debits leave the balance untouched and carry the available and
// requested amounts for reporting.
func (s *Service) Debit(ctx context.Context, accountID, amount string) (domain.Balance, error) {
	l := zerolog.Ctx(ctx)

	if accountID == "" {
		return domain.Balance{}, domain.ErrAccountIDRequired
	}

	requested, err := parsePositiveAmount(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Balance{}, err
	}

	b, err := s.balances.ConditionalDebit(ctx, accountID, requested)
	if err != nil {
		return domain.Balance{}, err
	}

	// Concurrent debits can land cache writes out of order, so drop the
	// entry instead of refreshing it.
	if s.cache != nil {
		s.cache.Invalidate(ctx, accountID)
	}

	s.publish(ctx, events.KeyBalanceDebited, events.BalanceDebited{
		AccountID:  b.AccountID,
		Amount:     requested,
		NewBalance: b.Amount,
		OccurredAt: s.clock.Now(),
	})

	return b, nil
}

// RecordTransaction appends a new transaction to the account's log.
//
// The sequence id is always allocated server-side from the store's atomic
// counter; a client-supplied id is logged as a hint and otherwise ignored.
// A duplicate key on append triggers one fresh allocation; a second duplicate
// fails with ErrSequenceConflict.
func (s *Service) RecordTransaction(ctx context.Context, accountID string, arg domain.RecordTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if accountID == "" {
		return domain.Transaction{}, domain.ErrAccountIDRequired
	}

	amount, err := parsePositiveAmount(arg.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	if arg.Counterparty == "" {
		return domain.Transaction{}, domain.ErrCounterpartyRequired
	}

	if arg.Detail == "" {
		return domain.Transaction{}, domain.ErrDetailRequired
	}

	if arg.ClientSequenceID != 0 {
		l.Info().Int64("client_sequence_id", arg.ClientSequenceID).Msg("ignoring client supplied sequence id")
	}

	seq, err := s.txlog.NextSequenceID(ctx, accountID)
	if err != nil {
		return domain.Transaction{}, err
	}

	tx := domain.Transaction{
		AccountID:    accountID,
		SequenceID:   seq,
		Amount:       amount,
		Counterparty: arg.Counterparty,
		Detail:       arg.Detail,
		Kind:         domain.KindSinpeMovil,
		OccurredAt:   s.clock.Now(),
	}

	persisted, err := s.txlog.Append(ctx, tx)
	if errors.Is(err, domain.ErrDuplicateSequenceID) {
		l.Warn().Int64("sequence_id", tx.SequenceID).Msg("sequence id collision, reallocating")

		tx.SequenceID, err = s.txlog.NextSequenceID(ctx, accountID)
		if err != nil {
			return domain.Transaction{}, err
		}

		persisted, err = s.txlog.Append(ctx, tx)
		if errors.Is(err, domain.ErrDuplicateSequenceID) {
			return domain.Transaction{}, domain.ErrSequenceConflict
		}
	}

	if err != nil {
		return domain.Transaction{}, err
	}

	s.publish(ctx, events.KeyTransactionRecorded, events.TransactionRecorded{
		AccountID:    persisted.AccountID,
		SequenceID:   persisted.SequenceID,
		Amount:       persisted.Amount,
		Counterparty: persisted.Counterparty,
		OccurredAt:   persisted.OccurredAt,
	})

	return persisted, nil
}

// History returns the account's transactions newest first. An account with no
// transactions yields an empty list, which is a valid success outcome.
func (s *Service) History(ctx context.Context, accountID string, limit int32) ([]domain.Transaction, error) {
	if accountID == "" {
		return nil, domain.ErrAccountIDRequired
	}

	items, err := s.txlog.ListRecent(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}

	// Render stored instants in the configured zone so the serialized offset
	// is stable regardless of what the store returned.
	loc := s.clock.Now().Location()
	for i := range items {
		items[i].OccurredAt = items[i].OccurredAt.In(loc)
	}

	return items, nil
}

func (s *Service) publish(ctx context.Context, key string, event any) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, key, event); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("event", key).Msg("event publish failed")
	}
}

func parsePositiveAmount(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}

	if !d.IsPositive() {
		return decimal.Decimal{}, domain.ErrNonPositiveAmount
	}

	return d, nil
}
