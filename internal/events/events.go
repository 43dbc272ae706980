// Package events defines the ledger events published to downstream consumers.
package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event keys identify the payload type in the published message.
const (
	KeyBalanceDebited      = "balance.debited"
	KeyTransactionRecorded = "transaction.recorded"
)

// BalanceDebited is emitted after a successful debit.
type BalanceDebited struct {
	AccountID  string          `json:"account_id"`
	Amount     decimal.Decimal `json:"amount"`
	NewBalance decimal.Decimal `json:"new_balance"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// TransactionRecorded is emitted after a transaction is appended to the log.
type TransactionRecorded struct {
	AccountID    string          `json:"account_id"`
	SequenceID   int64           `json:"sequence_id"`
	Amount       decimal.Decimal `json:"amount"`
	Counterparty string          `json:"counterparty"`
	OccurredAt   time.Time       `json:"occurred_at"`
}
