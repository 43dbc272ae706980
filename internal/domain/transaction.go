package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a transaction. The system records a single kind
// today; the type exists so new kinds can be added without a schema change.
type TransactionKind string

// KindSinpeMovil is the only transaction kind currently recorded.
const KindSinpeMovil TransactionKind = "SINPE móvil"

// Transaction is an immutable ledger record keyed by (AccountID, SequenceID).
//
// SequenceID is allocated server-side from a per-account atomic counter and is
// strictly increasing, never reused. OccurredAt carries an explicit UTC offset.
type Transaction struct {
	AccountID    string          `json:"account_id"`
	SequenceID   int64           `json:"sequence_id"`
	Amount       decimal.Decimal `json:"amount"`
	Counterparty string          `json:"counterparty"`
	Detail       string          `json:"detail"`
	Kind         TransactionKind `json:"kind"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

// RecordTransactionParams carries the caller-supplied fields of a new
// transaction. ClientSequenceID is a hint at most: sequence ids are always
// allocated server-side, so the value is logged and otherwise ignored.
type RecordTransactionParams struct {
	Amount           string
	Counterparty     string
	Detail           string
	ClientSequenceID int64
}
