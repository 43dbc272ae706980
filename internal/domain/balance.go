// Package domain provides definitions of all entities.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance holds the current funds of an account.
//
// Amount never drops below zero: it is mutated only by conditional debits
// that verify sufficient funds in the same store operation.
type Balance struct {
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updated_at"`
}
