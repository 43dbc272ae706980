package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound indicates that no balance record exists for the account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists indicates that the account has already been provisioned.
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrAccountIDRequired indicates that the account identifier is missing.
	ErrAccountIDRequired = errors.New("account id is required")
	// ErrInvalidAmount indicates that the amount is not a valid decimal number.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNonPositiveAmount indicates that the amount is zero or negative.
	ErrNonPositiveAmount = errors.New("amount must be positive")
	// ErrNegativeOpeningBalance indicates that the opening balance is negative.
	ErrNegativeOpeningBalance = errors.New("opening balance must not be negative")
	// ErrCounterpartyRequired indicates that the counterparty name is missing.
	ErrCounterpartyRequired = errors.New("counterparty is required")
	// ErrDetailRequired indicates that the transaction detail is missing.
	ErrDetailRequired = errors.New("detail is required")
	// ErrInsufficientFunds indicates that the debit exceeds the available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrDuplicateSequenceID indicates that a transaction with the same
	// (account, sequence) key has already been appended.
	ErrDuplicateSequenceID = errors.New("duplicate sequence id")
	// ErrSequenceConflict indicates that sequence generation collided twice in a row.
	ErrSequenceConflict = errors.New("sequence id conflict")
)

// InsufficientFundsError carries the amounts needed to report a rejected debit.
// It matches ErrInsufficientFunds under errors.Is.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s, requested %s", e.Available, e.Requested)
}

// Is reports whether target is ErrInsufficientFunds.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}
