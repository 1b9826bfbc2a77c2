package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/bank-ledger/pkg/moneypkg"
)

var (
	// ErrInsufficientFunds indicates that the movement would leave the account with a negative balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidAmount indicates an amount that cannot be applied.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrDuplicateMovement indicates that a movement with the same id was already recorded.
	ErrDuplicateMovement = errors.New("movement already recorded")
	// ErrInvalidDateRange indicates a report range whose start is after its end.
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)

// MovementKind tells deposits from withdrawals.
type MovementKind string

// Movement kinds.
const (
	MovementDeposit    MovementKind = "DEPOSIT"
	MovementWithdrawal MovementKind = "WITHDRAWAL"
)

// KindOf returns the movement kind implied by the sign of value.
func KindOf(value decimal.Decimal) MovementKind {
	if value.IsPositive() {
		return MovementDeposit
	}

	return MovementWithdrawal
}

// Movement is an immutable deposit or withdrawal applied to an account.
type Movement struct {
	ID               uuid.UUID       `json:"id"`
	Date             Date            `json:"date"`
	Value            decimal.Decimal `json:"value"` // positive for deposits, negative for withdrawals
	ResultingBalance decimal.Decimal `json:"resulting_balance"`
	AccountNumber    int64           `json:"account_number"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Kind is derived from the movement value.
func (m Movement) Kind() MovementKind {
	return KindOf(m.Value)
}

// MarshalJSON adds the derived kind to the encoded movement.
func (m Movement) MarshalJSON() ([]byte, error) {
	type movement Movement

	return json.Marshal(struct {
		movement
		Kind MovementKind `json:"kind"`
	}{
		movement: movement(m),
		Kind:     m.Kind(),
	})
}

// RecordMovementParams is the input data to record a movement.
type RecordMovementParams struct {
	ID            uuid.UUID
	AccountNumber int64
	Date          Date
	Value         decimal.Decimal
}

// ApplyMovement applies arg to the current state of account.
//
// It returns the movement to persist, whose ResultingBalance is the new account
// balance, ErrInsufficientFunds when the balance would become negative, or
// ErrInvalidAmount when it would exceed the stored precision.
func ApplyMovement(account Account, arg RecordMovementParams) (Movement, error) {
	newBalance := account.Balance.Add(arg.Value)
	if newBalance.IsNegative() {
		return Movement{}, ErrInsufficientFunds
	}

	if !moneypkg.WithinPrecision(newBalance) {
		return Movement{}, ErrInvalidAmount
	}

	return Movement{
		ID:               arg.ID,
		Date:             arg.Date,
		Value:            arg.Value,
		ResultingBalance: newBalance,
		AccountNumber:    account.Number,
	}, nil
}
