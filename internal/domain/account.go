// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateAccount indicates that an account with the given number already exists.
	ErrDuplicateAccount = errors.New("account number already exists")
	// ErrInvalidAccountType indicates that the account type is neither SAVINGS nor CHECKING.
	ErrInvalidAccountType = errors.New("account type must be SAVINGS or CHECKING")
)

// AccountType is the kind of bank account.
type AccountType string

// Supported account types.
const (
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypeChecking AccountType = "CHECKING"
)

// Valid reports whether t is a supported account type.
func (t AccountType) Valid() bool {
	return t == AccountTypeSavings || t == AccountTypeChecking
}

// Account holds the balance of a client's bank account.
//
// Balance always equals the initial balance plus the values of all movements
// recorded against the account.
type Account struct {
	Number    int64           `json:"number"`
	Type      AccountType     `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	Active    bool            `json:"active"`
	OwnerID   int64           `json:"owner_id"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateAccountParams is the input data to open an account.
type CreateAccountParams struct {
	Number         int64
	Type           AccountType
	InitialBalance decimal.Decimal
	Active         bool
	NationalID     string
}

// UpdateAccountParams holds the account fields that may change after creation.
// Nil fields are left untouched.
type UpdateAccountParams struct {
	Type   *AccountType
	Active *bool
}
