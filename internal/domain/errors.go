package domain

import (
	"errors"

	"github.com/go-petr/bank-ledger/pkg/errorspkg"
)

// ErrorKind is the machine-readable name of a failure.
type ErrorKind string

// Failure kinds reported to API clients.
const (
	KindAccountNotFound      ErrorKind = "AccountNotFound"
	KindDuplicateAccount     ErrorKind = "DuplicateAccount"
	KindInvalidAccountType   ErrorKind = "InvalidAccountType"
	KindInsufficientFunds    ErrorKind = "InsufficientFunds"
	KindInvalidAmount        ErrorKind = "InvalidAmount"
	KindInvalidDateRange     ErrorKind = "InvalidDateRange"
	KindDuplicateMovement    ErrorKind = "DuplicateMovement"
	KindClientNotFound       ErrorKind = "ClientNotFound"
	KindDirectoryUnavailable ErrorKind = "DirectoryUnavailable"
	KindValidation           ErrorKind = "ValidationFailure"
	KindPersistenceFailure   ErrorKind = "PersistenceFailure"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrAccountNotFound, KindAccountNotFound},
	{ErrDuplicateAccount, KindDuplicateAccount},
	{ErrInvalidAccountType, KindInvalidAccountType},
	{ErrInsufficientFunds, KindInsufficientFunds},
	{ErrInvalidAmount, KindInvalidAmount},
	{ErrInvalidDateRange, KindInvalidDateRange},
	{ErrDuplicateMovement, KindDuplicateMovement},
	{ErrClientNotFound, KindClientNotFound},
	{ErrDirectoryUnavailable, KindDirectoryUnavailable},
	{errorspkg.ErrInternal, KindPersistenceFailure},
}

// ErrorKindOf classifies err. Unknown errors are reported as persistence failures.
func ErrorKindOf(err error) ErrorKind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}

	return KindPersistenceFailure
}

// SentinelOf returns the sentinel error of kind, or nil for kinds without one.
func SentinelOf(kind ErrorKind) error {
	for _, k := range kinds {
		if k.kind == kind {
			return k.err
		}
	}

	return nil
}
