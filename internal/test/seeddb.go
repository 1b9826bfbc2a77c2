// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/bank-ledger/internal/accountrepo"
	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/internal/movementrepo"
	"github.com/go-petr/bank-ledger/pkg/dbpkg"
)

// SeedAccount creates Account with the given balance inside a test transaction.
func SeedAccount(t *testing.T, tx dbpkg.SQLInterface, number int64, balance string, ownerID int64) domain.Account {
	t.Helper()

	arg := RandomAccount(ownerID)
	arg.Number = number
	arg.Balance = decimal.RequireFromString(balance)

	account, err := accountrepo.NewRepoPGS(tx).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("accountRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return account
}

// SeedMovement inserts a movement of value on the given account and moves its balance.
func SeedMovement(t *testing.T, tx dbpkg.SQLInterface, account domain.Account, date domain.Date, value string) domain.Movement {
	t.Helper()

	ctx := context.Background()

	arg := domain.RecordMovementParams{
		ID:            uuid.New(),
		AccountNumber: account.Number,
		Date:          date,
		Value:         decimal.RequireFromString(value),
	}

	current, err := accountrepo.NewRepoPGS(tx).Get(ctx, account.Number)
	if err != nil {
		t.Fatalf("accountRepo.Get(context.Background(), %v) returned error: %v", account.Number, err)
	}

	m, err := domain.ApplyMovement(current, arg)
	if err != nil {
		t.Fatalf("domain.ApplyMovement(%+v, %+v) returned error: %v", current, arg, err)
	}

	if _, err := accountrepo.NewRepoPGS(tx).SetBalance(ctx, account.Number, m.ResultingBalance); err != nil {
		t.Fatalf("accountRepo.SetBalance(context.Background(), %v, %v) returned error: %v",
			account.Number, m.ResultingBalance, err)
	}

	m, err = movementrepo.NewTxRepoPGS(tx).Create(ctx, m)
	if err != nil {
		t.Fatalf("movementRepo.Create(context.Background(), %+v) returned error: %v", m, err)
	}

	return m
}
