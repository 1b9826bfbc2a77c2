package test

import (
	"time"

	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/pkg/randompkg"
)

// RandomAccount returns random active account owned by the given client.
func RandomAccount(ownerID int64) domain.Account {
	return domain.Account{
		Number:    randompkg.AccountNumber(),
		Type:      domain.AccountType(randompkg.AccountType()),
		Balance:   randompkg.MoneyAmountBetween(1000, 10_000),
		Active:    true,
		OwnerID:   ownerID,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}
