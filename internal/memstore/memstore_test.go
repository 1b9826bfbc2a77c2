package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/pkg/randompkg"
)

func createAccount(t *testing.T, s *Store, balance string) domain.Account {
	t.Helper()

	a, err := s.Accounts().Create(context.Background(), domain.Account{
		Number:  randompkg.AccountNumber(),
		Type:    domain.AccountType(randompkg.AccountType()),
		Balance: decimal.RequireFromString(balance),
		Active:  true,
		OwnerID: randompkg.Int64Between(1, 1_000),
	})
	require.NoError(t, err)

	return a
}

func record(t *testing.T, s *Store, number int64, date domain.Date, value string) (domain.Movement, error) {
	t.Helper()

	return s.Movements().Record(context.Background(), domain.RecordMovementParams{
		ID:            uuid.New(),
		AccountNumber: number,
		Date:          date,
		Value:         decimal.RequireFromString(value),
	})
}

func TestAccountRepo(t *testing.T) {
	s := New()
	repo := s.Accounts()
	ctx := context.Background()

	a := createAccount(t, s, "100")

	exists, err := repo.Exists(ctx, a.Number)
	require.NoError(t, err)
	require.True(t, exists)

	_, err = repo.Create(ctx, a)
	require.ErrorIs(t, err, domain.ErrDuplicateAccount)

	_, err = repo.Create(ctx, domain.Account{Number: a.Number + 1, Type: "GOLD"})
	require.ErrorIs(t, err, domain.ErrInvalidAccountType)

	got, err := repo.Get(ctx, a.Number)
	require.NoError(t, err)
	require.Equal(t, a, got)

	_, err = repo.Get(ctx, a.Number+1)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	inactive := false
	got, err = repo.Update(ctx, a.Number, domain.UpdateAccountParams{Active: &inactive})
	require.NoError(t, err)
	require.False(t, got.Active)
	require.Equal(t, a.Type, got.Type)
	require.True(t, a.Balance.Equal(got.Balance))

	invalid := domain.AccountType("GOLD")
	_, err = repo.Update(ctx, a.Number, domain.UpdateAccountParams{Type: &invalid})
	require.ErrorIs(t, err, domain.ErrInvalidAccountType)
}

func TestListAccounts(t *testing.T) {
	s := New()

	accounts, err := s.Accounts().List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, accounts)
	require.Empty(t, accounts)

	for i := 0; i < 5; i++ {
		createAccount(t, s, "10")
	}

	accounts, err = s.Accounts().List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 5)

	for i := 1; i < len(accounts); i++ {
		require.Less(t, accounts[i-1].Number, accounts[i].Number)
	}
}

func TestRecord(t *testing.T) {
	s := New()
	a := createAccount(t, s, "2000")
	date := domain.NewDate(2022, time.February, 10)

	m, err := record(t, s, a.Number, date, "600")
	require.NoError(t, err)
	require.True(t, m.ResultingBalance.Equal(decimal.NewFromInt(2600)))
	require.Equal(t, domain.MovementDeposit, m.Kind())

	_, err = record(t, s, a.Number, date, "-2600.01")
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	got, err := s.Accounts().Get(context.Background(), a.Number)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(decimal.NewFromInt(2600)))

	_, err = record(t, s, a.Number, date, "999999999999999")
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	got, err = s.Accounts().Get(context.Background(), a.Number)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(decimal.NewFromInt(2600)))

	_, err = record(t, s, a.Number+1, date, "10")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = s.Movements().Record(context.Background(), domain.RecordMovementParams{
		ID:            m.ID,
		AccountNumber: a.Number,
		Date:          date,
		Value:         decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, domain.ErrDuplicateMovement)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Movements().Record(ctx, domain.RecordMovementParams{
		ID:            uuid.New(),
		AccountNumber: a.Number,
		Date:          date,
		Value:         decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, context.Canceled)

	var n int
	for _, err := range s.Movements().ListByAccount(context.Background(), a.Number) {
		require.NoError(t, err)
		n++
	}

	require.Equal(t, 1, n)
}

func TestRecordConcurrent(t *testing.T) {
	s := New()
	a := createAccount(t, s, "1000")
	date := domain.NewDate(2022, time.February, 10)

	n := 50

	var wg sync.WaitGroup

	errs := make(chan error, 2*n)

	for i := 0; i < n; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()

			_, err := record(t, s, a.Number, date, "10")
			errs <- err
		}()

		go func() {
			defer wg.Done()

			_, err := record(t, s, a.Number, date, "-10")
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.Accounts().Get(context.Background(), a.Number)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(decimal.NewFromInt(1000)), got.Balance.String())

	// Each movement continues from the previous resulting balance.
	previous := decimal.NewFromInt(1000)
	count := 0

	for m, err := range s.Movements().ListByAccount(context.Background(), a.Number) {
		require.NoError(t, err)
		require.True(t, m.ResultingBalance.Equal(previous.Add(m.Value)))
		require.False(t, m.ResultingBalance.IsNegative())

		previous = m.ResultingBalance
		count++
	}

	require.Equal(t, 2*n, count)
	require.True(t, previous.Equal(got.Balance))
}

func TestListByAccount(t *testing.T) {
	s := New()
	a := createAccount(t, s, "0")
	date := domain.NewDate(2022, time.February, 10)

	for _, v := range []string{"100", "-25", "50"} {
		_, err := record(t, s, a.Number, date, v)
		require.NoError(t, err)
	}

	t.Run("StorageOrder", func(t *testing.T) {
		var values []string
		for m, err := range s.Movements().ListByAccount(context.Background(), a.Number) {
			require.NoError(t, err)
			values = append(values, m.Value.String())
		}

		require.Equal(t, []string{"100", "-25", "50"}, values)
	})

	t.Run("EarlyStop", func(t *testing.T) {
		var n int
		for range s.Movements().ListByAccount(context.Background(), a.Number) {
			n++
			break
		}

		require.Equal(t, 1, n)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		for range s.Movements().ListByAccount(context.Background(), a.Number+1) {
			t.Fatal("expected empty sequence")
		}
	})

	t.Run("Snapshot", func(t *testing.T) {
		seq := s.Movements().ListByAccount(context.Background(), a.Number)

		var n int
		for range seq {
			if n == 0 {
				_, err := record(t, s, a.Number, date, "1")
				require.NoError(t, err)
			}
			n++
		}

		require.Equal(t, 3, n)
	})
}

func TestListByRange(t *testing.T) {
	s := New()
	a := createAccount(t, s, "2000")

	days := []int{8, 9, 10, 11}
	for _, d := range days {
		_, err := record(t, s, a.Number, domain.NewDate(2022, time.February, d), "1")
		require.NoError(t, err)
	}

	got, err := s.Movements().ListByRange(context.Background(), a.Number,
		domain.NewDate(2022, time.February, 9), domain.NewDate(2022, time.February, 10))
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "2022-02-09", got[0].Date.String())
	require.Equal(t, "2022-02-10", got[1].Date.String())

	got, err = s.Movements().ListByRange(context.Background(), a.Number,
		domain.NewDate(2022, time.March, 1), domain.NewDate(2022, time.March, 31))
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}
