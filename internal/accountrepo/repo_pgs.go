// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/pkg/dbpkg"
	"github.com/go-petr/bank-ledger/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.Number,
		&a.Type,
		&a.Balance,
		&a.Active,
		&a.OwnerID,
		&a.CreatedAt,
	)

	return a, err
}

// mapError logs err and translates it into a domain error.
func mapError(l *zerolog.Logger, err error) error {
	l.Error().Err(err).Send()

	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrAccountNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "accounts_pkey":
			return domain.ErrDuplicateAccount
		case "accounts_balance_check":
			return domain.ErrInsufficientFunds
		case "accounts_type_check":
			return domain.ErrInvalidAccountType
		}
	}

	return errorspkg.ErrInternal
}

const existsQuery = `
SELECT EXISTS (SELECT 1 FROM accounts WHERE number = $1)
`

// Exists reports whether an account with the given number exists.
func (r *RepoPGS) Exists(ctx context.Context, number int64) (bool, error) {
	l := zerolog.Ctx(ctx)

	var exists bool
	if err := r.db.QueryRowContext(ctx, existsQuery, number).Scan(&exists); err != nil {
		l.Error().Err(err).Send()
		return false, errorspkg.ErrInternal
	}

	return exists, nil
}

const createQuery = `
INSERT INTO
    accounts (number, type, balance, active, owner_id)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING number, type, balance, active, owner_id, created_at
`

// Create creates the account and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.Account) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Number,
		arg.Type,
		arg.Balance,
		arg.Active,
		arg.OwnerID,
	)

	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapError(l, err)
	}

	return a, nil
}

const getQuery = `
SELECT
	number, type, balance, active, owner_id, created_at
FROM accounts
WHERE number = $1
`

// Get returns the account with the given number.
func (r *RepoPGS) Get(ctx context.Context, number int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, getQuery, number))
	if err != nil {
		return domain.Account{}, mapError(l, err)
	}

	return a, nil
}

const getForUpdateQuery = getQuery + `FOR UPDATE
`

// GetForUpdate returns the account with the given number and locks its row
// until the surrounding transaction ends.
func (r *RepoPGS) GetForUpdate(ctx context.Context, number int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, getForUpdateQuery, number))
	if err != nil {
		return domain.Account{}, mapError(l, err)
	}

	return a, nil
}

const updateQuery = `
UPDATE accounts
SET type = COALESCE($2, type),
    active = COALESCE($3, active)
WHERE number = $1
RETURNING number, type, balance, active, owner_id, created_at
`

// Update changes the account type and status fields that are set in arg.
// Balance and owner are never written.
func (r *RepoPGS) Update(ctx context.Context, number int64, arg domain.UpdateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var accountType, active any
	if arg.Type != nil {
		accountType = string(*arg.Type)
	}

	if arg.Active != nil {
		active = *arg.Active
	}

	a, err := scanAccount(r.db.QueryRowContext(ctx, updateQuery, number, accountType, active))
	if err != nil {
		return domain.Account{}, mapError(l, err)
	}

	return a, nil
}

const setBalanceQuery = `
UPDATE accounts
SET balance = $2
WHERE number = $1
RETURNING number, type, balance, active, owner_id, created_at
`

// SetBalance stores the new balance of the account and returns the changed account.
func (r *RepoPGS) SetBalance(ctx context.Context, number int64, balance decimal.Decimal) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, setBalanceQuery, number, balance))
	if err != nil {
		return domain.Account{}, mapError(l, err)
	}

	return a, nil
}

const listQuery = `
SELECT
	number, type, balance, active, owner_id, created_at
FROM accounts
ORDER BY number
`

// List returns all accounts.
func (r *RepoPGS) List(ctx context.Context) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
