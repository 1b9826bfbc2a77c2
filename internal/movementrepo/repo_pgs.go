// Package movementrepo manages repository layer of movements.
package movementrepo

import (
	"context"
	"database/sql"
	"errors"
	"iter"

	"github.com/go-petr/bank-ledger/internal/accountrepo"
	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/pkg/dbpkg"
	"github.com/go-petr/bank-ledger/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates movement repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns movement RepoPGS bound to an open transaction.
// Record is not available on it.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns movement RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMovement(row scanner) (domain.Movement, error) {
	var m domain.Movement

	err := row.Scan(
		&m.ID,
		&m.AccountNumber,
		&m.Date,
		&m.Value,
		&m.ResultingBalance,
		&m.CreatedAt,
	)

	return m, err
}

const createQuery = `
INSERT INTO
    movements (id, account_number, date, value, resulting_balance)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING id, account_number, date, value, resulting_balance, created_at
`

// Create inserts the movement and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.Movement) (domain.Movement, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.ID,
		arg.AccountNumber,
		arg.Date,
		arg.Value,
		arg.ResultingBalance,
	)

	m, err := scanMovement(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", arg)

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Constraint {
			case "movements_pkey":
				return domain.Movement{}, domain.ErrDuplicateMovement
			case "movements_account_number_fkey":
				return domain.Movement{}, domain.ErrAccountNotFound
			case "movements_resulting_balance_check":
				return domain.Movement{}, domain.ErrInsufficientFunds
			}
		}

		return domain.Movement{}, errorspkg.ErrInternal
	}

	return m, nil
}

const listByAccountQuery = `
SELECT
	id, account_number, date, value, resulting_balance, created_at
FROM movements
WHERE account_number = $1
ORDER BY seq
`

// ListByAccount returns a lazy sequence over the account movements in storage order.
//
// The query runs when iteration starts and the cursor is released when it stops.
// A failure is yielded once as the last element.
func (r *RepoPGS) ListByAccount(ctx context.Context, number int64) iter.Seq2[domain.Movement, error] {
	return func(yield func(domain.Movement, error) bool) {
		l := zerolog.Ctx(ctx)

		rows, err := r.db.QueryContext(ctx, listByAccountQuery, number)
		if err != nil {
			l.Error().Err(err).Send()
			yield(domain.Movement{}, errorspkg.ErrInternal)

			return
		}
		defer rows.Close()

		for rows.Next() {
			m, err := scanMovement(rows)
			if err != nil {
				l.Error().Err(err).Send()
				yield(domain.Movement{}, errorspkg.ErrInternal)

				return
			}

			if !yield(m, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			l.Error().Err(err).Send()
			yield(domain.Movement{}, errorspkg.ErrInternal)
		}
	}
}

const listByRangeQuery = `
SELECT
	id, account_number, date, value, resulting_balance, created_at
FROM movements
WHERE account_number = $1 AND date BETWEEN $2 AND $3
ORDER BY seq
`

// ListByRange returns the account movements dated within [start, end] in storage order.
func (r *RepoPGS) ListByRange(ctx context.Context, number int64, start, end domain.Date) ([]domain.Movement, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByRangeQuery, number, start, end)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Movement{}

	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, m)
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

// Record applies a movement to its account.
//
// It locks the account row, recomputes the balance from the locked state,
// stores the new balance and inserts the movement within a single db transaction.
func (r *RepoPGS) Record(ctx context.Context, arg domain.RecordMovementParams) (domain.Movement, error) {
	l := zerolog.Ctx(ctx)

	if r.conn == nil {
		l.Error().Msg("Record called on a transaction bound repository")
		return domain.Movement{}, errorspkg.ErrInternal
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Movement{}, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Send()
		}
	}()

	accountRepo := accountrepo.NewRepoPGS(tx)
	movementRepo := NewTxRepoPGS(tx)

	account, err := accountRepo.GetForUpdate(ctx, arg.AccountNumber)
	if err != nil {
		return domain.Movement{}, err
	}

	movement, err := domain.ApplyMovement(account, arg)
	if err != nil {
		l.Info().Err(err).Int64("account_number", arg.AccountNumber).Send()
		return domain.Movement{}, err
	}

	if _, err := accountRepo.SetBalance(ctx, account.Number, movement.ResultingBalance); err != nil {
		return domain.Movement{}, err
	}

	movement, err = movementRepo.Create(ctx, movement)
	if err != nil {
		return domain.Movement{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.Movement{}, errorspkg.ErrInternal
	}

	return movement, nil
}
