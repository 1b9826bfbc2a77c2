// Package memstore provides in-memory account and movement repositories.
//
// It backs the service when DB_DRIVER is "memory" and serves as a fast fake in tests.
// Every returned entity is a copy, so callers never alias internal state.
package memstore

import (
	"context"
	"iter"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/bank-ledger/internal/domain"
)

// Store holds accounts and their movements.
type Store struct {
	mu        sync.RWMutex
	accounts  map[int64]*domain.Account
	movements map[int64][]domain.Movement
	ids       map[string]struct{}
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		accounts:  make(map[int64]*domain.Account),
		movements: make(map[int64][]domain.Movement),
		ids:       make(map[string]struct{}),
	}
}

// Accounts returns the account repository view of the store.
func (s *Store) Accounts() *AccountRepo {
	return &AccountRepo{s: s}
}

// Movements returns the movement repository view of the store.
func (s *Store) Movements() *MovementRepo {
	return &MovementRepo{s: s}
}

// AccountRepo implements the account repository on a Store.
type AccountRepo struct {
	s *Store
}

// Exists reports whether an account with the given number exists.
func (r *AccountRepo) Exists(ctx context.Context, number int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.accounts[number]

	return ok, nil
}

// Create stores a new account.
func (r *AccountRepo) Create(ctx context.Context, arg domain.Account) (domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[arg.Number]; ok {
		zerolog.Ctx(ctx).Info().Int64("account_number", arg.Number).Msg("duplicate account")
		return domain.Account{}, domain.ErrDuplicateAccount
	}

	if !arg.Type.Valid() {
		return domain.Account{}, domain.ErrInvalidAccountType
	}

	if arg.Balance.IsNegative() {
		return domain.Account{}, domain.ErrInsufficientFunds
	}

	a := arg
	a.CreatedAt = time.Now().UTC()
	r.s.accounts[a.Number] = &a

	return a, nil
}

// Get returns the account with the given number.
func (r *AccountRepo) Get(ctx context.Context, number int64) (domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.accounts[number]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return *a, nil
}

// Update changes the account type and status fields that are set in arg.
func (r *AccountRepo) Update(ctx context.Context, number int64, arg domain.UpdateAccountParams) (domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.accounts[number]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	if arg.Type != nil {
		if !arg.Type.Valid() {
			return domain.Account{}, domain.ErrInvalidAccountType
		}
		a.Type = *arg.Type
	}

	if arg.Active != nil {
		a.Active = *arg.Active
	}

	return *a, nil
}

// List returns all accounts ordered by number.
func (r *AccountRepo) List(ctx context.Context) ([]domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]domain.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		items = append(items, *a)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Number < items[j].Number })

	return items, nil
}

// MovementRepo implements the movement repository on a Store.
type MovementRepo struct {
	s *Store
}

// Record applies a movement to its account.
//
// The balance read, the balance update and the movement append happen under
// one write lock, so records are serialized and readers see both writes or neither.
func (r *MovementRepo) Record(ctx context.Context, arg domain.RecordMovementParams) (domain.Movement, error) {
	if err := ctx.Err(); err != nil {
		return domain.Movement{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.accounts[arg.AccountNumber]
	if !ok {
		return domain.Movement{}, domain.ErrAccountNotFound
	}

	if _, dup := r.s.ids[arg.ID.String()]; dup {
		return domain.Movement{}, domain.ErrDuplicateMovement
	}

	m, err := domain.ApplyMovement(*a, arg)
	if err != nil {
		return domain.Movement{}, err
	}

	m.CreatedAt = time.Now().UTC()

	a.Balance = m.ResultingBalance
	r.s.movements[a.Number] = append(r.s.movements[a.Number], m)
	r.s.ids[m.ID.String()] = struct{}{}

	return m, nil
}

// ListByAccount returns a lazy sequence over the account movements in insertion order.
// Movements recorded after iteration starts are not included.
func (r *MovementRepo) ListByAccount(ctx context.Context, number int64) iter.Seq2[domain.Movement, error] {
	return func(yield func(domain.Movement, error) bool) {
		r.s.mu.RLock()
		snapshot := r.s.movements[number]
		r.s.mu.RUnlock()

		for _, m := range snapshot {
			if err := ctx.Err(); err != nil {
				yield(domain.Movement{}, err)
				return
			}

			if !yield(m, nil) {
				return
			}
		}
	}
}

// ListByRange returns the account movements dated within [start, end] in insertion order.
func (r *MovementRepo) ListByRange(ctx context.Context, number int64, start, end domain.Date) ([]domain.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := []domain.Movement{}

	for _, m := range r.s.movements[number] {
		if m.Date.Before(start) || m.Date.After(end) {
			continue
		}

		items = append(items, m)
	}

	return items, nil
}
