// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/go-petr/bank-ledger/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Exists(ctx context.Context, number int64) (bool, error)
	Create(ctx context.Context, arg domain.Account) (domain.Account, error)
	Get(ctx context.Context, number int64) (domain.Account, error)
	Update(ctx context.Context, number int64, arg domain.UpdateAccountParams) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
}

// Directory resolves the owner of a new account.
type Directory interface {
	ResolveClientID(ctx context.Context, nationalID string) (int64, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo      Repo
	directory Directory
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo, d Directory) *Service {
	return &Service{
		repo:      ar,
		directory: d,
	}
}

// Create opens an account owned by the client with the given national id.
func (s *Service) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	exists, err := s.repo.Exists(ctx, arg.Number)
	if err != nil {
		return domain.Account{}, err
	}

	if exists {
		l.Info().Int64("account_number", arg.Number).Msg("account already exists")
		return domain.Account{}, domain.ErrDuplicateAccount
	}

	if !arg.Type.Valid() {
		return domain.Account{}, domain.ErrInvalidAccountType
	}

	if arg.InitialBalance.IsNegative() {
		return domain.Account{}, domain.ErrInvalidAmount
	}

	ownerID, err := s.directory.ResolveClientID(ctx, arg.NationalID)
	if err != nil {
		l.Info().Err(err).Int64("account_number", arg.Number).Send()
		return domain.Account{}, err
	}

	account, err := s.repo.Create(ctx, domain.Account{
		Number:  arg.Number,
		Type:    arg.Type,
		Balance: arg.InitialBalance,
		Active:  arg.Active,
		OwnerID: ownerID,
	})
	if err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// Get returns account for the given account number.
func (s *Service) Get(ctx context.Context, number int64) (domain.Account, error) {
	account, err := s.repo.Get(ctx, number)
	if err != nil {
		return account, err
	}

	return account, nil
}

// List returns all accounts ordered by number.
func (s *Service) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// Update changes the type and status of the account. Balance and owner never change.
func (s *Service) Update(ctx context.Context, number int64, arg domain.UpdateAccountParams) (domain.Account, error) {
	if arg.Type != nil && !arg.Type.Valid() {
		return domain.Account{}, domain.ErrInvalidAccountType
	}

	account, err := s.repo.Update(ctx, number, arg)
	if err != nil {
		return domain.Account{}, err
	}

	return account, nil
}
