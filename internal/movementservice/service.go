// Package movementservice manages business logic layer of movements.
package movementservice

import (
	"context"
	"iter"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/pkg/requestid"
)

// Repo provides data access layer interface needed by movement service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package movementservice
type Repo interface {
	Record(ctx context.Context, arg domain.RecordMovementParams) (domain.Movement, error)
	ListByAccount(ctx context.Context, number int64) iter.Seq2[domain.Movement, error]
	ListByRange(ctx context.Context, number int64, start, end domain.Date) ([]domain.Movement, error)
}

// AccountService provides the account lookups needed by movement service layer.
type AccountService interface {
	Get(ctx context.Context, number int64) (domain.Account, error)
}

// Directory resolves client names for reports.
type Directory interface {
	ResolveClientName(ctx context.Context, clientID int64) (string, error)
}

// Service facilitates movement service layer logic.
type Service struct {
	repo           Repo
	accountService AccountService
	directory      Directory
}

// New returns movement service struct to manage movement bussines logic.
func New(mr Repo, as AccountService, d Directory) *Service {
	return &Service{
		repo:           mr,
		accountService: as,
		directory:      d,
	}
}

// Record applies a deposit or withdrawal to the account and returns the stored movement.
//
// Unless arg carries an id, the movement takes the request correlation id from ctx,
// so a replayed request fails with domain.ErrDuplicateMovement.
func (s *Service) Record(ctx context.Context, arg domain.RecordMovementParams) (domain.Movement, error) {
	l := zerolog.Ctx(ctx)

	account, err := s.accountService.Get(ctx, arg.AccountNumber)
	if err != nil {
		l.Info().Err(err).Int64("account_number", arg.AccountNumber).Send()
		return domain.Movement{}, err
	}

	// Rejects an overdraft before opening a transaction. The store applies
	// the same rule again on the locked balance.
	if _, err := domain.ApplyMovement(account, arg); err != nil {
		l.Info().Err(err).
			Int64("account_number", arg.AccountNumber).
			Str("balance", account.Balance.String()).
			Str("value", arg.Value.String()).
			Send()

		return domain.Movement{}, err
	}

	if arg.ID == uuid.Nil {
		arg.ID = requestid.UUID(ctx)
	}

	movement, err := s.repo.Record(ctx, arg)
	if err != nil {
		return domain.Movement{}, err
	}

	return movement, nil
}

// ListByAccount returns the account movements in storage order.
// The sequence is empty when the account has none or does not exist.
func (s *Service) ListByAccount(ctx context.Context, number int64) iter.Seq2[domain.Movement, error] {
	return s.repo.ListByAccount(ctx, number)
}

// Report returns one statement row per movement of the account dated within [start, end].
func (s *Service) Report(ctx context.Context, number int64, start, end domain.Date) ([]domain.ReportRow, error) {
	l := zerolog.Ctx(ctx)

	if start.After(end) {
		return nil, domain.ErrInvalidDateRange
	}

	account, err := s.accountService.Get(ctx, number)
	if err != nil {
		l.Info().Err(err).Int64("account_number", number).Send()
		return nil, err
	}

	movements, err := s.repo.ListByRange(ctx, number, start, end)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.ReportRow, 0, len(movements))
	if len(movements) == 0 {
		return rows, nil
	}

	clientName, err := s.directory.ResolveClientName(ctx, account.OwnerID)
	if err != nil {
		l.Info().Err(err).Int64("owner_id", account.OwnerID).Send()
		return nil, err
	}

	for _, m := range movements {
		rows = append(rows, domain.NewReportRow(account, clientName, m))
	}

	return rows, nil
}
