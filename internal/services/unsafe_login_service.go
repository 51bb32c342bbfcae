package services

import (
	"context"

	"github.com/vytor/loginlab/internal/demo"
	"github.com/vytor/loginlab/internal/errors"
	"github.com/vytor/loginlab/internal/logger"
	"github.com/vytor/loginlab/internal/metrics"
	"github.com/vytor/loginlab/internal/models"
	"github.com/vytor/loginlab/internal/repository"
)

// UnsafeLoginService runs the deliberately vulnerable login demo
type UnsafeLoginService interface {
	Evaluate(ctx context.Context, username, password string) (demo.Result, error)
	Accounts(ctx context.Context) ([]models.UnsafeAccount, error)
}

type unsafeLoginService struct {
	accountRepo repository.AccountRepository
}

// NewUnsafeLoginService creates a new UnsafeLoginService
func NewUnsafeLoginService(accountRepo repository.AccountRepository) UnsafeLoginService {
	return &unsafeLoginService{accountRepo: accountRepo}
}

func (s *unsafeLoginService) Evaluate(ctx context.Context, username, password string) (demo.Result, error) {
	log := logger.FromContext(ctx)

	accounts, err := s.Accounts(ctx)
	if err != nil {
		return demo.Result{}, err
	}

	table := make([]demo.Account, 0, len(accounts))
	for _, a := range accounts {
		table = append(table, demo.Account{Username: a.Username, Password: a.Password})
	}

	res := demo.EvaluateUnsafe(table, username, password)
	metrics.LoginEvaluations.WithLabelValues("unsafe", string(res.Outcome)).Inc()
	log.Debug("unsafe login evaluated: outcome=%s", res.Outcome)
	return res, nil
}

// Accounts returns the plaintext table shown on the page.
func (s *unsafeLoginService) Accounts(ctx context.Context) ([]models.UnsafeAccount, error) {
	accounts, err := s.accountRepo.UnsafeAccounts(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load unsafe accounts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return accounts, nil
}
