package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/loginlab/internal/models"
)

// MockAccountRepository is a mock implementation of repository.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) UnsafeAccounts(ctx context.Context) ([]models.UnsafeAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UnsafeAccount), args.Error(1)
}

func (m *MockAccountRepository) FindSafeAccount(ctx context.Context, username string) (*models.SafeAccount, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SafeAccount), args.Error(1)
}

func (m *MockAccountRepository) SeedUnsafe(ctx context.Context, accounts []models.UnsafeAccount) error {
	args := m.Called(ctx, accounts)
	return args.Error(0)
}

func (m *MockAccountRepository) SeedSafe(ctx context.Context, username string, passwordHash []byte) error {
	args := m.Called(ctx, username, passwordHash)
	return args.Error(0)
}
