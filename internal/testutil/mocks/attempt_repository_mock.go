package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/loginlab/internal/models"
)

// MockAttemptRepository is a mock implementation of repository.AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Record(ctx context.Context, attempt models.LoginAttempt) (int64, error) {
	args := m.Called(ctx, attempt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAttemptRepository) Count(ctx context.Context, viewID string) (int, error) {
	args := m.Called(ctx, viewID)
	return args.Int(0), args.Error(1)
}

func (m *MockAttemptRepository) DeleteByView(ctx context.Context, viewIDs ...string) (int64, error) {
	args := m.Called(ctx, viewIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAttemptRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
