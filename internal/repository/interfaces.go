package repository

import (
	"context"
	"time"

	"github.com/vytor/loginlab/internal/models"
)

// AccountRepository handles the demo account tables
type AccountRepository interface {
	UnsafeAccounts(ctx context.Context) ([]models.UnsafeAccount, error)
	FindSafeAccount(ctx context.Context, username string) (*models.SafeAccount, error)
	SeedUnsafe(ctx context.Context, accounts []models.UnsafeAccount) error
	SeedSafe(ctx context.Context, username string, passwordHash []byte) error
}

// AttemptRepository handles the safe demo's login attempt journal
type AttemptRepository interface {
	Record(ctx context.Context, attempt models.LoginAttempt) (int64, error)
	Count(ctx context.Context, viewID string) (int, error)
	DeleteByView(ctx context.Context, viewIDs ...string) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
