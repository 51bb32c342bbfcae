package services

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vytor/loginlab/internal/demo"
	"github.com/vytor/loginlab/internal/logger"
	"github.com/vytor/loginlab/internal/models"
	"github.com/vytor/loginlab/internal/repository"
)

// SeedAccounts loads the demo credentials: the plaintext table for the
// unsafe demo and a bcrypt hash for the safe one.
func SeedAccounts(ctx context.Context, repo repository.AccountRepository, bcryptCost int) error {
	log := logger.FromContext(ctx)

	unsafe := make([]models.UnsafeAccount, 0, len(demo.UnsafeAccounts))
	for _, a := range demo.UnsafeAccounts {
		unsafe = append(unsafe, models.UnsafeAccount{Username: a.Username, Password: a.Password})
	}
	if err := repo.SeedUnsafe(ctx, unsafe); err != nil {
		return fmt.Errorf("seed unsafe accounts: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demo.SafePassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash safe password: %w", err)
	}
	if err := repo.SeedSafe(ctx, demo.SafeUsername, hash); err != nil {
		return fmt.Errorf("seed safe account: %w", err)
	}

	log.Info("seeded %d unsafe accounts and 1 safe account", len(unsafe))
	return nil
}
