package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/loginlab/internal/logger"
	"github.com/vytor/loginlab/internal/models"
	"github.com/vytor/loginlab/internal/repository"
)

type accountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new AccountRepository implementation
func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) UnsafeAccounts(ctx context.Context) ([]models.UnsafeAccount, error) {
	log := logger.FromContext(ctx).WithPrefix("account_repo")

	query, args, err := sqlBuilder.Select("id", "username", "password").
		From("unsafe_accounts").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list unsafe accounts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var accounts []models.UnsafeAccount
	for rows.Next() {
		var a models.UnsafeAccount
		if err := rows.Scan(&a.ID, &a.Username, &a.Password); err != nil {
			log.Error("failed to scan account row: %v", err)
			return nil, err
		}
		accounts = append(accounts, a)
	}
	log.Debug("found %d unsafe accounts", len(accounts))
	return accounts, rows.Err()
}

// FindSafeAccount looks the username up with a bound parameter. A missing
// account is (nil, nil).
func (r *accountRepository) FindSafeAccount(ctx context.Context, username string) (*models.SafeAccount, error) {
	log := logger.FromContext(ctx).WithPrefix("account_repo")

	query, args, err := sqlBuilder.Select("id", "username", "password_hash", "created_at").
		From("safe_accounts").
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var a models.SafeAccount
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("safe account not found")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get safe account: %v", err)
		return nil, err
	}
	return &a, nil
}

// SeedUnsafe replaces the plaintext table with accounts.
func (r *accountRepository) SeedUnsafe(ctx context.Context, accounts []models.UnsafeAccount) error {
	log := logger.FromContext(ctx).WithPrefix("account_repo")
	log.Debug("seeding %d unsafe accounts", len(accounts))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM unsafe_accounts`); err != nil {
			return err
		}
		if len(accounts) == 0 {
			return nil
		}
		insert := sqlBuilder.Insert("unsafe_accounts").Columns("username", "password")
		for _, a := range accounts {
			insert = insert.Values(a.Username, a.Password)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query, args...)
		return err
	})
}

func (r *accountRepository) SeedSafe(ctx context.Context, username string, passwordHash []byte) error {
	log := logger.FromContext(ctx).WithPrefix("account_repo")
	log.Debug("seeding safe account: %s", username)

	query, args, err := sqlBuilder.Insert("safe_accounts").
		Columns("username", "password_hash").
		Values(username, passwordHash).
		Suffix("ON CONFLICT(username) DO UPDATE SET password_hash = excluded.password_hash").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to seed safe account: %v", err)
		return err
	}
	return nil
}
