package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/loginlab/internal/logger"
	"github.com/vytor/loginlab/internal/models"
	"github.com/vytor/loginlab/internal/repository"
)

type attemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new AttemptRepository implementation
func NewAttemptRepository(db *sql.DB) repository.AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Record(ctx context.Context, a models.LoginAttempt) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")

	if a.AttemptedAt.IsZero() {
		a.AttemptedAt = time.Now()
	}
	query, args, err := sqlBuilder.Insert("login_attempts").
		Columns("view_id", "username", "success", "simulated", "attempted_at").
		Values(a.ViewID, a.Username, a.Success, a.Simulated, a.AttemptedAt.UTC()).
		ToSql()
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to record attempt: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	log.Debug("attempt recorded: id=%d view=%s simulated=%t", id, a.ViewID, a.Simulated)
	return id, nil
}

func (r *attemptRepository) Count(ctx context.Context, viewID string) (int, error) {
	query, args, err := sqlBuilder.Select("COUNT(*)").
		From("login_attempts").
		Where(squirrel.Eq{"view_id": viewID}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		logger.FromContext(ctx).WithPrefix("attempt_repo").Error("failed to count attempts: %v", err)
		return 0, err
	}
	return n, nil
}

// DeleteByView removes the journal of the given views.
func (r *attemptRepository) DeleteByView(ctx context.Context, viewIDs ...string) (int64, error) {
	if len(viewIDs) == 0 {
		return 0, nil
	}
	query, args, err := sqlBuilder.Delete("login_attempts").
		Where(squirrel.Eq{"view_id": viewIDs}).
		ToSql()
	if err != nil {
		return 0, err
	}
	return r.exec(ctx, query, args)
}

func (r *attemptRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := sqlBuilder.Delete("login_attempts").
		Where(squirrel.Lt{"attempted_at": cutoff.UTC()}).
		ToSql()
	if err != nil {
		return 0, err
	}
	return r.exec(ctx, query, args)
}

func (r *attemptRepository) exec(ctx context.Context, query string, args []interface{}) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete attempts: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Debug("deleted %d attempts", n)
	return n, nil
}
