package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/loginlab/internal/models"
	"github.com/vytor/loginlab/internal/repository"
	"github.com/vytor/loginlab/internal/repository/sqlite"
	"github.com/vytor/loginlab/internal/testutil"
)

type AttemptRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.AttemptRepository
}

func (s *AttemptRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewAttemptRepository(s.db)
}

func (s *AttemptRepositorySuite) record(viewID string, at time.Time) {
	_, err := s.repo.Record(context.Background(), models.LoginAttempt{ViewID: viewID, Username: "admin", AttemptedAt: at})
	s.Require().NoError(err)
}

func (s *AttemptRepositorySuite) TestRecordAndCount() {
	ctx := context.Background()

	id, err := s.repo.Record(ctx, models.LoginAttempt{ViewID: "v1", Username: "admin", Success: true})
	s.Require().NoError(err)
	s.Assert().Greater(id, int64(0))
	_, err = s.repo.Record(ctx, models.LoginAttempt{ViewID: "v1", Simulated: true})
	s.Require().NoError(err)
	s.record("v2", time.Now())

	n, err := s.repo.Count(ctx, "v1")
	s.Require().NoError(err)
	s.Assert().Equal(2, n)

	n, err = s.repo.Count(ctx, "unknown")
	s.Require().NoError(err)
	s.Assert().Equal(0, n)
}

func (s *AttemptRepositorySuite) TestDeleteByView() {
	ctx := context.Background()
	s.record("v1", time.Now())
	s.record("v1", time.Now())
	s.record("v2", time.Now())
	s.record("v3", time.Now())

	n, err := s.repo.DeleteByView(ctx, "v1", "v3")
	s.Require().NoError(err)
	s.Assert().Equal(int64(3), n)

	left, err := s.repo.Count(ctx, "v2")
	s.Require().NoError(err)
	s.Assert().Equal(1, left)

	n, err = s.repo.DeleteByView(ctx)
	s.Require().NoError(err)
	s.Assert().Zero(n)
}

func (s *AttemptRepositorySuite) TestDeleteOlderThan() {
	ctx := context.Background()
	now := time.Now()
	s.record("v1", now.Add(-2*time.Hour))
	s.record("v1", now.Add(-time.Minute))

	n, err := s.repo.DeleteOlderThan(ctx, now.Add(-time.Hour))
	s.Require().NoError(err)
	s.Assert().Equal(int64(1), n)

	left, err := s.repo.Count(ctx, "v1")
	s.Require().NoError(err)
	s.Assert().Equal(1, left)
}

func TestAttemptRepositorySuite(t *testing.T) {
	suite.Run(t, new(AttemptRepositorySuite))
}
