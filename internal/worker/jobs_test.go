package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/loginlab/internal/testutil/mocks"
	"github.com/vytor/loginlab/internal/worker"
)

type stubSweeper struct {
	removed []string
	left    int
	at      time.Time
}

func (s *stubSweeper) Sweep(now time.Time) []string {
	s.at = now
	return s.removed
}

func (s *stubSweeper) Len() int { return s.left }

func TestSweepViewsJob_DeletesJournalOfSweptViews(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	views := &stubSweeper{removed: []string{"a", "b"}, left: 3}
	attempts := new(mocks.MockAttemptRepository)
	attempts.On("DeleteByView", mock.Anything, []string{"a", "b"}).Return(int64(4), nil)
	attempts.On("DeleteOlderThan", mock.Anything, now.Add(-time.Hour)).Return(int64(0), nil)

	job := &worker.SweepViewsJob{
		Views:         views,
		Attempts:      attempts,
		MaxAttemptAge: time.Hour,
		Now:           func() time.Time { return now },
	}
	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, now, views.at)
	attempts.AssertExpectations(t)
}

func TestSweepViewsJob_NothingIdle(t *testing.T) {
	attempts := new(mocks.MockAttemptRepository)

	job := &worker.SweepViewsJob{Views: &stubSweeper{}, Attempts: attempts}
	require.NoError(t, job.Run(context.Background()))

	attempts.AssertNotCalled(t, "DeleteByView", mock.Anything, mock.Anything)
	attempts.AssertNotCalled(t, "DeleteOlderThan", mock.Anything, mock.Anything)
}
