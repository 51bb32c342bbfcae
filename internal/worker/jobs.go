package worker

import (
	"context"
	"time"

	"github.com/vytor/loginlab/internal/logger"
	"github.com/vytor/loginlab/internal/metrics"
	"github.com/vytor/loginlab/internal/repository"
)

// SweepViewsJob tears down idle views and drops their login attempt journal.
type SweepViewsJob struct {
	Views    ViewSweeper
	Attempts repository.AttemptRepository
	// MaxAttemptAge removes journal rows of views that vanished without a
	// sweep, for instance after a crash. Zero disables it.
	MaxAttemptAge time.Duration
	Now           func() time.Time
}

func (j *SweepViewsJob) Name() string { return "sweep_views" }

func (j *SweepViewsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	now := time.Now()
	if j.Now != nil {
		now = j.Now()
	}

	removed := j.Views.Sweep(now)
	metrics.ActiveViews.Set(float64(j.Views.Len()))

	if len(removed) > 0 {
		n, err := j.Attempts.DeleteByView(ctx, removed...)
		if err != nil {
			return err
		}
		log.Info("swept %d idle views, deleted %d attempts", len(removed), n)
	}

	if j.MaxAttemptAge > 0 {
		n, err := j.Attempts.DeleteOlderThan(ctx, now.Add(-j.MaxAttemptAge))
		if err != nil {
			return err
		}
		if n > 0 {
			log.Debug("deleted %d stale attempts", n)
		}
	}
	return nil
}
