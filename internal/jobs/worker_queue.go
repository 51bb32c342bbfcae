package jobs

import (
	"context"
	"time"

	"github.com/vytor/loginlab/internal/logger"
	"github.com/vytor/loginlab/internal/repository"
	"github.com/vytor/loginlab/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool          *worker.Pool
	views         worker.ViewSweeper
	attemptRepo   repository.AttemptRepository
	maxAttemptAge time.Duration
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	pool *worker.Pool,
	views worker.ViewSweeper,
	attemptRepo repository.AttemptRepository,
	maxAttemptAge time.Duration,
) *WorkerQueue {
	return &WorkerQueue{
		pool:          pool,
		views:         views,
		attemptRepo:   attemptRepo,
		maxAttemptAge: maxAttemptAge,
	}
}

// EnqueueSweep queues a sweep unless one is already backed up.
func (q *WorkerQueue) EnqueueSweep() error {
	return q.pool.TrySubmit(&worker.SweepViewsJob{
		Views:         q.views,
		Attempts:      q.attemptRepo,
		MaxAttemptAge: q.maxAttemptAge,
	})
}

// RunSweeper enqueues a sweep every interval until ctx is done.
func RunSweeper(ctx context.Context, q JobQueue, interval time.Duration) {
	log := logger.Default().WithPrefix("sweeper")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("sweeping idle views every %v", interval)
	for {
		select {
		case <-ctx.Done():
			log.Debug("sweeper stopped")
			return
		case <-ticker.C:
			if err := q.EnqueueSweep(); err != nil {
				log.Warn("sweep not queued: %v", err)
			}
		}
	}
}
