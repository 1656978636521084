// Package scheduler drives the periodic re-analysis of stored deals.
package scheduler

import (
	"os"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"dealwise/server/internal/database"
	"dealwise/server/internal/models"
	"dealwise/server/internal/queue"
)

// Scheduler enqueues every stored deal for re-analysis on a cron schedule,
// so persisted snapshots track changes to the benchmark tables and engine
// defaults.
type Scheduler struct {
	db           *database.Database
	queue        *queue.DealQueue
	logger       *logrus.Logger
	cron         *cron.Cron
	maxBatchSize int
}

func NewScheduler(db *database.Database, q *queue.DealQueue, maxBatchSize int, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if maxBatchSize <= 0 {
		maxBatchSize = 100
	}

	return &Scheduler{
		db:           db,
		queue:        q,
		logger:       logger,
		cron:         cron.New(),
		maxBatchSize: maxBatchSize,
	}
}

// Start registers the re-analysis job and begins the cron loop.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.EnqueueAllDeals); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.WithField("schedule", schedule).Info("Re-analysis scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// EnqueueAllDeals loads every stored deal and pushes it to the queue in
// batches. A full queue drops the remaining batches; the next scheduled run
// picks them up.
func (s *Scheduler) EnqueueAllDeals() {
	deals, err := s.db.ListDeals()
	if err != nil {
		s.logger.WithError(err).Error("Failed to load deals for re-analysis")
		return
	}
	if len(deals) == 0 {
		s.logger.Debug("No deals to re-analyze")
		return
	}

	var enqueued int
	for start := 0; start < len(deals); start += s.maxBatchSize {
		end := start + s.maxBatchSize
		if end > len(deals) {
			end = len(deals)
		}

		batch := make([]*models.Deal, 0, end-start)
		for i := start; i < end; i++ {
			batch = append(batch, &deals[i])
		}

		if err := s.queue.Push(batch); err != nil {
			s.logger.WithError(err).WithField("batch_size", len(batch)).Error("Failed to enqueue re-analysis batch")
			return
		}
		enqueued += len(batch)
	}

	s.logger.WithField("deals", enqueued).Info("Enqueued deals for re-analysis")
}
