// Package processor re-runs the analysis engines over batches of stored
// deals and persists the resulting snapshots.
package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"dealwise/server/config"
	"dealwise/server/internal/analysis"
	"dealwise/server/internal/database"
	"dealwise/server/internal/models"
	"dealwise/server/internal/queue"
)

// Notifier receives the freshly computed results for a deal. Implementations
// must not block for long; failures are logged, never retried.
type Notifier interface {
	NotifyDealAnalyzed(deal *models.Deal, results map[models.StrategyType]models.AnalysisResults) error
}

// BatchProcessor handles the processing of deal batches.
type BatchProcessor struct {
	db        *gorm.DB
	logger    *logrus.Logger
	config    *config.Config
	queue     *queue.DealQueue
	evaluator *analysis.Evaluator
	notifier  Notifier
	waitGroup sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewBatchProcessor creates a new batch processor instance.
func NewBatchProcessor(db *gorm.DB, q *queue.DealQueue, evaluator *analysis.Evaluator,
	cfg *config.Config, logger *logrus.Logger) *BatchProcessor {
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchProcessor{
		db:        db,
		queue:     q,
		evaluator: evaluator,
		config:    cfg,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// SetNotifier attaches a notifier called after each deal's snapshots are
// written.
func (p *BatchProcessor) SetNotifier(n Notifier) {
	p.notifier = n
}

// Start begins processing batches from the queue.
func (p *BatchProcessor) Start() {
	for i := 0; i < p.config.BatchProcessing.ProcessorCount; i++ {
		p.waitGroup.Add(1)
		go p.processLoop()
	}
}

// Stop gracefully shuts down the processor.
func (p *BatchProcessor) Stop() {
	p.cancel()
	p.waitGroup.Wait()
}

func (p *BatchProcessor) processLoop() {
	defer p.waitGroup.Done()

	p.queue.Subscribe(func(batch []*models.Deal) error {
		return p.processBatch(batch)
	})
}

// processBatch re-analyzes a batch of deals with transaction and retry logic.
func (p *BatchProcessor) processBatch(batch []*models.Deal) error {
	var err error
	for attempt := 0; attempt <= p.config.BatchProcessing.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying batch analysis, attempt %d of %d", attempt, p.config.BatchProcessing.MaxRetries)
			time.Sleep(time.Duration(p.config.BatchProcessing.RetryDelay) * time.Second)
		}

		err = p.analyzeBatch(batch)
		if err == nil {
			p.logger.Infof("Successfully analyzed batch of %d deals", len(batch))
			return nil
		}

		p.logger.Errorf("Batch analysis failed: %v", err)
	}

	return fmt.Errorf("failed to process batch after %d attempts: %w", p.config.BatchProcessing.MaxRetries, err)
}

func (p *BatchProcessor) analyzeBatch(batch []*models.Deal) error {
	for _, deal := range batch {
		results, err := p.evaluator.EvaluateAll(deal)
		if err != nil {
			return fmt.Errorf("failed to evaluate deal %d: %w", deal.ID, err)
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			return database.SaveSnapshots(tx, deal.ID, results)
		})
		if err != nil {
			return fmt.Errorf("failed to persist snapshots for deal %d: %w", deal.ID, err)
		}

		if p.notifier != nil {
			if err := p.notifier.NotifyDealAnalyzed(deal, results); err != nil {
				p.logger.WithError(err).WithField("deal_id", deal.ID).Error("Deal notification failed")
			}
		}
	}
	return nil
}
