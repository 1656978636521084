package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"dealwise/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// DealQueue is an in-memory queue of deal batches awaiting re-analysis.
type DealQueue struct {
	items    chan []*models.Deal
	done     chan struct{}
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func([]*models.Deal) error
}

// NewDealQueue creates a new deal queue with the specified buffer size.
func NewDealQueue(bufferSize int, logger *logrus.Logger) *DealQueue {
	return &DealQueue{
		items:    make(chan []*models.Deal, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func([]*models.Deal) error, 0),
	}
}

// Push adds a batch of deals to the queue.
func (q *DealQueue) Push(deals []*models.Deal) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	q.mu.RUnlock()

	// Non-blocking send to prevent deadlocks
	select {
	case q.items <- deals:
		q.logger.WithField("batch_size", len(deals)).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each batch.
func (q *DealQueue) Subscribe(handler func([]*models.Deal) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing items in the queue.
func (q *DealQueue) Start() {
	go q.process()
}

func (q *DealQueue) process() {
	for {
		select {
		case <-q.done:
			return
		case batch := <-q.items:
			q.processBatch(batch)
		}
	}
}

// processBatch sends the batch to all subscribed handlers.
func (q *DealQueue) processBatch(batch []*models.Deal) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process batch")
		}
	}
}

// Close stops the queue and prevents new items from being added.
func (q *DealQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.done)
	close(q.items)
	return nil
}

// Len returns the current number of batches in the queue.
func (q *DealQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed.
func (q *DealQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
