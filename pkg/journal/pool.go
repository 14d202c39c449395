package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
)

var (
	// one worker keeps entries in arrival order
	defaultNumWorkers   uint = 1
	defaultJobQueueSize uint = 256
)

// Config is the configuration options for the journal pool.
type Config struct {
	// Sinks receive every entry, in order.
	Sinks []Sink

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered entry channel (defaults to 256).
	QueueSize uint

	// Logger is the provided slog logger
	Logger *slog.Logger
}

// Pool writes entries asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan Entry
	wg     sync.WaitGroup
	logger *slog.Logger

	// mu guards closed; Enqueue holds it shared so Close cannot close the
	// queue under a send.
	mu     sync.RWMutex
	closed bool
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	p := &Pool{
		config: c,
		queue:  make(chan Entry, c.QueueSize),
		logger: c.Logger,
	}

	for i := range c.NumWorkers {
		p.wg.Go(func() { p.worker(i) })
	}

	return p, nil
}

// Enqueue submits an entry for recording.
// Returns true if enqueued, false if the queue is full or the pool is
// closed, resulting in the entry being dropped
func (p *Pool) Enqueue(e Entry) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Warn("journal closed, entry dropped",
			"id", e.ID,
			"model", e.Model,
		)
		return false
	}

	select {
	case p.queue <- e:
		p.logger.Debug("journal entry queued",
			"id", e.ID,
			"model", e.Model,
		)
		return true
	default:
		p.logger.Error("journal entry not queued, queue full, entry dropped",
			"id", e.ID,
			"model", e.Model,
		)
		return false
	}
}

// Close signals workers to stop and waits for queued entries to drain.
// Call this during graceful shutdown after the HTTP server has stopped.
// Close is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls entries off the queue
func (p *Pool) worker(id uint) {
	p.logger.Debug("journal worker started", "worker_id", id)

	for e := range p.queue {
		p.record(e)
	}

	p.logger.Debug("journal worker stopped", "worker_id", id)
}

// record hands e to every sink. Sink errors are logged and do not stop the
// other sinks.
func (p *Pool) record(e Entry) {
	ctx := context.Background()

	for _, sink := range p.config.Sinks {
		if err := sink.Record(ctx, e); err != nil {
			p.logger.Warn("journal sink failed",
				"id", e.ID,
				"error", err,
			)
		}
	}
}
