package pipeline

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sift/internal/logging"
	"sift/internal/scoring"
	"sift/internal/wire"
)

// Pool runs the scoring workers. Each worker drains the shared task channel,
// scores, filters by threshold, and publishes passing results.
type Pool struct {
	workers   int
	scorer    scoring.Func
	threshold float64
	tasks     <-chan TaskMsg
	results   chan<- ResultMsg
	logger    *slog.Logger
}

// NewPool constructs a worker pool of the given size.
func NewPool(workers int, scorer scoring.Func, threshold float64, tasks <-chan TaskMsg, results chan<- ResultMsg, logger *slog.Logger) *Pool {
	return &Pool{
		workers:   workers,
		scorer:    scorer,
		threshold: threshold,
		tasks:     tasks,
		results:   results,
		logger:    logging.NewComponentLogger(logger, "worker"),
	}
}

// Run starts every worker and blocks until all of them have consumed a stop
// sentinel and exited. Every result a worker will ever produce is on the
// result channel before Run returns; the coordinator relies on that ordering
// to place the terminal sentinel.
func (p *Pool) Run() {
	var wg sync.WaitGroup
	wg.Add(p.workers)
	for i := 1; i <= p.workers; i++ {
		go func(id int) {
			defer wg.Done()
			p.runWorker(id)
		}(i)
	}
	wg.Wait()
}

func (p *Pool) runWorker(id int) {
	logger := p.logger.With(logging.Int(logging.FieldWorker, id))
	start := time.Now()
	processed := 0
	accepted := 0

	for {
		msg := <-p.tasks
		if msg.Stop {
			break
		}

		score, err := p.score(msg.Task)
		if err != nil {
			// Per-item scope: a failed task never stops the worker.
			logger.Error("score task", logging.Error(err))
			continue
		}
		processed++

		if score >= p.threshold {
			p.results <- ResultMsg{Result: wire.Result{ID: msg.Task.ID, Score: float32(score)}}
			accepted++
		}
	}

	logger.Info("worker finished",
		logging.Int("processed", processed),
		logging.Int("accepted", accepted),
		logging.Duration("elapsed", time.Since(start)),
	)
}

// score shields the worker loop from panics inside the scoring function.
func (p *Pool) score(task wire.Task) (value float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Wrap(ErrCompute, "worker", fmt.Sprintf("task %d", task.ID), fmt.Errorf("%v", r))
		}
	}()
	return p.scorer(task.Load, task.Uptime, task.ID), nil
}
