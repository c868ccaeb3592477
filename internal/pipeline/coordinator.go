package pipeline

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"sift/internal/logging"
	"sift/internal/scoring"
)

// State is the coordinator's lifecycle position.
type State int32

const (
	// StateIdle means Run has not been called.
	StateIdle State = iota
	// StateRunning means ingest, workers, and dispatch are all live.
	StateRunning
	// StateDraining means ingest and the workers have joined and dispatch
	// is flushing the remaining results.
	StateDraining
	// StateDone means every stage has terminated.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Stats aggregates the counters of one completed run.
type Stats struct {
	Received  int
	Sent      int
	Workers   int
	StartedAt time.Time
	Elapsed   time.Duration
}

// Options configures a coordinator.
type Options struct {
	Source          TaskSource
	Sink            ResultSink
	Workers         int
	Scorer          scoring.Func
	Threshold       float64
	ChannelCapacity int
	ConnectAttempts int
	ConnectBackoff  time.Duration
	Logger          *slog.Logger
}

// Coordinator wires the stages together and owns the shutdown ordering.
type Coordinator struct {
	ingest   *Ingest
	pool     *Pool
	dispatch *Dispatch
	results  chan ResultMsg
	workers  int
	logger   *slog.Logger

	state atomic.Int32
}

// New builds a coordinator and the two channels the stages share.
func New(opts Options) (*Coordinator, error) {
	if opts.Source == nil || opts.Sink == nil {
		return nil, errors.New("coordinator requires a task source and a result sink")
	}
	if opts.Workers < 1 {
		return nil, errors.New("coordinator requires at least one worker")
	}
	if opts.Scorer == nil {
		return nil, errors.New("coordinator requires a scoring function")
	}
	capacity := opts.ChannelCapacity
	if capacity < 1 {
		capacity = 1
	}

	tasks := make(chan TaskMsg, capacity)
	results := make(chan ResultMsg, capacity)
	logger := opts.Logger

	return &Coordinator{
		ingest:   NewIngest(opts.Source, tasks, opts.Workers, logger),
		pool:     NewPool(opts.Workers, opts.Scorer, opts.Threshold, tasks, results, logger),
		dispatch: NewDispatch(opts.Sink, results, opts.ConnectAttempts, opts.ConnectBackoff, logger),
		results:  results,
		workers:  opts.Workers,
		logger:   logging.NewComponentLogger(logger, "coordinator"),
	}, nil
}

// State reports the current lifecycle position.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Run executes one complete pipeline pass and blocks until dispatch has
// terminated. Joining ingest and every worker before publishing the terminal
// sentinel is the critical ordering: by then every result that will ever be
// produced is already on the result channel.
func (c *Coordinator) Run() (Stats, error) {
	start := time.Now()
	c.state.Store(int32(StateRunning))
	c.logger.Info("pipeline started", logging.Int("workers", c.workers))

	var producers sync.WaitGroup
	producers.Add(2)
	go func() {
		defer producers.Done()
		c.ingest.Run()
	}()
	go func() {
		defer producers.Done()
		c.pool.Run()
	}()

	var drain sync.WaitGroup
	drain.Add(1)
	go func() {
		defer drain.Done()
		c.dispatch.Run()
	}()

	producers.Wait()
	c.state.Store(int32(StateDraining))
	c.results <- ResultMsg{Stop: true}

	drain.Wait()
	c.state.Store(int32(StateDone))

	stats := Stats{
		Received:  c.ingest.Received(),
		Sent:      c.dispatch.Sent(),
		Workers:   c.workers,
		StartedAt: start.UTC(),
		Elapsed:   time.Since(start),
	}
	c.logger.Info("pipeline finished",
		logging.Int("received", stats.Received),
		logging.Int("sent", stats.Sent),
		logging.Duration("elapsed", stats.Elapsed),
	)
	return stats, errors.Join(c.ingest.Err(), c.dispatch.Err())
}
