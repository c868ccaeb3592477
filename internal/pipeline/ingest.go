package pipeline

import (
	"log/slog"
	"time"

	"sift/internal/logging"
	"sift/internal/wire"
)

// Ingest bridges the inbound endpoint to the task channel.
type Ingest struct {
	source  TaskSource
	tasks   chan<- TaskMsg
	workers int
	logger  *slog.Logger

	// Written exactly once when Run ends, read only after the coordinator
	// joins the ingest goroutine.
	received int
	err      error
}

// NewIngest constructs the ingest stage. workers is the number of stop
// sentinels published when the receive loop ends.
func NewIngest(source TaskSource, tasks chan<- TaskMsg, workers int, logger *slog.Logger) *Ingest {
	return &Ingest{
		source:  source,
		tasks:   tasks,
		workers: workers,
		logger:  logging.NewComponentLogger(logger, "ingest"),
	}
}

// Run binds the endpoint and consumes frames until the end-of-stream marker
// or the first error. Receive and decode errors terminate the whole loop;
// there is no per-message retry. On exit, clean or not, it publishes exactly
// one stop sentinel per worker, records the received count, and releases the
// endpoint.
func (in *Ingest) Run() {
	start := time.Now()
	received := 0
	var runErr error

	defer func() {
		for i := 0; i < in.workers; i++ {
			in.tasks <- TaskMsg{Stop: true}
		}
		in.received = received
		in.err = runErr
		if err := in.source.Close(); err != nil {
			in.logger.Warn("release inbound endpoint", logging.Error(err))
		}
		in.logger.Info("receive loop finished",
			logging.Int("received", received),
			logging.Duration("elapsed", time.Since(start)),
			logging.Bool("clean", runErr == nil),
		)
	}()

	if err := in.source.Bind(); err != nil {
		runErr = Wrap(nil, "ingest", "bind", err)
		in.logger.Error("bind inbound endpoint", logging.Error(err))
		return
	}

	for {
		frame, err := in.source.Recv()
		if err != nil {
			runErr = Wrap(nil, "ingest", "recv", err)
			in.logger.Error("receive frame", logging.Error(err))
			return
		}
		if wire.IsStop(frame) {
			return
		}
		task, err := wire.DecodeTask(frame)
		if err != nil {
			runErr = Wrap(nil, "ingest", "decode", err)
			in.logger.Error("decode frame", logging.Error(err))
			return
		}
		in.tasks <- TaskMsg{Task: task}
		received++
	}
}

// Received reports the inbound record count. Valid only after Run returned.
func (in *Ingest) Received() int { return in.received }

// Err reports the terminal error, if the receive loop ended on one. Valid
// only after Run returned.
func (in *Ingest) Err() error { return in.err }
