package pipeline

import (
	"log/slog"
	"time"

	"sift/internal/logging"
	"sift/internal/wire"
)

// Dispatch bridges the result channel to the outbound endpoint.
type Dispatch struct {
	sink     ResultSink
	results  <-chan ResultMsg
	attempts int
	backoff  time.Duration
	logger   *slog.Logger

	// Written exactly once when Run ends, read only after the coordinator
	// joins the dispatch goroutine.
	sent int
	err  error
}

// NewDispatch constructs the dispatch stage with its connection retry policy.
func NewDispatch(sink ResultSink, results <-chan ResultMsg, attempts int, backoff time.Duration, logger *slog.Logger) *Dispatch {
	if attempts < 1 {
		attempts = 1
	}
	return &Dispatch{
		sink:     sink,
		results:  results,
		attempts: attempts,
		backoff:  backoff,
		logger:   logging.NewComponentLogger(logger, "dispatch"),
	}
}

// Run connects the outbound endpoint with bounded retries, then forwards
// results until the terminal sentinel, which it answers with the outbound
// end-of-stream frame. Exhausted retries do not abort the stage: it proceeds
// and the first failed send becomes the terminal error instead. After a send
// failure the loop keeps consuming until the sentinel so upstream stages
// never block on a full result channel.
func (d *Dispatch) Run() {
	start := time.Now()
	sent := 0
	var runErr error

	defer func() {
		d.sent = sent
		d.err = runErr
		if err := d.sink.Close(); err != nil {
			d.logger.Warn("release outbound endpoint", logging.Error(err))
		}
		d.logger.Info("send loop finished",
			logging.Int("sent", sent),
			logging.Duration("elapsed", time.Since(start)),
			logging.Bool("clean", runErr == nil),
		)
	}()

	d.connect()

	for {
		msg := <-d.results
		if msg.Stop {
			if runErr != nil {
				return
			}
			if err := d.sink.Send(wire.StopFrame()); err != nil {
				runErr = Wrap(nil, "dispatch", "send stop", err)
				d.logger.Error("send end-of-stream frame", logging.Error(err))
			}
			return
		}
		if runErr != nil {
			continue
		}
		if err := d.sink.Send(wire.EncodeResult(msg.Result)); err != nil {
			runErr = Wrap(nil, "dispatch", "send", err)
			d.logger.Error("send result frame", logging.Error(err))
			continue
		}
		sent++
	}
}

func (d *Dispatch) connect() {
	var err error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		if err = d.sink.Connect(); err == nil {
			return
		}
		d.logger.Warn("outbound connect failed",
			logging.Int("attempt", attempt),
			logging.Int("attempts", d.attempts),
			logging.Error(err),
		)
		if attempt < d.attempts {
			time.Sleep(d.backoff)
		}
	}
	// Retries exhausted: the stage still drains the channel; sends will fail.
	d.logger.Warn("proceeding without outbound connection", logging.Error(err))
}

// Sent reports the forwarded record count. Valid only after Run returned.
func (d *Dispatch) Sent() int { return d.sent }

// Err reports the terminal error, if the send loop ended on one. Valid only
// after Run returned.
func (d *Dispatch) Err() error { return d.err }
