package pipeline

import "sift/internal/wire"

// TaskMsg is one element of the task channel. Stop marks a per-worker
// termination sentinel; the Task field is then zero.
type TaskMsg struct {
	Task wire.Task
	Stop bool
}

// ResultMsg is one element of the result channel. Stop marks the single
// terminal sentinel the coordinator publishes after all workers have exited.
type ResultMsg struct {
	Result wire.Result
	Stop   bool
}

// TaskSource is the inbound endpoint ingest drives. transport.Receiver
// implements it; tests substitute fakes.
type TaskSource interface {
	Bind() error
	Recv() ([]byte, error)
	Close() error
}

// ResultSink is the outbound endpoint dispatch drives. transport.Sender
// implements it; tests substitute fakes.
type ResultSink interface {
	Connect() error
	Send(frame []byte) error
	Close() error
}
