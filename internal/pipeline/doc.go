// Package pipeline implements the three-stage scoring pipeline and its run
// coordinator.
//
// Ingest decodes inbound frames and publishes tasks; the worker pool scores
// and filters them; dispatch encodes surviving results and pushes them to the
// peer. The stages exchange tagged messages over two channels: the message
// type itself carries the stop sentinel, so termination needs no magic
// values in-process.
//
// Shutdown is cooperative and flows opposite to the data. Ingest publishes
// one stop per worker after its receive loop ends; each worker consumes
// exactly one stop and exits; the coordinator joins ingest and the workers,
// then publishes the single terminal stop that drains dispatch. There is no
// cancellation path inside a run.
package pipeline
