// Package transport owns the two ZeroMQ sockets the pipeline speaks through.
//
// The Receiver binds a PULL socket the peer pushes task frames to; the
// Sender connects a PUSH socket toward the peer's bound PULL address.
// Both move opaque byte frames; framing and decoding live in internal/wire.
//
// Connection retry policy is deliberately not implemented here: the dispatch
// stage owns its bounded-retry loop and drives Connect itself.
package transport
