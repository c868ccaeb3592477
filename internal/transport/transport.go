package transport

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/go-zeromq/zmq4"
)

// ErrTransport tags bind, connect, send, and receive failures for
// classification with errors.Is.
var ErrTransport = errors.New("transport error")

// Receiver is the inbound side: a PULL socket the pipeline binds and the
// peer pushes task frames to.
type Receiver struct {
	sock zmq4.Socket
	addr string
}

// NewReceiver prepares a PULL socket for the given bind address. The context
// bounds the socket lifetime.
func NewReceiver(ctx context.Context, addr string) *Receiver {
	return &Receiver{sock: zmq4.NewPull(ctx), addr: addr}
}

// Bind binds the receive endpoint.
func (r *Receiver) Bind() error {
	if err := r.sock.Listen(r.addr); err != nil {
		return fmt.Errorf("%w: bind %s: %w", ErrTransport, r.addr, err)
	}
	return nil
}

// Addr reports the bound address, resolving a :0 port after Bind.
func (r *Receiver) Addr() net.Addr {
	return r.sock.Addr()
}

// Recv blocks until one frame arrives and returns its payload.
func (r *Receiver) Recv() ([]byte, error) {
	msg, err := r.sock.Recv()
	if err != nil {
		return nil, fmt.Errorf("%w: recv: %w", ErrTransport, err)
	}
	return msg.Bytes(), nil
}

// Close releases the endpoint.
func (r *Receiver) Close() error {
	return r.sock.Close()
}

// Sender is the outbound side: a PUSH socket connected toward the peer's
// bound PULL address.
type Sender struct {
	sock zmq4.Socket
	addr string
}

// NewSender prepares a PUSH socket for the given connect address.
func NewSender(ctx context.Context, addr string) *Sender {
	return &Sender{sock: zmq4.NewPush(ctx), addr: addr}
}

// Connect performs one connection attempt. Callers own any retry loop.
func (s *Sender) Connect() error {
	if err := s.sock.Dial(s.addr); err != nil {
		return fmt.Errorf("%w: connect %s: %w", ErrTransport, s.addr, err)
	}
	return nil
}

// Send pushes one frame to the peer.
func (s *Sender) Send(frame []byte) error {
	if err := s.sock.Send(zmq4.NewMsg(frame)); err != nil {
		return fmt.Errorf("%w: send: %w", ErrTransport, err)
	}
	return nil
}

// Close releases the endpoint.
func (s *Sender) Close() error {
	return s.sock.Close()
}
