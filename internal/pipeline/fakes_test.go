package pipeline_test

import (
	"errors"
	"io"
)

// fakeSource replays a fixed frame sequence, then fails with errClosed.
type fakeSource struct {
	frames  [][]byte
	next    int
	bindErr error
	recvErr error // returned after frames are exhausted instead of errClosed
	bound   bool
	closed  bool
}

var errClosed = errors.New("source closed")

func (s *fakeSource) Bind() error {
	if s.bindErr != nil {
		return s.bindErr
	}
	s.bound = true
	return nil
}

func (s *fakeSource) Recv() ([]byte, error) {
	if s.next >= len(s.frames) {
		if s.recvErr != nil {
			return nil, s.recvErr
		}
		return nil, errClosed
	}
	frame := s.frames[s.next]
	s.next++
	return frame, nil
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

// fakeSink records sent frames and can fail a fixed number of connect
// attempts or every send.
type fakeSink struct {
	frames       [][]byte
	connectCalls int
	connectFails int // first N connects fail
	sendErr      error
	closed       bool
}

func (s *fakeSink) Connect() error {
	s.connectCalls++
	if s.connectCalls <= s.connectFails {
		return io.ErrClosedPipe
	}
	return nil
}

func (s *fakeSink) Send(frame []byte) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	copied := make([]byte, len(frame))
	copy(copied, frame)
	s.frames = append(s.frames, copied)
	return nil
}

func (s *fakeSink) Close() error {
	s.closed = true
	return nil
}
