package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Frame sizes in bytes. The peer packs records with no padding.
const (
	TaskFrameSize   = 12
	ResultFrameSize = 8
	stopFrameSize   = 1
)

// stopByte is the single-byte end-of-stream marker used on both channels.
const stopByte = 0xFF

// ErrMalformedFrame reports a frame whose length or content does not match
// the protocol. It terminates the ingest receive loop when it occurs there.
var ErrMalformedFrame = errors.New("malformed frame")

// Task is one unit of inbound work.
type Task struct {
	ID     int32
	Load   float32
	Uptime int32
}

// Result is one scored record that passed the threshold filter.
type Result struct {
	ID    int32
	Score float32
}

// DecodeTask parses a 12-byte inbound data frame.
func DecodeTask(frame []byte) (Task, error) {
	if len(frame) != TaskFrameSize {
		return Task{}, fmt.Errorf("%w: task frame is %d bytes, want %d", ErrMalformedFrame, len(frame), TaskFrameSize)
	}
	return Task{
		ID:     int32(binary.LittleEndian.Uint32(frame[0:4])),
		Load:   math.Float32frombits(binary.LittleEndian.Uint32(frame[4:8])),
		Uptime: int32(binary.LittleEndian.Uint32(frame[8:12])),
	}, nil
}

// EncodeTask packs a task into a 12-byte frame. Used by the peer emulator.
func EncodeTask(task Task) []byte {
	frame := make([]byte, TaskFrameSize)
	binary.LittleEndian.PutUint32(frame[0:4], uint32(task.ID))
	binary.LittleEndian.PutUint32(frame[4:8], math.Float32bits(task.Load))
	binary.LittleEndian.PutUint32(frame[8:12], uint32(task.Uptime))
	return frame
}

// DecodeResult parses an 8-byte outbound data frame. Used by the peer emulator.
func DecodeResult(frame []byte) (Result, error) {
	if len(frame) != ResultFrameSize {
		return Result{}, fmt.Errorf("%w: result frame is %d bytes, want %d", ErrMalformedFrame, len(frame), ResultFrameSize)
	}
	return Result{
		ID:    int32(binary.LittleEndian.Uint32(frame[0:4])),
		Score: math.Float32frombits(binary.LittleEndian.Uint32(frame[4:8])),
	}, nil
}

// EncodeResult packs a result into an 8-byte frame.
func EncodeResult(result Result) []byte {
	frame := make([]byte, ResultFrameSize)
	binary.LittleEndian.PutUint32(frame[0:4], uint32(result.ID))
	binary.LittleEndian.PutUint32(frame[4:8], math.Float32bits(result.Score))
	return frame
}

// StopFrame returns the 1-byte end-of-stream marker.
func StopFrame() []byte {
	return []byte{stopByte}
}

// IsStop reports whether the frame is the end-of-stream marker.
func IsStop(frame []byte) bool {
	return len(frame) == stopFrameSize && frame[0] == stopByte
}
