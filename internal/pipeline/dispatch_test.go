package pipeline_test

import (
	"io"
	"testing"
	"time"

	"sift/internal/logging"
	"sift/internal/pipeline"
	"sift/internal/wire"
)

func queueResults(n int, terminal bool) chan pipeline.ResultMsg {
	results := make(chan pipeline.ResultMsg, n+1)
	for i := 0; i < n; i++ {
		results <- pipeline.ResultMsg{Result: wire.Result{ID: int32(i + 1), Score: float32(50 + i)}}
	}
	if terminal {
		results <- pipeline.ResultMsg{Stop: true}
	}
	return results
}

func TestDispatchForwardsResultsThenStopFrame(t *testing.T) {
	sink := &fakeSink{}
	results := queueResults(3, true)

	dispatch := pipeline.NewDispatch(sink, results, 1, 0, logging.NewNop())
	dispatch.Run()

	if len(sink.frames) != 4 {
		t.Fatalf("sent %d frames, want 3 results + 1 stop", len(sink.frames))
	}
	for i := 0; i < 3; i++ {
		result, err := wire.DecodeResult(sink.frames[i])
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if result.ID != int32(i+1) {
			t.Fatalf("frame %d has id %d; channel order not preserved", i, result.ID)
		}
	}
	if !wire.IsStop(sink.frames[3]) {
		t.Fatalf("last frame is not the end-of-stream marker: %x", sink.frames[3])
	}
	if dispatch.Sent() != 3 {
		t.Fatalf("Sent() = %d, want 3", dispatch.Sent())
	}
	if dispatch.Err() != nil {
		t.Fatalf("unexpected error: %v", dispatch.Err())
	}
	if !sink.closed {
		t.Fatal("endpoint not released")
	}
}

func TestDispatchRetriesConnectThenDeliversInOrder(t *testing.T) {
	sink := &fakeSink{connectFails: 2}
	results := queueResults(5, true)

	dispatch := pipeline.NewDispatch(sink, results, 5, time.Millisecond, logging.NewNop())
	dispatch.Run()

	if sink.connectCalls != 3 {
		t.Fatalf("connect attempts = %d, want 3 (fail, fail, succeed)", sink.connectCalls)
	}
	if dispatch.Sent() != 5 {
		t.Fatalf("Sent() = %d, want 5", dispatch.Sent())
	}
	for i := 0; i < 5; i++ {
		result, err := wire.DecodeResult(sink.frames[i])
		if err != nil || result.ID != int32(i+1) {
			t.Fatalf("frame %d out of order (id=%d, err=%v)", i, result.ID, err)
		}
	}
}

func TestDispatchProceedsAfterRetryExhaustion(t *testing.T) {
	sink := &fakeSink{connectFails: 1 << 30, sendErr: io.ErrClosedPipe}
	results := queueResults(2, true)

	dispatch := pipeline.NewDispatch(sink, results, 3, 0, logging.NewNop())
	dispatch.Run()

	if sink.connectCalls != 3 {
		t.Fatalf("connect attempts = %d, want exactly 3", sink.connectCalls)
	}
	if dispatch.Sent() != 0 {
		t.Fatalf("Sent() = %d, want 0", dispatch.Sent())
	}
	if dispatch.Err() == nil {
		t.Fatal("expected the failed send to surface as a terminal error")
	}
}

func TestDispatchStopOnlyStream(t *testing.T) {
	sink := &fakeSink{}
	results := queueResults(0, true)

	dispatch := pipeline.NewDispatch(sink, results, 1, 0, logging.NewNop())
	dispatch.Run()

	if len(sink.frames) != 1 || !wire.IsStop(sink.frames[0]) {
		t.Fatalf("want a single stop frame, got %d frames", len(sink.frames))
	}
	if dispatch.Sent() != 0 {
		t.Fatalf("Sent() = %d, want 0", dispatch.Sent())
	}
}
