package pipeline_test

import (
	"bytes"
	"sort"
	"strings"
	"testing"

	"sift/internal/logging"
	"sift/internal/pipeline"
	"sift/internal/wire"
)

// runPool pushes the given tasks plus one stop per worker through a pool and
// returns the results it published.
func runPool(t *testing.T, workers int, scorer func(float32, int32, int32) float64, threshold float64, work []wire.Task) []wire.Result {
	t.Helper()

	tasks := make(chan pipeline.TaskMsg, len(work)+workers)
	results := make(chan pipeline.ResultMsg, len(work)+1)
	for _, task := range work {
		tasks <- pipeline.TaskMsg{Task: task}
	}
	for i := 0; i < workers; i++ {
		tasks <- pipeline.TaskMsg{Stop: true}
	}

	pool := pipeline.NewPool(workers, scorer, threshold, tasks, results, logging.NewNop())
	pool.Run()

	var out []wire.Result
	for {
		select {
		case msg := <-results:
			if msg.Stop {
				t.Fatal("pool must never publish a stop sentinel")
			}
			out = append(out, msg.Result)
		default:
			return out
		}
	}
}

func TestFilterBoundaryIsInclusive(t *testing.T) {
	scores := map[int32]float64{
		1: 50.0,
		2: 49.999999,
		3: 60.0,
		4: 0.0,
	}
	scorer := func(_ float32, _ int32, id int32) float64 { return scores[id] }

	work := []wire.Task{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	results := runPool(t, 1, scorer, 50.0, work)

	if len(results) != 2 {
		t.Fatalf("forwarded %d results, want 2: %+v", len(results), results)
	}
	// Single worker preserves order.
	if results[0].ID != 1 || results[1].ID != 3 {
		t.Fatalf("unexpected ids: %+v", results)
	}
	if results[0].Score != 50.0 {
		t.Fatalf("boundary score mangled: %v", results[0].Score)
	}
}

func TestWorkerSurvivesScorerPanic(t *testing.T) {
	scorer := func(_ float32, _ int32, id int32) float64 {
		if id == 2 {
			panic("numerical blowup")
		}
		return 75.0
	}

	work := []wire.Task{{ID: 1}, {ID: 2}, {ID: 3}}
	results := runPool(t, 1, scorer, 50.0, work)

	if len(results) != 2 {
		t.Fatalf("forwarded %d results, want 2 (panicking task lost, loop alive)", len(results))
	}
	if results[0].ID != 1 || results[1].ID != 3 {
		t.Fatalf("unexpected ids after panic: %+v", results)
	}
}

func TestWorkerCountsExcludeFailedTasks(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New logger failed: %v", err)
	}

	scorer := func(_ float32, _ int32, id int32) float64 {
		if id == 2 {
			panic("numerical blowup")
		}
		return 75.0
	}

	tasks := make(chan pipeline.TaskMsg, 4)
	results := make(chan pipeline.ResultMsg, 4)
	for _, id := range []int32{1, 2, 3} {
		tasks <- pipeline.TaskMsg{Task: wire.Task{ID: id}}
	}
	tasks <- pipeline.TaskMsg{Stop: true}

	pipeline.NewPool(1, scorer, 50.0, tasks, results, logger).Run()

	// The panicking task is lost, not processed.
	line := buf.String()
	if !strings.Contains(line, "processed=2") {
		t.Fatalf("want processed=2 in worker summary: %q", line)
	}
	if !strings.Contains(line, "accepted=2") {
		t.Fatalf("want accepted=2 in worker summary: %q", line)
	}
}

func TestEachWorkerConsumesOneSentinel(t *testing.T) {
	const workers = 8
	scorer := func(_ float32, _ int32, _ int32) float64 { return 100.0 }

	// No tasks at all: Run must still return, one sentinel per worker.
	results := runPool(t, workers, scorer, 50.0, nil)
	if len(results) != 0 {
		t.Fatalf("got %d results from empty input", len(results))
	}
}

func TestPoolOutputIsAMultiset(t *testing.T) {
	const workers = 4
	const total = 100

	// Score depends on the id alone so the expected set is exact.
	scorer := func(_ float32, _ int32, id int32) float64 { return float64(id) }

	work := make([]wire.Task, 0, total)
	for i := 1; i <= total; i++ {
		work = append(work, wire.Task{ID: int32(i)})
	}

	results := runPool(t, workers, scorer, 50.0, work)

	var got []int
	for _, r := range results {
		got = append(got, int(r.ID))
	}
	sort.Ints(got)

	var want []int
	for i := 50; i <= total; i++ {
		want = append(want, i)
	}

	if len(got) != len(want) {
		t.Fatalf("forwarded %d results, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("filtered id set mismatch at %d: got %d want %d", i, got[i], want[i])
		}
	}
}
