package dataset_test

import (
	"os"
	"path/filepath"
	"testing"

	"sift/internal/dataset"
)

func TestGenerateIsReproducible(t *testing.T) {
	a := dataset.Generate(50, 7)
	b := dataset.Generate(50, 7)
	if len(a) != 50 {
		t.Fatalf("generated %d records, want 50", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("record %d differs across identical seeds: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateBounds(t *testing.T) {
	for i, record := range dataset.Generate(200, 1) {
		if record.ID != int32(i+1) {
			t.Fatalf("record %d has id %d", i, record.ID)
		}
		if record.Uptime < 100 || record.Uptime > 9999 {
			t.Fatalf("uptime %d out of range", record.Uptime)
		}
		if record.Load < 10.0 || record.Load > 90.0 {
			t.Fatalf("load %v out of range", record.Load)
		}
		if record.Location == "" {
			t.Fatal("empty location")
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "servers.json")
	want := dataset.Generate(10, 42)

	if err := dataset.Save(path, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := dataset.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d mismatch: %+v vs %+v", i, got[i], want[i])
		}
	}
}

func TestLoadRejectsEmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte(`{"servers": []}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := dataset.Load(path); err == nil {
		t.Fatal("expected error for empty dataset")
	}
}

func TestTaskConversion(t *testing.T) {
	record := dataset.Record{ID: 3, Location: "Kaunas", Uptime: 777, Load: 33.25}
	task := record.Task()
	if task.ID != 3 || task.Uptime != 777 || task.Load != 33.25 {
		t.Fatalf("unexpected task: %+v", task)
	}
}
