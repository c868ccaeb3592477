// Package dataset loads, generates, and saves the JSON server datasets the
// peer emulator feeds through the pipeline.
package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"sift/internal/wire"
)

// Record is one server entry of a dataset file.
type Record struct {
	ID       int32   `json:"id"`
	Location string  `json:"location"`
	Uptime   int32   `json:"uptime"`
	Load     float32 `json:"load"`
}

// Task converts a record into its pipeline task form.
func (r Record) Task() wire.Task {
	return wire.Task{ID: r.ID, Load: r.Load, Uptime: r.Uptime}
}

// File is the on-disk dataset shape.
type File struct {
	Servers []Record `json:"servers"`
}

// locations seeds the generator with plausible site names.
var locations = []string{
	"Vilnius", "Kaunas", "Klaipeda", "Siauliai", "Panevezys",
	"Alytus", "Marijampole", "Mazeikiai", "Jonava", "Utena",
	"Kedainiai", "Telsiai", "Visaginas", "Taurage", "Ukmerge",
}

// Load reads a dataset file.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	if len(file.Servers) == 0 {
		return nil, fmt.Errorf("dataset %s contains no servers", path)
	}
	return file.Servers, nil
}

// Save writes records as a dataset file, creating parent directories.
func Save(path string, records []Record) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dataset directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(File{Servers: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

// Generate produces count random records. Uptime spans 100-9999 and load
// 10.00-90.00, matching the distribution the scoring recurrence was
// calibrated against. The same seed reproduces the same dataset.
func Generate(count int, seed int64) []Record {
	rng := rand.New(rand.NewSource(seed))
	records := make([]Record, 0, count)
	for i := 0; i < count; i++ {
		load := 10.0 + rng.Float64()*80.0
		records = append(records, Record{
			ID:       int32(i + 1),
			Location: locations[rng.Intn(len(locations))],
			Uptime:   int32(100 + rng.Intn(9900)),
			Load:     float32(math.Round(load*100) / 100),
		})
	}
	return records
}
