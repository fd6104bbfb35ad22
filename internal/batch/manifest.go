package batch

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// Manifest is the JSON summary written after a run.
type Manifest struct {
	Total   int      `json:"total"`
	OK      int      `json:"ok"`
	Failed  int      `json:"failed"`
	Results []Result `json:"results"`
}

// NewManifest summarizes a run.
func NewManifest(results []Result) Manifest {
	ok, failed := Summarize(results)
	return Manifest{Total: len(results), OK: ok, Failed: failed, Results: results}
}

// WriteManifest writes the run summary to path.
func WriteManifest(path string, results []Result) error {
	data, err := json.MarshalIndent(NewManifest(results), "", "  ")
	if err != nil {
		return fmt.Errorf("batch: manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("batch: manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("batch: manifest %s: %w", path, err)
	}
	return m, nil
}
