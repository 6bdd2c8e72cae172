package poi

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Default dataset filenames under the data directory.
const (
	RawFilename      = "raw_pois.json"
	EnrichedFilename = "czestochowa_pois.json"
)

// Load reads a POI dataset from a JSON file.
func Load(path string) ([]POI, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var pois []POI
	if err := json.Unmarshal(data, &pois); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return pois, nil
}

// Save writes a POI dataset to a JSON file, creating parent directories as
// needed. Output is indented so datasets stay diffable.
func Save(path string, pois []POI) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(pois, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding POIs: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

// CountByCategory tallies POIs per category.
func CountByCategory(pois []POI) map[string]int {
	counts := make(map[string]int)
	for _, p := range pois {
		counts[p.Category]++
	}
	return counts
}
